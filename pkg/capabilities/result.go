package capabilities

// Status is the outcome of parsing one capability listing
type Status string

const (
	StatusFound          Status = "found"
	StatusEmpty          Status = "empty"
	StatusHeaderNotFound Status = "header-not-found"
)

// Result holds the entries of one listing and how the parse went
type Result[T any] struct {
	Status  Status `json:"status" yaml:"status"`
	Header  string `json:"header" yaml:"header"`
	Entries []T    `json:"entries" yaml:"entries"`
}

func newResult[T any](header string, headerFound bool, entries []T) Result[T] {
	status := StatusHeaderNotFound
	switch {
	case headerFound && len(entries) > 0:
		status = StatusFound
	case headerFound:
		status = StatusEmpty
	}
	if entries == nil {
		entries = []T{}
	}
	return Result[T]{Status: status, Header: header, Entries: entries}
}

// Drifted reports whether the expected header was missing from the output
func (r Result[T]) Drifted() bool {
	return r.Status == StatusHeaderNotFound
}

// Len returns the number of entries
func (r Result[T]) Len() int {
	return len(r.Entries)
}
