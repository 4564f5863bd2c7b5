package capabilities

import (
	"io"
	"regexp"
	"strings"
)

// ProgrammerHeader introduces the programmer list in `avrdude -c?` output
const ProgrammerHeader = "Valid programmers are:"

var programmerLine = regexp.MustCompile(`^  (.+?)\s+=(.*)$`)

// Programmer is a hardware programmer supported by avrdude
type Programmer struct {
	ID          string `json:"programmer" yaml:"programmer"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Fields returns the template scope of the programmer
func (p Programmer) Fields() map[string]string {
	return map[string]string{
		"programmer":  p.ID,
		"description": p.Description,
	}
}

// ParseProgrammers reads lines of the form "  <id>   = <description>" after
// the header, stopping at the first line that does not match
func ParseProgrammers(r io.Reader) (Result[Programmer], error) {
	var programmers []Programmer
	parser := sectionParser{
		isHeader: exactHeader(ProgrammerHeader),
		collect: func(line string) bool {
			m := programmerLine.FindStringSubmatch(line)
			if m == nil {
				return false
			}
			programmers = append(programmers, Programmer{
				ID:          m[1],
				Description: strings.TrimSpace(m[2]),
			})
			return true
		},
	}

	found, err := parser.run(r)
	return newResult(ProgrammerHeader, found, programmers), err
}
