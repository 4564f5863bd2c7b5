package template

import "sort"

// Scope maps placeholder names to their values
type Scope map[string]string

// Model is everything a template can reference
type Model struct {
	// Values are resolved by lines outside iteration blocks
	Values Scope

	// Lists are the sequences iteration blocks run over
	Lists map[string][]Scope
}

// NewModel creates an empty model
func NewModel() Model {
	return Model{
		Values: Scope{},
		Lists:  map[string][]Scope{},
	}
}

// Set stores a scalar value
func (m Model) Set(key, value string) {
	m.Values[key] = value
}

// Merge copies every value of scope into the model's scalars
func (m Model) Merge(scope map[string]string) {
	for k, v := range scope {
		m.Values[k] = v
	}
}

// SetList stores a named list
func (m Model) SetList(name string, items []Scope) {
	if items == nil {
		items = []Scope{}
	}
	m.Lists[name] = items
}

// Keys returns the scalar names in sorted order
func (m Model) Keys() []string {
	keys := make([]string, 0, len(m.Values))
	for k := range m.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ListNames returns the list names in sorted order
func (m Model) ListNames() []string {
	names := make([]string, 0, len(m.Lists))
	for k := range m.Lists {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
