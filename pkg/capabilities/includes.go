package capabilities

import (
	"io"
	"path/filepath"
	"strings"
)

// IncludeHeader introduces the system include directories in `cpp -v` output
const IncludeHeader = "#include <...> search starts here:"

// ParseIncludes collects the indented directories after the header,
// trimmed and cleaned
func ParseIncludes(r io.Reader) (Result[string], error) {
	var dirs []string
	parser := sectionParser{
		isHeader: exactHeader(IncludeHeader),
		collect: func(line string) bool {
			if !isIndented(line) {
				return false
			}
			dir := strings.TrimSpace(line)
			if dir != "" {
				dirs = append(dirs, filepath.Clean(dir))
			}
			return true
		},
	}

	found, err := parser.run(r)
	return newResult(IncludeHeader, found, dirs), err
}
