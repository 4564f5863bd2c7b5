package capabilities

import (
	"bufio"
	"io"
	"strings"
)

type parseState int

const (
	seekingHeader parseState = iota
	collecting
	done
)

// maxLineSize bounds a single line of tool output
const maxLineSize = 1024 * 1024

// sectionParser walks a report line by line: it skips lines until isHeader
// matches, then hands every following line to collect until collect returns
// false or the input ends.
type sectionParser struct {
	isHeader func(line string) bool
	collect  func(line string) bool
}

// run reports whether the header was seen
func (p sectionParser) run(r io.Reader) (bool, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	state := seekingHeader
	for state != done && scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		switch state {
		case seekingHeader:
			if p.isHeader(line) {
				state = collecting
			}
		case collecting:
			if !p.collect(line) {
				state = done
			}
		}
	}

	return state != seekingHeader, scanner.Err()
}

// isIndented reports whether line starts with a space or a tab
func isIndented(line string) bool {
	return line != "" && (line[0] == ' ' || line[0] == '\t')
}

func exactHeader(header string) func(string) bool {
	return func(line string) bool { return line == header }
}

func containsHeader(header string) func(string) bool {
	return func(line string) bool { return strings.Contains(line, header) }
}
