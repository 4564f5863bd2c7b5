package capabilities

import (
	"io"
	"strings"
)

// MCUHeader introduces the device list in `avr-gcc --target-help` output
const MCUHeader = "Known MCU names:"

// mcuFamilies are case-folded in preprocessor defines, longest first so
// XMEGA is handled before MEGA
var mcuFamilies = []string{"XMEGA", "MEGA", "TINY"}

// MCU is a supported microcontroller and the define avr-gcc sets for it
type MCU struct {
	Name   string `json:"mcu" yaml:"mcu"`
	Define string `json:"define" yaml:"define"`
}

// Fields returns the template scope of the MCU
func (m MCU) Fields() map[string]string {
	return map[string]string{
		"mcu":  m.Name,
		"defi": m.Define,
	}
}

// DefineForMCU derives the preprocessor define of an MCU name:
// atmega328p becomes __AVR_ATmega328P__
func DefineForMCU(name string) string {
	define := strings.ToUpper(name)
	for _, family := range mcuFamilies {
		define = strings.ReplaceAll(define, family, strings.ToLower(family))
	}
	return "__AVR_" + define + "__"
}

// ParseMCUs reads the device list: every indented line after the header
// holds whitespace separated MCU names, and the first unindented line ends it
func ParseMCUs(r io.Reader) (Result[MCU], error) {
	var mcus []MCU
	parser := sectionParser{
		isHeader: containsHeader(MCUHeader),
		collect: func(line string) bool {
			if !isIndented(line) {
				return false
			}
			for _, name := range strings.Fields(line) {
				mcus = append(mcus, MCU{Name: name, Define: DefineForMCU(name)})
			}
			return true
		},
	}

	found, err := parser.run(r)
	return newResult(MCUHeader, found, mcus), err
}
