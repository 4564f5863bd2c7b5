// Package capabilities scrapes the capability listings printed by the AVR
// tools: supported MCUs from avr-gcc, hardware programmers from avrdude and
// the system include search path from avr-cpp.
//
// Each listing is a header line followed by a block of entries. The parsers
// are small state machines over the raw text, independent of how the text
// was produced, and report one of three outcomes:
//
//   - StatusFound: the header was seen and at least one entry followed
//   - StatusEmpty: the header was seen and no entry followed
//   - StatusHeaderNotFound: the header never appeared, which usually means
//     the tool changed its output format
package capabilities
