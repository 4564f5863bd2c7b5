// Package toolchain resolves the absolute paths of the AVR tools xavr needs.
//
// Resolution is all or nothing. The PATH is searched first; if any tool is
// missing there, the PATH result is discarded and each configured search
// root is tried in order, accepting the first root that holds every tool.
// When no strategy finds every tool, Resolve returns a TOOLS_MISSING error
// naming what was missing.
package toolchain
