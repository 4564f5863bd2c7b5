package errors

// hints suggest a next step for the errors a user can fix
var hints = map[ErrorCode]string{
	ErrToolsMissing:        "install the AVR toolchain and avrdude, or add their folder to toolchain.search_roots",
	ErrScrapeFormat:        "the tool output changed format; run without --strict to continue with partial results",
	ErrScrapeExec:          "check that the tool runs, or raise capabilities.timeout",
	ErrTemplatePlaceholder: "placeholders are {tool_loc}, {isystem}, {isystem_flags} and the fields of the iterated list",
	ErrTemplateIterKey:     "@iter@ accepts the lists mcus and programmers",
	ErrConfigValid:         "run `xavr genconfig` to see the expected settings",
	ErrConfigParse:         "run `xavr genconfig` to see the expected settings",
}

// Hint returns a suggestion for fixing err, or "" when there is none
func Hint(err error) string {
	return hints[GetErrorCode(err)]
}
