package toolchain

// SourcePath marks a tool found through the PATH environment variable
const SourcePath = "PATH"

// ToolPath is a resolved tool
type ToolPath struct {
	Name string
	Path string
	// Source is SourcePath or the search root the tool was found in
	Source string
}

// ToolPaths is the result of a successful resolution, in required-tool order
type ToolPaths struct {
	Tools []ToolPath
	// Root is the search root that satisfied every tool; empty for PATH
	Root string
}

// Get returns the resolved path of the named tool
func (t *ToolPaths) Get(name string) (string, bool) {
	for _, tool := range t.Tools {
		if tool.Name == name {
			return tool.Path, true
		}
	}
	return "", false
}

// FromSearchRoot reports whether the tools came from a fallback search root
func (t *ToolPaths) FromSearchRoot() bool {
	return t.Root != ""
}

// ModelKey is the template placeholder name for a tool's path
func ModelKey(name string) string {
	return name + "_loc"
}

// ModelValues maps <tool>_loc to each resolved path
func (t *ToolPaths) ModelValues() map[string]string {
	values := make(map[string]string, len(t.Tools))
	for _, tool := range t.Tools {
		values[ModelKey(tool.Name)] = tool.Path
	}
	return values
}
