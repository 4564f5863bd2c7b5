package setup

import (
	"strings"

	"github.com/arthur-debert/xavr/pkg/capabilities"
	"github.com/arthur-debert/xavr/pkg/template"
	"github.com/arthur-debert/xavr/pkg/toolchain"
)

// Model keys shared with the shipped templates
const (
	KeyISystem      = "isystem"
	KeyISystemFlags = "isystem_flags"
	ListMCUs        = "mcus"
	ListProgrammers = "programmers"
)

// BuildModel assembles the template model from the resolved tools and the
// scraped capabilities. Either may be nil.
func BuildModel(tools *toolchain.ToolPaths, report *capabilities.Report) template.Model {
	model := template.NewModel()

	if tools != nil {
		model.Merge(tools.ModelValues())
	}

	if report == nil {
		report = &capabilities.Report{}
	}

	includes := report.Includes.Entries
	flags := make([]string, 0, len(includes))
	for _, dir := range includes {
		flags = append(flags, "-isystem "+dir)
	}
	model.Set(KeyISystem, strings.Join(includes, " "))
	model.Set(KeyISystemFlags, strings.Join(flags, " "))

	mcus := make([]template.Scope, 0, report.MCUs.Len())
	for _, mcu := range report.MCUs.Entries {
		mcus = append(mcus, template.Scope(mcu.Fields()))
	}
	model.SetList(ListMCUs, mcus)

	programmers := make([]template.Scope, 0, report.Programmers.Len())
	for _, p := range report.Programmers.Entries {
		programmers = append(programmers, template.Scope(p.Fields()))
	}
	model.SetList(ListProgrammers, programmers)

	return model
}
