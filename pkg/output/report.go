package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/xavr/pkg/capabilities"
	"github.com/arthur-debert/xavr/pkg/errors"
	"github.com/arthur-debert/xavr/pkg/toolchain"
	"github.com/charmbracelet/glamour"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// Probe is what `xavr probe` reports: the resolved tools and what they support
type Probe struct {
	Tools  *toolchain.ToolPaths
	Report *capabilities.Report
}

type probeDoc struct {
	Tools        []toolDoc            `json:"tools" yaml:"tools"`
	SearchRoot   string               `json:"search_root,omitempty" yaml:"search_root,omitempty"`
	Capabilities *capabilities.Report `json:"capabilities" yaml:"capabilities"`
	Drift        []string             `json:"drift,omitempty" yaml:"drift,omitempty"`
}

type toolDoc struct {
	Name   string `json:"name" yaml:"name"`
	Path   string `json:"path" yaml:"path"`
	Source string `json:"source" yaml:"source"`
}

func (p Probe) doc() probeDoc {
	d := probeDoc{Tools: []toolDoc{}, Capabilities: p.Report}
	if p.Tools != nil {
		d.SearchRoot = p.Tools.Root
		for _, t := range p.Tools.Tools {
			d.Tools = append(d.Tools, toolDoc{Name: t.Name, Path: t.Path, Source: t.Source})
		}
	}
	if p.Report != nil {
		d.Drift = p.Report.Drift()
	} else {
		d.Capabilities = &capabilities.Report{}
	}
	return d
}

// RenderProbe writes the probe result to w in the given format
func RenderProbe(w io.Writer, format Format, probe Probe) error {
	format = Resolve(format, w)
	doc := probe.doc()

	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
	case FormatMarkdown:
		err = renderMarkdown(w, doc, Resolve(FormatAuto, w) == FormatTerminal)
	case FormatTerminal:
		err = renderTerminal(w, doc)
	case FormatText:
		_, err = io.WriteString(w, plainText(doc))
	default:
		return errors.Newf(errors.ErrInvalidInput, "unsupported format: %s", format)
	}

	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s report", format)
	}
	return nil
}

func sectionTitle[T any](name string, r capabilities.Result[T]) string {
	switch r.Status {
	case capabilities.StatusHeaderNotFound:
		return fmt.Sprintf("%s (not found: expected %q)", name, r.Header)
	default:
		return fmt.Sprintf("%s (%s, %d)", name, r.Status, r.Len())
	}
}

func plainText(d probeDoc) string {
	var b strings.Builder
	report := d.Capabilities

	b.WriteString("Tools")
	if d.SearchRoot != "" {
		fmt.Fprintf(&b, " (from %s)", d.SearchRoot)
	}
	b.WriteString("\n")
	for _, t := range d.Tools {
		fmt.Fprintf(&b, "  %-12s %s\n", t.Name, t.Path)
	}

	fmt.Fprintf(&b, "\n%s\n", sectionTitle("System includes", report.Includes))
	for _, dir := range report.Includes.Entries {
		fmt.Fprintf(&b, "  %s\n", dir)
	}

	fmt.Fprintf(&b, "\n%s\n", sectionTitle("MCUs", report.MCUs))
	for _, mcu := range report.MCUs.Entries {
		fmt.Fprintf(&b, "  %-16s %s\n", mcu.Name, mcu.Define)
	}

	fmt.Fprintf(&b, "\n%s\n", sectionTitle("Programmers", report.Programmers))
	for _, p := range report.Programmers.Entries {
		fmt.Fprintf(&b, "  %-16s %s\n", p.ID, p.Description)
	}

	return b.String()
}

func renderTerminal(w io.Writer, d probeDoc) error {
	report := d.Capabilities
	var b strings.Builder

	title := "Tools"
	if d.SearchRoot != "" {
		title += " (from " + d.SearchRoot + ")"
	}
	tools := pterm.TableData{{"Tool", "Path"}}
	for _, t := range d.Tools {
		tools = append(tools, []string{t.Name, t.Path})
	}
	if err := writeTable(&b, title, tools); err != nil {
		return err
	}

	b.WriteString(TitleStyle.Render(sectionTitle("System includes", report.Includes)) + "\n")
	for _, dir := range report.Includes.Entries {
		b.WriteString("  " + PathStyle.Render(dir) + "\n")
	}
	b.WriteString("\n")

	mcus := pterm.TableData{{"MCU", "Define"}}
	for _, mcu := range report.MCUs.Entries {
		mcus = append(mcus, []string{mcu.Name, mcu.Define})
	}
	if err := writeTable(&b, sectionTitle("MCUs", report.MCUs), mcus); err != nil {
		return err
	}

	programmers := pterm.TableData{{"Programmer", "Description"}}
	for _, p := range report.Programmers.Entries {
		programmers = append(programmers, []string{p.ID, p.Description})
	}
	if err := writeTable(&b, sectionTitle("Programmers", report.Programmers), programmers); err != nil {
		return err
	}

	for _, probe := range d.Drift {
		b.WriteString(DriftStyle.Sprint("Warning:") + " possible format drift in " + probe + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTable(b *strings.Builder, title string, data pterm.TableData) error {
	b.WriteString(TitleStyle.Render(title) + "\n")
	if len(data) > 1 {
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		b.WriteString(table + "\n")
	}
	b.WriteString("\n")
	return nil
}

func markdown(d probeDoc) string {
	var b strings.Builder
	report := d.Capabilities

	b.WriteString("# AVR toolchain\n\n")
	b.WriteString("## Tools\n\n")
	if d.SearchRoot != "" {
		fmt.Fprintf(&b, "Found in search root `%s`.\n\n", d.SearchRoot)
	}
	b.WriteString("| Tool | Path |\n|---|---|\n")
	for _, t := range d.Tools {
		fmt.Fprintf(&b, "| %s | `%s` |\n", t.Name, t.Path)
	}

	fmt.Fprintf(&b, "\n## %s\n\n", sectionTitle("System includes", report.Includes))
	for _, dir := range report.Includes.Entries {
		fmt.Fprintf(&b, "- `%s`\n", dir)
	}

	fmt.Fprintf(&b, "\n## %s\n\n", sectionTitle("MCUs", report.MCUs))
	if report.MCUs.Len() > 0 {
		b.WriteString("| MCU | Define |\n|---|---|\n")
		for _, mcu := range report.MCUs.Entries {
			fmt.Fprintf(&b, "| %s | `%s` |\n", mcu.Name, mcu.Define)
		}
	}

	fmt.Fprintf(&b, "\n## %s\n\n", sectionTitle("Programmers", report.Programmers))
	if report.Programmers.Len() > 0 {
		b.WriteString("| Programmer | Description |\n|---|---|\n")
		for _, p := range report.Programmers.Entries {
			fmt.Fprintf(&b, "| %s | %s |\n", p.ID, strings.ReplaceAll(p.Description, "|", `\|`))
		}
	}

	if len(d.Drift) > 0 {
		fmt.Fprintf(&b, "\n> **Warning:** possible format drift in %s\n", strings.Join(d.Drift, ", "))
	}

	return b.String()
}

func renderMarkdown(w io.Writer, d probeDoc, styled bool) error {
	content := markdown(d)
	if styled {
		renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err == nil {
			if rendered, rerr := renderer.Render(content); rerr == nil {
				content = rendered
			}
		}
	}
	_, err := io.WriteString(w, content)
	return err
}
