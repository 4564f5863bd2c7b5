package installer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/xavr/pkg/errors"
	"github.com/arthur-debert/xavr/pkg/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>MCUs</key>
	<array>
		@iter mcus@
		<string>{mcu}</string>
		@end@
	</array>
	<key>Programmers</key>
	<array>
		@iter programmers@
		<string>{programmer}</string>
		@end@
	</array>
</dict>
</plist>
`

func testModel() template.Model {
	m := template.NewModel()
	m.Set("avr-gcc_loc", "/usr/bin/avr-gcc")
	m.SetList("mcus", []template.Scope{{"mcu": "atmega8"}, {"mcu": "attiny85"}})
	m.SetList("programmers", []template.Scope{{"programmer": "usbasp"}})
	return m
}

func setupTemplates(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func defaultTemplates(t *testing.T) string {
	return setupTemplates(t, map[string]string{
		"Makefile.tpl":           "CC = {avr-gcc_loc}\n",
		"TemplateInfo.plist.tpl": plistTemplate,
		"main.c":                 "int main(void) { return 0; }\n",
		"TemplateIcon.icns":      "icns",
	})
}

func testOptions(templates, dest string) Options {
	return Options{
		TemplatesDir: templates,
		Makefile:     "Makefile.tpl",
		Descriptor:   "TemplateInfo.plist.tpl",
		Assets:       []string{"main.c", "TemplateIcon.icns"},
		Dest:         dest,
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInstall(t *testing.T) {
	templates := defaultTemplates(t)
	dest := filepath.Join(t.TempDir(), "Templates", "xavr", "xavr.xctemplate")

	result, err := New().Install(context.Background(), testModel(), testOptions(templates, dest))
	require.NoError(t, err)

	assert.Equal(t, dest, result.Dest)
	assert.Equal(t, 3, result.DescriptorStrings)
	assert.Empty(t, result.MissingAssets)
	assert.ElementsMatch(t, []string{
		filepath.Join(dest, "Makefile"),
		filepath.Join(dest, "TemplateInfo.plist"),
		filepath.Join(dest, "main.c"),
		filepath.Join(dest, "TemplateIcon.icns"),
	}, result.Installed)

	assert.Equal(t, "CC = /usr/bin/avr-gcc\n", readFile(t, filepath.Join(dest, "Makefile")))
	assert.Contains(t, readFile(t, filepath.Join(dest, "TemplateInfo.plist")), "\t\t<string>attiny85</string>\n")
	assert.Equal(t, "icns", readFile(t, filepath.Join(dest, "TemplateIcon.icns")))

	// Installing again over an existing directory succeeds and overwrites
	_, err = New().Install(context.Background(), testModel(), testOptions(templates, dest))
	require.NoError(t, err)
}

func TestInstallDryRun(t *testing.T) {
	templates := defaultTemplates(t)
	dest := filepath.Join(t.TempDir(), "dest")

	opts := testOptions(templates, dest)
	opts.DryRun = true

	result, err := New().Install(context.Background(), testModel(), opts)
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Empty(t, result.Installed)
	var ids []string
	for _, op := range result.Operations {
		ids = append(ids, op.ID)
	}
	assert.Equal(t, []string{
		"mkdir-dest",
		"write-Makefile",
		"write-TemplateInfo.plist",
		"copy-main.c",
		"copy-TemplateIcon.icns",
	}, ids)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "dry run writes nothing")
}

func TestInstallMissingAsset(t *testing.T) {
	templates := setupTemplates(t, map[string]string{
		"Makefile.tpl":           "all:\n",
		"TemplateInfo.plist.tpl": plistTemplate,
		"main.c":                 "int main(void) {}\n",
	})
	dest := filepath.Join(t.TempDir(), "dest")

	result, err := New().Install(context.Background(), testModel(), testOptions(templates, dest))
	require.NoError(t, err)

	assert.Equal(t, []string{"TemplateIcon.icns"}, result.MissingAssets)
	assert.FileExists(t, filepath.Join(dest, "main.c"))
	assert.NoFileExists(t, filepath.Join(dest, "TemplateIcon.icns"))
}

func TestInstallInvalidDescriptor(t *testing.T) {
	templates := setupTemplates(t, map[string]string{
		"Makefile.tpl":           "all:\n",
		"TemplateInfo.plist.tpl": "<plist><dict>\n@iter mcus@\n<string>{mcu}</string>\n@end@\n</plist>\n",
	})
	dest := filepath.Join(t.TempDir(), "dest")

	_, err := New().Install(context.Background(), testModel(), testOptions(templates, dest))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateInvalid))

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "nothing is written when the descriptor is invalid")
}

func TestInstallRenderErrors(t *testing.T) {
	t.Run("missing template", func(t *testing.T) {
		templates := setupTemplates(t, map[string]string{"Makefile.tpl": "all:\n"})
		_, err := New().Install(context.Background(), testModel(), testOptions(templates, t.TempDir()))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
	})

	t.Run("unknown placeholder", func(t *testing.T) {
		templates := setupTemplates(t, map[string]string{
			"Makefile.tpl":           "CC = {avr-cc_loc}\n",
			"TemplateInfo.plist.tpl": plistTemplate,
		})
		_, err := New().Install(context.Background(), testModel(), testOptions(templates, t.TempDir()))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrTemplatePlaceholder))
	})

	t.Run("asset outside the templates", func(t *testing.T) {
		opts := testOptions(defaultTemplates(t), t.TempDir())
		opts.Assets = []string{"../secret"}
		_, err := New().Install(context.Background(), testModel(), opts)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("destination holds the templates", func(t *testing.T) {
		templates := defaultTemplates(t)
		_, err := New().Install(context.Background(), testModel(), testOptions(templates, templates))
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
		assert.Equal(t, "int main(void) { return 0; }\n", readFile(t, filepath.Join(templates, "main.c")))
	})

	t.Run("no destination", func(t *testing.T) {
		_, err := New().Install(context.Background(), testModel(), Options{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestCheckDescriptor(t *testing.T) {
	n, err := CheckDescriptor([]byte("<plist><array><string>a</string><string>b</string></array></plist>"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = CheckDescriptor([]byte("<plist><array></plist>"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateInvalid))

	_, err = CheckDescriptor([]byte("   "))
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateInvalid))
}

func TestRenderedName(t *testing.T) {
	assert.Equal(t, "Makefile", RenderedName("Makefile.tpl"))
	assert.Equal(t, "TemplateInfo.plist", RenderedName("templates/TemplateInfo.plist.tpl"))
	assert.Equal(t, "Makefile", RenderedName("Makefile"))
}
