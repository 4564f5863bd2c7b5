package cli

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/xavr/pkg/config"
	"github.com/arthur-debert/xavr/pkg/errors"
	"github.com/arthur-debert/xavr/pkg/filesystem"
	"github.com/arthur-debert/xavr/pkg/paths"
	"github.com/spf13/cobra"
)

func newGenConfigCmd(g *globalFlags) *cobra.Command {
	var (
		effective bool
		write     bool
	)

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := []byte(config.GenerateConfigContent())
			if effective {
				_, loaded, err := loadConfig(g, nil)
				if err != nil {
					return err
				}
				if content, err = loaded.Marshal(); err != nil {
					return err
				}
			}

			if !write {
				_, err := cmd.OutOrStdout().Write(content)
				return err
			}

			target := paths.ExpandHome(g.configFile)
			if target == "" {
				p, err := paths.New(g.workDir)
				if err != nil {
					return err
				}
				target = p.ConfigFilePath()
			}
			if err := writeConfig(filesystem.NewOS(), target, content); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&effective, "effective", false, MsgFlagEffective)
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	return cmd
}

// writeConfig saves content at path, refusing to replace an existing file
func writeConfig(fsys filesystem.FS, path string, content []byte) error {
	if _, err := fsys.Stat(path); err == nil {
		return errors.Newf(errors.ErrInvalidInput, MsgConfigExists, path).WithDetail("path", path)
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(path))
	}
	if err := fsys.WriteFile(path, content, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	return nil
}
