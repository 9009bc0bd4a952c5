// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/narrate/cmd/narrate/commands"
	"github.com/walteh/narrate/cmd/narrate/opts"
	"github.com/walteh/narrate/pkg/config"
	"github.com/walteh/narrate/pkg/log"
)

// rootFlags are the persistent flags shared by every command
type rootFlags struct {
	configFile  string
	projectRoot string
	debug       bool
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, f *rootFlags) {
	cmd.PersistentFlags().StringVarP(&f.configFile, "config", "c", "", "config file path (default <root>/"+config.DefaultFileName+")")
	cmd.PersistentFlags().StringVar(&f.projectRoot, "root", "", "project root (default: parent of the executable's directory)")
	cmd.PersistentFlags().BoolVarP(&f.debug, "debug", "d", false, "enable debug logging")
}

// defaultProjectRoot is the parent of the directory holding the executable.
func defaultProjectRoot() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe)), nil
}

// populate loads the configuration and wires the loggers into o
func (f *rootFlags) populate(ctx context.Context, o *opts.RootOpts) error {
	root := f.projectRoot
	if root == "" && f.configFile == "" {
		var err error
		if root, err = defaultProjectRoot(); err != nil {
			return err
		}
	}
	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return errors.Errorf("resolving project root: %w", err)
		}
		root = abs
	}

	cfg, err := config.LoadOrDefault(ctx, f.configFile, root)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	if info, err := os.Stat(cfg.ProjectRoot); err != nil || !info.IsDir() {
		return errors.Errorf("project root %q is not a directory", cfg.ProjectRoot)
	}

	logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Errorf("opening log file: %w", err)
	}

	level := zerolog.InfoLevel
	var sink io.Writer = logFile
	if f.debug {
		level = zerolog.DebugLevel
		sink = io.MultiWriter(logFile, zerolog.ConsoleWriter{Out: os.Stderr})
	}

	o.Config = cfg
	o.LogFile = logFile
	o.Console = log.New(os.Stdout, sink, level)
	o.UserLogger = opts.NewUserLogger(o.Console.Zerolog().WithContext(ctx))
	return nil
}

// newRootCmd builds the command tree. Running it without a subcommand
// generates the report.
func newRootCmd(ctx context.Context) (*cobra.Command, *opts.RootOpts) {
	flags := &rootFlags{}
	o := &opts.RootOpts{UserLogger: opts.NewUserLogger(ctx)}

	rootCmd := &cobra.Command{
		Use:   "narrate",
		Short: "Generate a narrated PDF report for a data analysis project",
		Long: `narrate walks a project directory (Code, Data, Output, ...), describes every
file it finds with the help of a summarization service and writes a single
paginated report.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.populate(cmd.Context(), o); err != nil {
				return err
			}
			cmd.SetContext(log.NewContext(cmd.Context(), o.Console))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunGenerate(cmd, o)
		},
	}

	addRootFlags(rootCmd, flags)

	rootCmd.AddCommand(
		commands.NewGenerateCmd(o),
		commands.NewContextCmd(o),
		commands.NewPatchNotebookCmd(o),
		newVersionCmd(),
	)

	return rootCmd, o
}
