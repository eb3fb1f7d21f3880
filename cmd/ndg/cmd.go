// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package ndg wires the cobra root command, viper configuration
// merge, and subcommands for the ndg binary. Grounded on the
// teacher's cmd/app/cmd.go: a package-level *viper.Viper with
// "::"-delimited keys, per-flag BindPFlag calls, an optional YAML
// config file, and RunE building the real work from the merged
// Options.
package ndg

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	klog "k8s.io/klog/v2"

	"github.com/feel-co/ndg/cmd/gendocs"
)

const (
	// DefaultConfigFileName is the configuration filename under the
	// ndg home folder.
	DefaultConfigFileName = "config"
	// NdgHomeDir is the ndg home location under $HOME.
	NdgHomeDir = ".ndg"
)

// Options holds every flag/config value the build and manpage
// commands consume, mapstructure-tagged the same way
// api.Configuration is so vip.Unmarshal can populate it directly.
type Options struct {
	InputDir        string            `mapstructure:"input-dir"`
	OutputDir       string            `mapstructure:"output-dir"`
	Title           string            `mapstructure:"title"`
	ModuleOptions   string            `mapstructure:"module-options"`
	Revision        string            `mapstructure:"revision"`
	HighlightCode   bool              `mapstructure:"highlight-code"`
	HighlightTheme  string            `mapstructure:"highlight-theme"`
	TabStyle        string            `mapstructure:"tab-style"`
	ManpageURLsPath string            `mapstructure:"manpage-urls-path"`
	SearchEnable    bool              `mapstructure:"search-enable"`
	SearchMaxLevel  int               `mapstructure:"search-max-heading-level"`
	OptionsTocDepth int               `mapstructure:"options-toc-depth"`
	NixdocInputs    []string          `mapstructure:"nixdoc-inputs"`
	Workers         int               `mapstructure:"workers"`
	LanguageAliases map[string]string `mapstructure:"language-aliases"`
	FallbackToPlain bool              `mapstructure:"fallback-to-plain"`
}

var vip *viper.Viper

// NewCommand creates the ndg root command and attaches the build,
// manpage, version, completion, and gen-cmd-docs subcommands.
func NewCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ndg",
		Short: "Generate a static documentation site from Nix-flavored CommonMark",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			opts, err := NewOptions()
			if err != nil {
				return err
			}
			return runBuild(ctx, opts)
		},
	}

	Configure(cmd)

	cmd.AddCommand(newManpageCmd(ctx))
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(gendocs.NewGenCmdDocs())

	klog.InitFlags(nil)
	AddFlags(cmd)

	return cmd
}

// Configure sets up viper and binds every flag to it.
func Configure(command *cobra.Command) {
	vip = viper.NewWithOptions(viper.KeyDelimiter("::"))
	configureFlags(command)
	configureConfigFile()
}

func configureFlags(command *cobra.Command) {
	command.Flags().StringP("input-dir", "i", "",
		"Directory containing the Markdown sources to render.")
	_ = command.MarkFlagRequired("input-dir")
	_ = vip.BindPFlag("input-dir", command.Flags().Lookup("input-dir"))

	command.Flags().StringP("output-dir", "o", "",
		"Directory the rendered site is written to.")
	_ = command.MarkFlagRequired("output-dir")
	_ = vip.BindPFlag("output-dir", command.Flags().Lookup("output-dir"))

	command.Flags().String("title", "Documentation",
		"Site title, used in the default page template.")
	_ = vip.BindPFlag("title", command.Flags().Lookup("title"))

	command.Flags().String("module-options", "",
		"Path to a module-options JSON catalog to render as options.html.")
	_ = vip.BindPFlag("module-options", command.Flags().Lookup("module-options"))

	command.Flags().String("revision", "",
		"Revision string substituted into declared-in source links.")
	_ = vip.BindPFlag("revision", command.Flags().Lookup("revision"))

	command.Flags().Bool("highlight-code", true,
		"Enable syntax highlighting of fenced code blocks.")
	_ = vip.BindPFlag("highlight-code", command.Flags().Lookup("highlight-code"))

	command.Flags().String("highlight-theme", "monokai",
		"Chroma theme used for syntax highlighting.")
	_ = vip.BindPFlag("highlight-theme", command.Flags().Lookup("highlight-theme"))

	command.Flags().String("tab-style", "warn",
		"How hard tabs in source Markdown are handled: none, warn, or normalize.")
	_ = vip.BindPFlag("tab-style", command.Flags().Lookup("tab-style"))

	command.Flags().String("manpage-urls-path", "",
		"Path to a JSON file mapping \"name(section)\" to a URL, used to link manpage references.")
	_ = vip.BindPFlag("manpage-urls-path", command.Flags().Lookup("manpage-urls-path"))

	command.Flags().Bool("search-enable", false,
		"Generate assets/search-data.json.")
	_ = vip.BindPFlag("search-enable", command.Flags().Lookup("search-enable"))

	command.Flags().Int("search-max-heading-level", 3,
		"Deepest heading level included as a search anchor.")
	_ = vip.BindPFlag("search-max-heading-level", command.Flags().Lookup("search-max-heading-level"))

	command.Flags().Int("options-toc-depth", 2,
		"How many category levels the options table of contents groups by.")
	_ = vip.BindPFlag("options-toc-depth", command.Flags().Lookup("options-toc-depth"))

	command.Flags().StringSlice("nixdoc-inputs", []string{},
		"Nix source files or directories to harvest nixdoc comments from for lib.html.")
	_ = vip.BindPFlag("nixdoc-inputs", command.Flags().Lookup("nixdoc-inputs"))

	command.Flags().Int("workers", 0,
		"Number of parallel workers per phase. 0 uses the number of CPUs.")
	_ = vip.BindPFlag("workers", command.Flags().Lookup("workers"))

	command.Flags().StringToString("language-aliases", map[string]string{},
		"Extra fenced-code language name -> canonical lexer name aliases.")
	_ = vip.BindPFlag("language-aliases", command.Flags().Lookup("language-aliases"))

	command.Flags().Bool("fallback-to-plain", true,
		"Render unknown fenced-code languages as plain text instead of failing.")
	_ = vip.BindPFlag("fallback-to-plain", command.Flags().Lookup("fallback-to-plain"))
}

func configureConfigFile() {
	vip.AutomaticEnv()
	cfgFile := os.Getenv("NDG_CONFIG")
	if cfgFile == "" {
		userHomeDir, _ := os.UserHomeDir()
		cfgFile = filepath.Join(userHomeDir, NdgHomeDir, DefaultConfigFileName)
		if _, err := os.Lstat(cfgFile); os.IsNotExist(err) {
			return
		}
	}
	vip.AddConfigPath(filepath.Dir(cfgFile))
	vip.SetConfigName(filepath.Base(cfgFile))
	vip.SetConfigType("yaml")
	if err := vip.ReadInConfig(); err != nil {
		klog.Warningf("non-fatal error loading configuration file %s, it will be ignored: %v", cfgFile, err)
		return
	}
	klog.Infof("configuration file %s will be used", cfgFile)
}

// NewOptions merges flags and the config file into an Options value,
// flags taking precedence.
func NewOptions() (*Options, error) {
	loadedOptions := &Options{}
	if err := vip.Unmarshal(loadedOptions); err != nil {
		return nil, err
	}
	return loadedOptions, nil
}

// AddFlags passes through the standard flag.CommandLine flags (e.g.
// klog's) into the cobra command, matching the teacher's pattern.
func AddFlags(rootCmd *cobra.Command) {
	flag.CommandLine.VisitAll(func(gf *flag.Flag) {
		rootCmd.Flags().AddGoFlag(gf)
	})
}
