// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ndg

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/feel-co/ndg/pkg/reactor"
)

type manpageCmdFlags struct {
	title       string
	manual      string
	section     int
	header      string
	footer      string
	destination string
}

// newManpageCmd builds the manpage generation subcommand. Grounded on
// the original ndg CLI dispatching manpage generation as a distinct
// operation from the default site build (see DESIGN.md's pkg/reactor
// entry): it reuses the same Options/catalog wiring as the build
// command but produces a single troff document instead of a site.
func newManpageCmd(ctx context.Context) *cobra.Command {
	flags := &manpageCmdFlags{}
	cmd := &cobra.Command{
		Use:   "manpage",
		Short: "Render the module-options catalog as a manpage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			opts, err := NewOptions()
			if err != nil {
				return err
			}
			if opts.ModuleOptions == "" {
				return fmt.Errorf("--module-options is required to generate a manpage")
			}
			r, err := newReactor(opts)
			if err != nil {
				return err
			}
			out, err := r.GenerateManpage(reactor.ManpageOptions{
				Title:   flags.title,
				Manual:  flags.manual,
				Section: flags.section,
				Header:  flags.header,
				Footer:  flags.footer,
			})
			if err != nil {
				return err
			}
			if flags.destination == "" || flags.destination == "-" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			return os.WriteFile(flags.destination, []byte(out), 0o644)
		},
	}

	cmd.Flags().StringVar(&flags.title, "title", "CONFIGURATION.NIX", "Manpage title.")
	cmd.Flags().StringVar(&flags.manual, "manual", "ndg", "Manpage manual name.")
	cmd.Flags().IntVar(&flags.section, "section", 5, "Manpage section.")
	cmd.Flags().StringVar(&flags.header, "header", "", "Extra text inserted before the options listing.")
	cmd.Flags().StringVar(&flags.footer, "footer", "", "Extra text inserted after the options listing.")
	cmd.Flags().StringVarP(&flags.destination, "destination", "d", "-", "Output path, or \"-\" for stdout.")

	return cmd
}
