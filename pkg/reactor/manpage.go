// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package reactor

import (
	"fmt"
	"time"

	"github.com/feel-co/ndg/pkg/manpage"
	"github.com/feel-co/ndg/pkg/options"
)

// ManpageOptions configures GenerateManpage. It is independent of
// Build: the original implementation dispatches manpage generation as
// a distinct CLI path with its own output file, never as part of the
// default site build (see DESIGN.md's pkg/reactor entry).
type ManpageOptions struct {
	Title   string
	Manual  string
	Section int
	Header  string
	Footer  string
}

// GenerateManpage renders the module-options catalog as a troff
// document (spec §4.10), reusing the same catalog/description
// pipeline Build's options phase uses.
func (r *Reactor) GenerateManpage(opts ManpageOptions) (string, error) {
	if r.Catalog == nil {
		return "", fmt.Errorf("no module-options catalog configured")
	}
	descriptions := options.NewDescriptionRenderer(r.md, r.validOptions, r.URLs)
	processed, err := options.Process(r.Catalog, r.Config.Revision, descriptions)
	if err != nil {
		return "", fmt.Errorf("processing options catalog: %w", err)
	}
	return manpage.GenerateOptionsManpage(processed, opts.Title, opts.Manual, opts.Section, opts.Header, opts.Footer, time.Now())
}
