// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ndg

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/feel-co/ndg/pkg/api"
	"github.com/feel-co/ndg/pkg/highlight"
	"github.com/feel-co/ndg/pkg/highlight/chromahl"
	"github.com/feel-co/ndg/pkg/options"
	"github.com/feel-co/ndg/pkg/reactor"
	"github.com/feel-co/ndg/pkg/writers"
)

// toConfiguration maps the flattened, viper-friendly Options into the
// api.Configuration record pkg/reactor consumes.
func (o *Options) toConfiguration() api.Configuration {
	return api.Configuration{
		InputDir:        o.InputDir,
		OutputDir:       o.OutputDir,
		Title:           o.Title,
		ModuleOptions:   o.ModuleOptions,
		Revision:        o.Revision,
		HighlightCode:   o.HighlightCode,
		HighlightTheme:  o.HighlightTheme,
		TabStyle:        api.TabStyle(o.TabStyle),
		ManpageURLsPath: o.ManpageURLsPath,
		Search: api.SearchConfig{
			Enable:          o.SearchEnable,
			MaxHeadingLevel: o.SearchMaxLevel,
		},
		OptionsTocDepth: o.OptionsTocDepth,
		NixdocInputs:    o.NixdocInputs,
		WorkerCount:     o.Workers,
		LanguageAliases: o.LanguageAliases,
		FallbackToPlain: o.FallbackToPlain,
	}
}

// newReactor assembles the syntax manager, option catalog, and
// manpage URL map from Options and builds a *reactor.Reactor ready to
// run Build or GenerateManpage.
func newReactor(o *Options) (*reactor.Reactor, error) {
	cfg := o.toConfiguration()

	manager := highlight.NewSyntaxManager(chromahl.New(), highlight.Config{
		DefaultTheme:    cfg.HighlightTheme,
		LanguageAliases: cfg.LanguageAliases,
		FallbackToPlain: cfg.FallbackToPlain,
	})

	var catalog options.Catalog
	if cfg.ModuleOptions != "" {
		data, err := os.ReadFile(cfg.ModuleOptions)
		if err != nil {
			return nil, fmt.Errorf("reading module-options catalog: %w", err)
		}
		catalog, err = options.LoadCatalog(data)
		if err != nil {
			return nil, err
		}
	}

	var urls api.ManpageURLMap
	if cfg.ManpageURLsPath != "" {
		data, err := os.ReadFile(cfg.ManpageURLsPath)
		if err != nil {
			return nil, fmt.Errorf("reading manpage-urls-path: %w", err)
		}
		if err := json.Unmarshal(data, &urls); err != nil {
			return nil, fmt.Errorf("parsing manpage-urls-path: %w", err)
		}
	}

	return reactor.New(cfg, &writers.FSWriter{Root: cfg.OutputDir}, manager, urls, catalog, nil)
}

// runBuild drives the default site build: the three phases of spec
// §5, writing every output under Options.OutputDir.
func runBuild(ctx context.Context, o *Options) error {
	r, err := newReactor(o)
	if err != nil {
		return err
	}
	return r.Build(ctx)
}
