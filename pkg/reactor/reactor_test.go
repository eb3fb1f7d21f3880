// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package reactor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feel-co/ndg/pkg/api"
	"github.com/feel-co/ndg/pkg/highlight"
	"github.com/feel-co/ndg/pkg/highlight/chromahl"
	"github.com/feel-co/ndg/pkg/options"
	"github.com/feel-co/ndg/pkg/writers"
)

func newTestReactor(t *testing.T, cfg api.Configuration, outDir string) *Reactor {
	t.Helper()
	manager := highlight.NewSyntaxManager(chromahl.New(), highlight.Config{
		DefaultTheme:    cfg.HighlightTheme,
		LanguageAliases: cfg.LanguageAliases,
		FallbackToPlain: cfg.FallbackToPlain,
	})

	var catalog options.Catalog
	if cfg.ModuleOptions != "" {
		data, err := os.ReadFile(cfg.ModuleOptions)
		require.NoError(t, err)
		catalog, err = options.LoadCatalog(data)
		require.NoError(t, err)
	}

	r, err := New(cfg, &writers.FSWriter{Root: outDir}, manager, nil, catalog, nil)
	require.NoError(t, err)
	return r
}

func TestBuildRendersRootFilesAndSkipsIncludedOnes(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(inDir, "index.md"), []byte(
		"# Welcome\n\n```{=include=}\nsnippet.md\n```\n\nSome text.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "snippet.md"), []byte(
		"Snippet body.\n"), 0o644))

	cfg := api.Configuration{
		InputDir:   inDir,
		OutputDir:  outDir,
		Title:      "Test Docs",
		TabStyle:   api.TabStyleNone,
		WorkerCount: 2,
		Search: api.SearchConfig{
			Enable:          true,
			MaxHeadingLevel: 3,
		},
	}
	r := newTestReactor(t, cfg, outDir)

	err := r.Build(context.Background())
	require.NoError(t, err)

	indexHTML, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(indexHTML), "Welcome")
	assert.Contains(t, string(indexHTML), "Snippet body")

	_, err = os.Stat(filepath.Join(outDir, "snippet.html"))
	assert.True(t, os.IsNotExist(err), "included file must not be rendered as its own root page")

	searchData, err := os.ReadFile(filepath.Join(outDir, "assets", "search-data.json"))
	require.NoError(t, err)
	var docs []api.SearchDocument
	require.NoError(t, json.Unmarshal(searchData, &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "index.html", docs[0].Path)
}

func TestBuildHonorsCustomOutputOverride(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(inDir, "index.md"), []byte(
		"# Host\n\n```{=include=}\nsnippet.md html:into-file=alt/snippet.html\n```\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "snippet.md"), []byte(
		"Snippet body.\n"), 0o644))

	cfg := api.Configuration{
		InputDir:    inDir,
		OutputDir:   outDir,
		Title:       "Test Docs",
		TabStyle:    api.TabStyleNone,
		WorkerCount: 1,
	}
	r := newTestReactor(t, cfg, outDir)

	require.NoError(t, r.Build(context.Background()))

	hostHTML, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	require.NoError(t, err)

	altHTML, err := os.ReadFile(filepath.Join(outDir, "alt", "snippet.html"))
	require.NoError(t, err)
	assert.Equal(t, string(hostHTML), string(altHTML))
}

func TestBuildWritesOptionsPage(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(inDir, "index.md"), []byte("# Home\n"), 0o644))

	catalogPath := filepath.Join(inDir, "options.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`{
		"services.foo.enable": {
			"type": "boolean",
			"description": "Whether to enable foo.",
			"default": false,
			"readOnly": false
		}
	}`), 0o644))

	cfg := api.Configuration{
		InputDir:        inDir,
		OutputDir:       outDir,
		Title:           "Test Docs",
		TabStyle:        api.TabStyleNone,
		ModuleOptions:   catalogPath,
		OptionsTocDepth: 2,
		WorkerCount:     1,
	}
	r := newTestReactor(t, cfg, outDir)

	require.NoError(t, r.Build(context.Background()))

	optionsHTML, err := os.ReadFile(filepath.Join(outDir, "options.html"))
	require.NoError(t, err)
	assert.Contains(t, string(optionsHTML), "services.foo.enable")
	assert.Contains(t, string(optionsHTML), "Whether to enable foo")
}

func TestPageDepthAndAssetPrefix(t *testing.T) {
	assert.Equal(t, "", assetPrefix("index.md"))
	assert.Equal(t, "../", assetPrefix("guide/intro.md"))
	assert.Equal(t, "../../", assetPrefix("guide/sub/deep.md"))
}
