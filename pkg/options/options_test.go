// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"

	ndghighlight "github.com/feel-co/ndg/pkg/highlight"
	ndgrenderer "github.com/feel-co/ndg/pkg/markdown/renderer"
)

func testMarkdown() goldmark.Markdown {
	mgr := ndghighlight.NewSyntaxManager(noopBackend{}, ndghighlight.Config{FallbackToPlain: true})
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(gmparser.WithAutoHeadingID(), gmparser.WithAttribute()),
		goldmark.WithRenderer(ndgrenderer.New(mgr, "")),
	)
}

type noopBackend struct{}

func (noopBackend) Name() string                              { return "noop" }
func (noopBackend) SupportedLanguages() []string               { return nil }
func (noopBackend) AvailableThemes() []string                  { return nil }
func (noopBackend) Supports(string) bool                       { return false }
func (noopBackend) HasTheme(string) bool                       { return true }
func (noopBackend) Highlight(_, _, _ string) (string, error)    { return "", nil }
func (noopBackend) LanguageFromExtension(string) (string, bool) { return "", false }

const catalogJSON = `{
  "services.nginx.enable": {
    "type": "boolean",
    "description": "Whether to enable nginx.",
    "default": {"_type": "literalExpression", "text": "false"},
    "declarations": ["nixos/modules/services/web/nginx.nix"],
    "readOnly": false,
    "internal": false,
    "visible": true,
    "loc": ["services", "nginx", "enable"]
  },
  "services.nginx.package": {
    "type": "package",
    "description": "The nginx package to use.",
    "declarations": ["/etc/nixos/configuration.nix"],
    "visible": false
  }
}`

func TestLoadCatalogAndSort(t *testing.T) {
	c, err := LoadCatalog([]byte(catalogJSON))
	require.NoError(t, err)
	// Neither name is prefixed with the literal "enable"/"package" (both
	// are dotted paths like "services.nginx.enable"), so both fall into
	// the "other" tier and sort lexicographically.
	names := c.SortedNames()
	assert.Equal(t, []string{"services.nginx.enable", "services.nginx.package"}, names)
}

func TestPrioritySortsBareEnableAndPackageFirst(t *testing.T) {
	c := Catalog{
		"services.nginx.enable": {},
		"enable":                {},
		"package":               {},
		"zzz":                   {},
	}
	assert.Equal(t, []string{"enable", "package", "services.nginx.enable", "zzz"}, c.SortedNames())
}

func TestProcessPopulatesFields(t *testing.T) {
	c, err := LoadCatalog([]byte(catalogJSON))
	require.NoError(t, err)
	desc := NewDescriptionRenderer(testMarkdown(), c.ValidOptionNames(), nil)
	opts, err := Process(c, "local", desc)
	require.NoError(t, err)
	require.Len(t, opts, 2)

	byName := map[string]int{}
	for i, o := range opts {
		byName[o.Name] = i
	}
	enable := opts[byName["services.nginx.enable"]]
	assert.Equal(t, "boolean", enable.Type)
	assert.Equal(t, "`false`", enable.Default)
	assert.Contains(t, enable.DeclaredInURL, "github.com/NixOS/nixpkgs/blob/master/")
	assert.False(t, enable.Internal)

	pkg := opts[byName["services.nginx.package"]]
	assert.True(t, pkg.Internal)
	assert.Equal(t, "file:///etc/nixos/configuration.nix", pkg.DeclaredInURL)
}

func TestBuildTOCFlatAndGrouped(t *testing.T) {
	names := []string{"a.b", "a.c", "z.single"}
	toc := BuildTOC(names, 1)
	require.Len(t, toc, 2)
	assert.Equal(t, "a", toc[0].Category)
	assert.ElementsMatch(t, []string{"a.b", "a.c"}, toc[0].Options)
	assert.Equal(t, "z.single", toc[1].Option)
}

func TestSlugReplacesDots(t *testing.T) {
	assert.Equal(t, "services-nginx-enable", Slug("services.nginx.enable"))
}
