// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package nixdoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feel-co/ndg/pkg/api"
)

func TestExtractTopLevelDocComment(t *testing.T) {
	src := `{
/**
  A top-level function.

  # Arguments

  - [x] The input value.
*/
identity = x: x;
}`
	entries := ExtractSource([]byte(src), "test.nix")
	assert.Len(t, entries, 1)
	assert.Equal(t, []string{"identity"}, entries[0].AttrPath)
	assert.True(t, strings.Contains(entries[0].Doc, "A top-level function"))
}

func TestExtractSkipsPlainLineComment(t *testing.T) {
	src := `{
# Not a doc comment
identity = x: x;
}`
	entries := ExtractSource([]byte(src), "test.nix")
	assert.Empty(t, entries, "plain # comments should not be extracted")
}

func TestExtractSkipsPlainBlockComment(t *testing.T) {
	src := `{
/* Not a doc comment either */
identity = x: x;
}`
	entries := ExtractSource([]byte(src), "test.nix")
	assert.Empty(t, entries, "/* */ comments without ** should be skipped")
}

func TestExtractNestedAttrset(t *testing.T) {
	src := `{
lib = {
  /**
    Concatenates two strings.
  */
  concatStrings = a: b: a + b;
};
}`
	entries := ExtractSource([]byte(src), "test.nix")
	assert.Len(t, entries, 1)
	assert.Equal(t, []string{"lib", "concatStrings"}, entries[0].AttrPath)
}

func TestExtractMultipleBindings(t *testing.T) {
	src := `{
/** First function. */
first = x: x;

/** Second function. */
second = x: x + 1;

notDocumented = x: x;
}`
	entries := ExtractSource([]byte(src), "test.nix")
	require := assert.New(t)
	require.Len(entries, 2)
	require.Equal([]string{"first"}, entries[0].AttrPath)
	require.Equal([]string{"second"}, entries[1].AttrPath)
}

func TestLineNumberIsPopulated(t *testing.T) {
	src := "{ /** Doc. */\nfoo = 1;\n}"
	entries := ExtractSource([]byte(src), "test.nix")
	assert.Len(t, entries, 1)
	assert.Equal(t, "test.nix:2", entries[0].Location)
}

func TestExtractDeeplyNestedPath(t *testing.T) {
	src := `{
lib = {
  strings = {
    /**
      Joins a list of strings.
    */
    concat = xs: xs;
  };
};
}`
	entries := ExtractSource([]byte(src), "test.nix")
	assert.Len(t, entries, 1)
	assert.Equal(t, []string{"lib", "strings", "concat"}, entries[0].AttrPath)
}

func TestStripDocDelimiters(t *testing.T) {
	raw := "/**\n  A top-level function.\n\n  Second paragraph.\n*/"
	stripped := stripDocDelimiters(raw)
	assert.Equal(t, "A top-level function.\n\nSecond paragraph.", stripped)
}

func TestGenerateLibraryHTMLRendersEntries(t *testing.T) {
	entries := []api.NixDocEntry{
		{AttrPath: []string{"lib", "concat"}, Doc: "/** Concatenates two lists. */", Location: "lib/default.nix:10"},
	}
	identity := func(markdown string) (string, error) { return "<p>" + markdown + "</p>", nil }

	out, err := GenerateLibraryHTML(entries, "24.05", identity)
	assert.NoError(t, err)
	assert.Contains(t, out, `id="lib-concat"`)
	assert.Contains(t, out, "Concatenates two lists.")
	assert.Contains(t, out, "https://github.com/NixOS/nixpkgs/blob/24.05/lib/default.nix#L10")

	toc := GenerateLibraryTOC(entries)
	assert.Contains(t, toc, `href="#lib-concat"`)
	assert.Contains(t, toc, "lib.concat")
}

func TestFormatLibLocation(t *testing.T) {
	display, url := formatLibLocation("lib/strings.nix", 42, "24.05")
	assert.Equal(t, "<nixpkgs/lib/strings.nix>", display)
	assert.Equal(t, "https://github.com/NixOS/nixpkgs/blob/24.05/lib/strings.nix#L42", url)

	display, url = formatLibLocation("/abs/path/lib.nix", 0, "local")
	assert.Equal(t, "/abs/path/lib.nix", display)
	assert.Equal(t, "", url)
}
