// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package include

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader map[string]string

func (f fakeReader) ReadFile(path string) ([]byte, error) {
	c, ok := f[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return []byte(c), nil
}

func TestExpandIncludeCycle(t *testing.T) {
	files := fakeReader{
		"a.md": "# A\n```{=include=}\nb.md\n```\n",
		"b.md": "# B\n```{=include=}\na.md\n```\n",
	}
	r := NewResolver(files)

	expanded, direct, err := r.Expand("a.md")
	require.NoError(t, err)
	assert.Contains(t, string(expanded), "# A")
	assert.Contains(t, string(expanded), "# B")
	assert.Contains(t, string(expanded), "<!-- ndg: could not include file: a.md -->")
	require.Len(t, direct, 1)
	assert.Equal(t, "b.md", direct[0].Path)
}

func TestPathSafetySkipsTraversal(t *testing.T) {
	files := fakeReader{
		"a.md": "# A\n```{=include=}\n../etc/passwd\n/etc/passwd\na\\b\nb.md\n```\n",
		"b.md": "# B\n",
	}
	r := NewResolver(files)
	_, direct, err := r.Expand("a.md")
	require.NoError(t, err)
	require.Len(t, direct, 1)
	assert.Equal(t, "b.md", direct[0].Path)
}

func TestMissingIncludeProducesComment(t *testing.T) {
	files := fakeReader{
		"a.md": "# A\n```{=include=}\nmissing.md\n```\n",
	}
	r := NewResolver(files)
	expanded, _, err := r.Expand("a.md")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(expanded), "could not include file: missing.md"))
}

func TestCustomOutputParsed(t *testing.T) {
	files := fakeReader{
		"a.md": "# A\n```{=include=}\nb.md html:into-file=out/b.html\n```\n",
		"b.md": "# B\n",
	}
	r := NewResolver(files)
	_, direct, err := r.Expand("a.md")
	require.NoError(t, err)
	require.Len(t, direct, 1)
	assert.Equal(t, "b.md", direct[0].Path)
	assert.Equal(t, "out/b.html", direct[0].CustomOutput)
}

func TestAggregatorTieBreaksLexicographicallySmallest(t *testing.T) {
	agg := NewAggregator()
	agg.Add("z.md", []string{"shared.md"})
	agg.Add("a.md", []string{"shared.md"})
	m := agg.Build()
	host, ok := m.Host("shared.md")
	require.True(t, ok)
	assert.Equal(t, "a.md", host)
}

func TestSortedRootsExcludesIncluded(t *testing.T) {
	agg := NewAggregator()
	agg.Add("a.md", []string{"b.md"})
	m := agg.Build()
	roots := SortedRoots([]string{"a.md", "b.md", "c.md"}, m)
	assert.Equal(t, []string{"a.md", "c.md"}, roots)
}
