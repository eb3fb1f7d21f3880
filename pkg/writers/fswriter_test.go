// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package writers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	testCases := []struct {
		name    string
		relPath string
		content []byte
	}{
		{name: "top-level file", relPath: "test.html", content: []byte("<h1>Test</h1>")},
		{name: "nested file", relPath: "a/b/test.html", content: []byte("<h1>Test</h1>")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			fs := &FSWriter{Root: root}

			err := fs.Write(tc.relPath, tc.content)
			require.NoError(t, err)

			got, err := os.ReadFile(filepath.Join(root, tc.relPath))
			require.NoError(t, err)
			assert.Equal(t, tc.content, got)
		})
	}
}
