// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package writers

import (
	"fmt"
	"os"
	"path/filepath"
)

// FSWriter is the Writer implementation writing blobs under Root on
// the local filesystem, grounded on the teacher's FSWriter (trimmed of
// the Hugo `_index.md`/frontmatter branch - no Hugo concept in this
// spec - but keeping its directory-creation idiom).
type FSWriter struct {
	Root string
}

// Write creates the destination directory as needed and writes
// content to Root/relPath.
func (f *FSWriter) Write(relPath string, content []byte) error {
	p := filepath.Join(f.Root, relPath)

	if err := os.MkdirAll(filepath.Dir(p), os.ModePerm); err != nil {
		return fmt.Errorf("creating output directory for %s: %w", p, err)
	}

	if err := os.WriteFile(p, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", p, err)
	}

	return nil
}
