// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package nixdoc harvests Nix attribute doc comments (SUPPLEMENT, see
// SPEC_FULL.md's nixdoc section): a line-oriented scanner over `.nix`
// source text that recognizes `/** ... */` doc comments immediately
// preceding an attribute binding, building the dotted attribute path
// through nested attribute sets by tracking brace depth rather than by
// parsing a real Nix grammar (no Go-ecosystem Nix parser is available
// in this corpus; grounded on `ndg-nixdoc/src/extractor.rs`, which
// does this the rigorous way via `rnix`).
package nixdoc

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"k8s.io/klog/v2"

	"github.com/feel-co/ndg/pkg/api"
)

const segPattern = `(?:[A-Za-z_][A-Za-z0-9_'-]*|"[^"]*")`

var attrBindingRe = regexp.MustCompile(`^(` + segPattern + `(?:\.` + segPattern + `)*)\s*=\s*(.*)$`)

type pendingComment struct {
	text  string
	isDoc bool
}

type pathFrame struct {
	segments   []string
	popAtDepth int
}

// ExtractSource scans one `.nix` source buffer and returns one
// api.NixDocEntry per attribute binding with an immediately preceding
// `/** ... */` doc comment, in source order (extractor.rs's
// `extract_entries`).
func ExtractSource(src []byte, filePath string) []api.NixDocEntry {
	var entries []api.NixDocEntry

	var pending *pendingComment
	var inBlockComment bool
	var blockCommentIsDoc bool
	var blockCommentBuf strings.Builder

	var pathStack []pathFrame
	depth := 0

	currentPath := func() []string {
		var out []string
		for _, f := range pathStack {
			out = append(out, f.segments...)
		}
		return out
	}

	lines := strings.Split(string(src), "\n")
	for i, line := range lines {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)

		if inBlockComment {
			blockCommentBuf.WriteString(line)
			blockCommentBuf.WriteByte('\n')
			if strings.Contains(line, "*/") {
				inBlockComment = false
				pending = &pendingComment{text: strings.TrimSpace(blockCommentBuf.String()), isDoc: blockCommentIsDoc}
			}
			continue
		}

		if strings.HasPrefix(trimmed, "/**") {
			if strings.HasSuffix(trimmed, "*/") && len(trimmed) >= 5 {
				pending = &pendingComment{text: trimmed, isDoc: true}
				continue
			}
			inBlockComment = true
			blockCommentIsDoc = true
			blockCommentBuf.Reset()
			blockCommentBuf.WriteString(line)
			blockCommentBuf.WriteByte('\n')
			continue
		}

		if strings.HasPrefix(trimmed, "/*") {
			if strings.HasSuffix(trimmed, "*/") {
				pending = &pendingComment{text: trimmed, isDoc: false}
				continue
			}
			inBlockComment = true
			blockCommentIsDoc = false
			blockCommentBuf.Reset()
			blockCommentBuf.WriteString(line)
			blockCommentBuf.WriteByte('\n')
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			pending = &pendingComment{isDoc: false}
			continue
		}

		if trimmed == "" {
			continue
		}

		if caps := attrBindingRe.FindStringSubmatch(trimmed); caps != nil {
			segments := splitAttrPath(caps[1])
			fullPath := append(append([]string{}, currentPath()...), segments...)

			if pending != nil && pending.isDoc {
				entries = append(entries, api.NixDocEntry{
					AttrPath: fullPath,
					Doc:      pending.text,
					Location: fmt.Sprintf("%s:%d", filePath, lineNum),
				})
			}
			pending = nil

			opens, closes := strings.Count(line, "{"), strings.Count(line, "}")
			if opens > closes {
				depth += opens - closes
				pathStack = append(pathStack, pathFrame{segments: segments, popAtDepth: depth})
			} else if opens != closes {
				depth += opens - closes
			}
			continue
		}

		pending = nil
		if idx := strings.Index(trimmed, "/**"); idx > 0 && strings.HasSuffix(trimmed, "*/") {
			pending = &pendingComment{text: trimmed[idx:], isDoc: true}
		}
		opens, closes := strings.Count(line, "{"), strings.Count(line, "}")
		if opens != closes {
			depth += opens - closes
			for len(pathStack) > 0 && pathStack[len(pathStack)-1].popAtDepth > depth {
				pathStack = pathStack[:len(pathStack)-1]
			}
		}
	}

	return entries
}

func splitAttrPath(path string) []string {
	parts := strings.Split(path, ".")
	for i, p := range parts {
		parts[i] = strings.Trim(p, `"`)
	}
	return parts
}

// ExtractFile reads and scans a single `.nix` file.
func ExtractFile(path string) ([]api.NixDocEntry, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading Nix file %s: %w", path, err)
	}
	return ExtractSource(src, path), nil
}

// ExtractDir walks dir recursively and scans every `.nix` file found.
// Unreadable files are skipped with a warning rather than aborting the
// whole walk, mirroring extract_from_dir's per-file tolerance; only a
// failure to walk dir itself is returned as an error.
func ExtractDir(dir string) ([]api.NixDocEntry, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			klog.Warningf("nixdoc: skipping unreadable directory entry %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".nix" {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking Nix directory %s: %w", dir, err)
	}

	sort.Strings(paths)

	var entries []api.NixDocEntry
	for _, p := range paths {
		fileEntries, ferr := ExtractFile(p)
		if ferr != nil {
			klog.Warningf("nixdoc: skipping %s: %v", p, ferr)
			continue
		}
		entries = append(entries, fileEntries...)
	}
	return entries, nil
}

// ExtractInput dispatches one configured nixdoc input to ExtractFile or
// ExtractDir depending on whether it names a directory (process_nixdoc's
// dispatch in ndg-html/src/nixdoc.rs).
func ExtractInput(path string) ([]api.NixDocEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat nixdoc input %s: %w", path, err)
	}
	if info.IsDir() {
		return ExtractDir(path)
	}
	return ExtractFile(path)
}

// ExtractAll processes every configured nixdoc input, tolerating
// per-input failures the way process_nixdoc does: a warning is logged
// for each failed input, and the call only fails if every input
// failed. Returns (nil, nil) both when inputs is empty and when no
// entries were found across the successful inputs (the latter also
// logs a warning).
func ExtractAll(inputs []string) ([]api.NixDocEntry, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	var entries []api.NixDocEntry
	errCount := 0
	for _, in := range inputs {
		fileEntries, err := ExtractInput(in)
		if err != nil {
			klog.Warningf("nixdoc: failed to process input %s: %v", in, err)
			errCount++
			continue
		}
		entries = append(entries, fileEntries...)
	}

	if errCount == len(inputs) {
		return nil, fmt.Errorf("all %d nixdoc input(s) failed to process", len(inputs))
	}
	if len(entries) == 0 {
		klog.Warningf("nixdoc: no doc-commented attribute bindings found in any configured input")
		return nil, nil
	}

	return entries, nil
}
