// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package include implements the `{=include=}` directive: transitive
// splicing of one Markdown source file into another, base-directory
// resolution, path-safety enforcement, and cycle detection. See spec
// §4.4.
package include

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/feel-co/ndg/pkg/api"
	klog "k8s.io/klog/v2"
)

// FileReader reads a source file's raw bytes, abstracting over the
// filesystem so the resolver can be exercised with an in-memory fake.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

const includeOpenPrefix = "```{=include=}"
const fenceClosePrefix = "```"

var includeEntryRe = regexp.MustCompile(`^(\S+)\s+html:into-file=(\S+)\s*$`)

// Resolver expands include directives using a FileReader.
type Resolver struct {
	Reader FileReader
}

// NewResolver creates a Resolver reading from r.
func NewResolver(r FileReader) *Resolver {
	return &Resolver{Reader: r}
}

// Expand reads the file at filePath and recursively splices any
// `{=include=}` blocks it contains, returning the expanded source and
// the list of direct child IncludedFile entries (in source order).
// Indirect descendants are expanded inline but are not present in the
// returned list - only direct children are, per spec §4.4.
func (r *Resolver) Expand(filePath string) ([]byte, []api.IncludedFile, error) {
	visited := map[string]bool{normalize(filePath): true}
	return r.expand(filePath, visited)
}

func (r *Resolver) expand(filePath string, visited map[string]bool) ([]byte, []api.IncludedFile, error) {
	content, err := r.Reader.ReadFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", filePath, err)
	}
	baseDir := path.Dir(filePath)

	var out strings.Builder
	var direct []api.IncludedFile

	lines := strings.Split(string(content), "\n")
	i := 0
	for i < len(lines) {
		line := lines[i]
		if strings.HasPrefix(strings.TrimSpace(line), includeOpenPrefix) {
			j := i + 1
			var entries []string
			for j < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[j]), fenceClosePrefix) {
				entries = append(entries, lines[j])
				j++
			}
			if j >= len(lines) {
				// unterminated block: treat the whole thing as literal text (spec §9 state machine)
				for k := i; k < len(lines); k++ {
					out.WriteString(lines[k])
					out.WriteByte('\n')
				}
				break
			}
			for _, entry := range entries {
				trimmed := strings.TrimSpace(entry)
				if trimmed == "" {
					continue
				}
				entryPath, customOutput := parseEntry(trimmed)
				if !isSafePath(entryPath) {
					klog.Warningf("skipping unsafe include path %q in %s", entryPath, filePath)
					continue
				}
				resolved := path.Join(baseDir, entryPath)
				direct = append(direct, api.IncludedFile{Path: resolved, CustomOutput: customOutput})

				norm := normalize(resolved)
				if visited[norm] {
					out.WriteString(fmt.Sprintf("<!-- ndg: could not include file: %s -->\n", resolved))
					continue
				}
				childVisited := cloneSet(visited)
				childVisited[norm] = true
				expanded, _, err := r.expand(resolved, childVisited)
				if err != nil {
					klog.Warningf("could not include file %s: %v", resolved, err)
					out.WriteString(fmt.Sprintf("<!-- ndg: could not include file: %s -->\n", resolved))
					continue
				}
				out.Write(expanded)
				if len(expanded) > 0 && expanded[len(expanded)-1] != '\n' {
					out.WriteByte('\n')
				}
			}
			i = j + 1
			continue
		}
		out.WriteString(line)
		if i < len(lines)-1 {
			out.WriteByte('\n')
		}
		i++
	}
	return []byte(out.String()), direct, nil
}

// parseEntry splits one include-block line into its target path and,
// if present, the `html:into-file=` custom output override.
func parseEntry(entry string) (targetPath, customOutput string) {
	if m := includeEntryRe.FindStringSubmatch(entry); m != nil {
		return m[1], m[2]
	}
	return entry, ""
}

// isSafePath enforces spec §4.4's path-safety rules: not absolute, no
// ".." segments, no backslashes.
func isSafePath(p string) bool {
	if p == "" {
		return false
	}
	if strings.HasPrefix(p, "/") {
		return false
	}
	if strings.Contains(p, "\\") {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return false
		}
	}
	return true
}

func normalize(p string) string {
	return path.Clean(p)
}

func cloneSet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	return out
}
