// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package reactor

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	klog "k8s.io/klog/v2"
)

// discoverTask is one Phase A unit of work: expand a single source
// file and record its direct IncludedFile edges (spec §5 Phase A).
type discoverTask struct {
	path string
}

// discoverFiles walks the input directory for *.md files (case-
// insensitive extension match only, spec §6), returning sorted paths
// rooted at inputDir as given, so enumeration order is deterministic
// (spec §5's ordering guarantee).
func discoverFiles(inputDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (r *Reactor) discoverWork(ctx context.Context, t *discoverTask) error {
	expanded, included, err := r.resolver.Expand(t.path)
	if err != nil {
		klog.Warningf("could not expand %s: %v", t.path, err)
		return nil
	}
	r.mu.Lock()
	r.expansions[t.path] = expansion{source: expanded, included: included}
	r.mu.Unlock()
	return nil
}

// buildInclusionMap aggregates every file's direct IncludedFile edges
// into the inclusion map (spec §4.4): included path -> canonical host,
// tie-broken to the lexicographically smallest host.
func (r *Reactor) buildInclusionMap() map[string]string {
	hosts := make([]string, 0, len(r.expansions))
	for p := range r.expansions {
		hosts = append(hosts, p)
	}
	sort.Strings(hosts)

	inclusionMap := make(map[string]string)
	for _, host := range hosts {
		for _, inc := range r.expansions[host].included {
			norm := normalizePath(inc.Path)
			if existing, ok := inclusionMap[norm]; !ok || host < existing {
				inclusionMap[norm] = host
			}
		}
	}
	return inclusionMap
}

func normalizePath(p string) string {
	return filepath.Clean(strings.ReplaceAll(p, "\\", "/"))
}
