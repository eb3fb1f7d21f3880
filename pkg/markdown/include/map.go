// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package include

import (
	"sort"

	"github.com/feel-co/ndg/pkg/api"
)

// Map is the inclusion map of spec §3: included-file path -> its
// canonical host (root) file path.
type Map map[string]string

// IsIncluded reports whether p is absorbed into some host and is
// therefore not a standalone root.
func (m Map) IsIncluded(p string) bool {
	_, ok := m[normalize(p)]
	return ok
}

// Host returns the canonical host of an included file, if any.
func (m Map) Host(p string) (string, bool) {
	h, ok := m[normalize(p)]
	return h, ok
}

// DiscoverEdges walks the full transitive closure of includes reachable
// from root (using r to read files) and returns every descendant path
// encountered, deduplicated, in first-discovery order. It never
// recurses into a cycle (re-entry is skipped, mirroring Expand's
// per-root visited set).
func (r *Resolver) DiscoverEdges(root string) []string {
	visited := map[string]bool{normalize(root): true}
	var order []string
	seen := map[string]bool{}
	r.discover(root, visited, &order, seen)
	return order
}

func (r *Resolver) discover(filePath string, visited map[string]bool, order *[]string, seen map[string]bool) {
	_, direct, err := r.expand(filePath, visited)
	if err != nil {
		return
	}
	for _, inc := range direct {
		if !seen[inc.Path] {
			seen[inc.Path] = true
			*order = append(*order, inc.Path)
		}
		norm := normalize(inc.Path)
		if visited[norm] {
			continue
		}
		childVisited := cloneSet(visited)
		childVisited[norm] = true
		r.discover(inc.Path, childVisited, order, seen)
	}
}

// Aggregator merges per-root discovered edges into a single
// deterministic Map, implementing spec §4.4 / §5 Phase A: the
// lexicographically smallest host wins ties, and aggregation is the
// only synchronization point across the otherwise data-parallel file
// expansions.
type Aggregator struct {
	winners map[string]string
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{winners: map[string]string{}}
}

// Add records that host includes (directly or transitively) each path
// in included.
func (a *Aggregator) Add(host string, included []string) {
	for _, inc := range included {
		norm := normalize(inc)
		if current, ok := a.winners[norm]; !ok || host < current {
			a.winners[norm] = host
		}
	}
}

// Build returns a copy of the final inclusion Map. The result is
// deterministic because each included file keeps its lexicographically
// smallest host; the Map itself is unordered.
func (a *Aggregator) Build() Map {
	out := make(Map, len(a.winners))
	for k, v := range a.winners {
		out[k] = v
	}
	return out
}

// SortedRoots returns the subset of candidates not present in m,
// sorted - i.e. the root files that still get their own standalone
// output/search entry.
func SortedRoots(candidates []string, m Map) []string {
	var roots []string
	for _, c := range candidates {
		if !m.IsIncluded(c) {
			roots = append(roots, c)
		}
	}
	sort.Strings(roots)
	return roots
}
