// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package reactor

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/yuin/goldmark"

	"github.com/feel-co/ndg/pkg/api"
	"github.com/feel-co/ndg/pkg/highlight"
	"github.com/feel-co/ndg/pkg/jobs"
	"github.com/feel-co/ndg/pkg/markdown/include"
	"github.com/feel-co/ndg/pkg/options"
	"github.com/feel-co/ndg/pkg/writers"
)

const (
	minWorkers = 1
	maxWorkers = 100
)

// expansion is the per-file result of Phase A (include discovery):
// the fully expanded source plus the direct IncludedFile edges used
// to build the inclusion map (spec §4.4/§5).
type expansion struct {
	source   []byte
	included []api.IncludedFile
}

// fsReader reads source files directly off disk for the include
// resolver (spec §4.4's FileReader collaborator).
type fsReader struct{}

func (fsReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Reactor orchestrates the three phases of spec §5 over a shared,
// read-only configuration, syntax manager, and manpage URL map.
// Grounded on the teacher's Reactor (pkg/reactor/reactor.go): one
// struct holding the job queues for each phase plus a single shared
// WaitGroup used to synchronize a phase's completion before the next
// one starts.
type Reactor struct {
	Config  api.Configuration
	Writer  writers.Writer
	Manager *highlight.SyntaxManager
	URLs    api.ManpageURLMap
	Catalog options.Catalog
	Page    PageRenderer

	md           goldmark.Markdown
	validOptions map[string]struct{}
	resolver     *include.Resolver

	mu         sync.Mutex
	expansions map[string]expansion
	searchDocs []api.SearchDocument
	optionDocs []api.SearchDocument

	wg *sync.WaitGroup

	discoverQueue *jobs.JobQueue[*discoverTask]
	renderQueue   *jobs.JobQueue[*renderTask]
	indexQueue    *jobs.JobQueue[*indexTask]
}

// New builds a Reactor ready to run Build. catalog may be nil when no
// module-options catalog was configured; urls may be nil when no
// manpage-urls mapping was configured. page may be nil, in which case
// a minimal built-in PageRenderer is used (spec §6's render(template_name,
// context) collaborator is out of core scope; see page.go).
func New(cfg api.Configuration, writer writers.Writer, manager *highlight.SyntaxManager, urls api.ManpageURLMap, catalog options.Catalog, page PageRenderer) (*Reactor, error) {
	validOptions := map[string]struct{}{}
	if catalog != nil {
		validOptions = catalog.ValidOptionNames()
	}
	if page == nil {
		page = defaultPageRenderer{}
	}

	size := cfg.WorkerCount
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if size < minWorkers {
		size = minWorkers
	}
	if size > maxWorkers {
		size = maxWorkers
	}

	mdManager := manager
	if !cfg.HighlightCode {
		mdManager = nil
	}

	r := &Reactor{
		Config:       cfg,
		Writer:       writer,
		Manager:      manager,
		URLs:         urls,
		Catalog:      catalog,
		Page:         page,
		md:           newMarkdown(mdManager, cfg.HighlightTheme),
		validOptions: validOptions,
		resolver:     include.NewResolver(fsReader{}),
		expansions:   map[string]expansion{},
		wg:           &sync.WaitGroup{},
	}

	var err error
	r.discoverQueue, err = jobs.NewJobQueue("Discover", size, r.discoverWork, false, r.wg)
	if err != nil {
		return nil, fmt.Errorf("creating discover queue: %w", err)
	}
	r.renderQueue, err = jobs.NewJobQueue("Render", size, r.renderWork, false, r.wg)
	if err != nil {
		return nil, fmt.Errorf("creating render queue: %w", err)
	}
	r.indexQueue, err = jobs.NewJobQueue("Index", size, r.indexWork, false, r.wg)
	if err != nil {
		return nil, fmt.Errorf("creating index queue: %w", err)
	}
	return r, nil
}
