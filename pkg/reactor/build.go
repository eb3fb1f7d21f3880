// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package reactor

import (
	"context"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	klog "k8s.io/klog/v2"
)

// Build runs the three sequential phases of spec §5 over the
// reactor's configured input directory: include discovery (Phase A),
// per-root rendering (Phase B), and indexing/options (Phase C, whose
// two tasks run concurrently with each other). Errors from every
// phase are aggregated into one *multierror.Error; a nil return means
// every phase's job queue finished with no errors recorded, though
// individual bad files may still have been skipped and logged per
// spec §7's local-failure policy.
func (r *Reactor) Build(ctx context.Context) error {
	var errs *multierror.Error

	files, err := discoverFiles(r.Config.InputDir)
	if err != nil {
		return err
	}

	// Phase A: include discovery.
	r.discoverQueue.Start(ctx)
	for _, f := range files {
		r.discoverQueue.AddTask(&discoverTask{path: f})
	}
	r.wg.Wait()
	r.discoverQueue.Stop()
	klog.Infof("phase A (discover): processed %d files", r.discoverQueue.GetProcessedTasksCount())
	errs = multierror.Append(errs, r.discoverQueue.GetErrorList())

	inclusionMap := r.buildInclusionMap()

	// Phase B: per-root rendering. A file is a root unless some other
	// file includes it; an included file is skipped even when its
	// include carries a custom_output, since that path receives a copy
	// of the host's page instead (see renderWork).
	r.renderQueue.Start(ctx)
	for _, f := range files {
		if _, absorbed := inclusionMap[normalizePath(f)]; absorbed {
			continue
		}
		rel, err := filepath.Rel(r.Config.InputDir, f)
		if err != nil {
			klog.Warningf("computing relative path for %s: %v", f, err)
			continue
		}
		r.renderQueue.AddTask(&renderTask{path: f, rel: filepath.ToSlash(rel)})
	}
	r.wg.Wait()
	r.renderQueue.Stop()
	klog.Infof("phase B (render): processed %d files", r.renderQueue.GetProcessedTasksCount())
	errs = multierror.Append(errs, r.renderQueue.GetErrorList())

	// Phase C: indexing + options, run concurrently with each other
	// inside the same queue (spec §5 Phase C).
	r.indexQueue.Start(ctx)
	if r.Config.ModuleOptions != "" {
		r.indexQueue.AddTask(&indexTask{kind: indexKindOptions})
	}
	if len(r.Config.NixdocInputs) > 0 {
		r.indexQueue.AddTask(&indexTask{kind: indexKindNixdoc})
	}
	r.wg.Wait()
	r.indexQueue.Stop()
	klog.Infof("phase C (index): processed %d tasks", r.indexQueue.GetProcessedTasksCount())
	errs = multierror.Append(errs, r.indexQueue.GetErrorList())

	if err := r.writeSearchIndex(); err != nil {
		errs = multierror.Append(errs, err)
	}

	return errs.ErrorOrNil()
}
