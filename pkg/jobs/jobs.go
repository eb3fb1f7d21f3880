// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package jobs provides a bounded worker-pool primitive used by
// pkg/reactor's three phases (spec §5's worker model). Generalized
// from the teacher's pkg/reactor/jobs package to a generic task type
// instead of interface{}, since every call site here processes a
// single concrete task type (a file path, a rendered document, an
// option name) and a typed queue catches a wrong-task-type bug at
// compile time instead of a type assertion panic at runtime.
package jobs

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"k8s.io/klog/v2"
)

const (
	maxWorkerSize = 100
	minWorkerSize = 1
	bufferSize    = 200
)

// WorkerFunc processes one task of type T.
type WorkerFunc[T any] func(ctx context.Context, task T) error

// JobQueue enqueues tasks of type T for parallel processing by a fixed
// pool of workers.
type JobQueue[T any] struct {
	id       string
	size     int
	workFunc WorkerFunc[T]
	failFast bool

	wg    *sync.WaitGroup
	tasks chan T

	errList *multierror.Error

	initMux, stopMux sync.Once
	mux              sync.Mutex
	stopped          bool
	tc               uint32
}

// QueueController can Start/Stop a queue and inspect its status.
type QueueController interface {
	Start(ctx context.Context)
	Stop()
	GetErrorList() *multierror.Error
	GetProcessedTasksCount() int
	GetWaitingTasksCount() int
}

// NewJobQueue creates an empty task queue with size workers running
// workFunc. wg is shared across every queue in a pipeline phase so the
// caller can wait on the whole phase with a single WaitGroup.
func NewJobQueue[T any](id string, size int, workFunc WorkerFunc[T], failFast bool, wg *sync.WaitGroup) (*JobQueue[T], error) {
	if size < minWorkerSize || size > maxWorkerSize {
		return nil, fmt.Errorf("job queue %s init fails: invalid workers size %d, valid size interval is [%d,%d]", id, size, minWorkerSize, maxWorkerSize)
	}
	if workFunc == nil {
		return nil, fmt.Errorf("job queue %s init fails: worker func is nil", id)
	}
	if wg == nil {
		return nil, fmt.Errorf("job queue %s init fails: wait group is nil", id)
	}
	return &JobQueue[T]{
		id:       id,
		size:     size,
		workFunc: workFunc,
		failFast: failFast,
		wg:       wg,
		tasks:    make(chan T, bufferSize),
	}, nil
}

// Start launches the worker goroutines. ctx cancellation stops them.
func (jq *JobQueue[T]) Start(ctx context.Context) {
	jq.initMux.Do(func() {
		klog.V(6).Infof("starting %s queue\n", jq.id)
		for i := 0; i < jq.size; i++ {
			go jq.work(ctx)
		}
	})
}

// Stop closes the task channel, causing worker goroutines to exit once
// drained. Safe to call multiple times and from multiple goroutines.
func (jq *JobQueue[T]) Stop() {
	jq.stopMux.Do(func() {
		jq.mux.Lock()
		defer jq.mux.Unlock()
		klog.V(6).Infof("stopping %s queue\n", jq.id)
		jq.stopped = true
		close(jq.tasks)
	})
}

// AddTask enqueues task and increments the shared WaitGroup. Returns
// false if the queue has stopped (or failFast tripped) and the task
// was skipped.
func (jq *JobQueue[T]) AddTask(task T) bool {
	defer func() {
		if recover() != nil {
			jq.wg.Done()
			klog.V(6).Infof("recover adding task %v in closed %s queue\n", task, jq.id)
		}
	}()
	if jq.shouldProcess() {
		jq.wg.Add(1)
		jq.tasks <- task
		return true
	}
	klog.V(6).Infof("skipping task %v in %s queue\n", task, jq.id)
	return false
}

// GetErrorList returns the errors accumulated during task processing.
func (jq *JobQueue[T]) GetErrorList() *multierror.Error {
	return jq.errList
}

// GetProcessedTasksCount returns the number of tasks processed so far.
func (jq *JobQueue[T]) GetProcessedTasksCount() int {
	return int(jq.tc)
}

// GetWaitingTasksCount returns the number of tasks currently queued.
func (jq *JobQueue[T]) GetWaitingTasksCount() int {
	return len(jq.tasks)
}

func (jq *JobQueue[T]) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			klog.V(6).Infof("context is done for %s queue\n", jq.id)
			jq.Stop()
		case t, ok := <-jq.tasks:
			if !ok {
				klog.V(6).Infof("job queue %s is stopped\n", jq.id)
				return
			}
			jq.runWorkFunc(ctx, t)
		}
	}
}

func (jq *JobQueue[T]) runWorkFunc(ctx context.Context, t T) {
	defer jq.wg.Done()
	defer atomic.AddUint32(&jq.tc, 1)
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic in %s for task %v recovered: %v", jq.id, t, r)
			klog.Warning(err.Error(), "\n", string(debug.Stack()))
			jq.appendError(err)
		}
	}()
	if jq.shouldProcess() {
		if err := jq.workFunc(ctx, t); err != nil {
			jq.appendError(err)
		}
	}
}

func (jq *JobQueue[T]) appendError(err error) {
	jq.mux.Lock()
	defer jq.mux.Unlock()

	jq.errList = multierror.Append(jq.errList, err)
	if jq.failFast {
		go jq.Stop()
	}
}

func (jq *JobQueue[T]) shouldProcess() bool {
	jq.mux.Lock()
	defer jq.mux.Unlock()

	return !jq.stopped && !(jq.failFast && jq.errList != nil)
}
