// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pipeline is a minimal stage/job engine. Stages run in declared
// order and a failing stage halts every later stage. Jobs inside one stage
// run concurrently and share no mutable state; a failing job does not tear
// down its siblings, it only fails the stage once all jobs have returned.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"scorecard-toolkit/pkg/logging"
)

// Job is a named unit of work within a stage.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Stage is a named phase of the pipeline.
type Stage struct {
	Name string
	// Condition, when non-nil, is evaluated before the stage runs. A false
	// result skips the stage without failing the pipeline.
	Condition func() bool
	Jobs      []Job
}

// Pipeline runs stages sequentially in the order they were added.
type Pipeline struct {
	Name   string
	stages []Stage
}

// New creates an empty pipeline.
func New(name string) *Pipeline {
	return &Pipeline{Name: name}
}

// AddStage appends a stage. Stages execute in insertion order.
func (p *Pipeline) AddStage(s Stage) *Pipeline {
	p.stages = append(p.stages, s)
	return p
}

// Run executes the pipeline. It returns the first stage error; later stages
// are not started once a stage has failed.
func (p *Pipeline) Run(ctx context.Context) error {
	logging.Info("Pipeline %q: %d stage(s)", p.Name, len(p.stages))
	for _, stage := range p.stages {
		if stage.Condition != nil && !stage.Condition() {
			logging.Info("Stage %q skipped: trigger condition not met", stage.Name)
			continue
		}
		if err := p.runStage(ctx, stage); err != nil {
			return fmt.Errorf("stage %q failed: %w", stage.Name, err)
		}
	}
	logging.Info("Pipeline %q completed", p.Name)
	return nil
}

func (p *Pipeline) runStage(ctx context.Context, stage Stage) error {
	logging.Info("Stage %q: starting %d job(s)", stage.Name, len(stage.Jobs))
	start := time.Now()

	// A plain Group, not WithContext: a failing job must not cancel siblings
	// that are already running against independent compute.
	var g errgroup.Group
	for _, job := range stage.Jobs {
		job := job
		g.Go(func() error {
			jobStart := time.Now()
			logging.Info("Job %q started", job.Name)
			if err := job.Run(ctx); err != nil {
				logging.Error("Job %q failed after %s: %v", job.Name, time.Since(jobStart).Round(time.Second), err)
				return fmt.Errorf("job %q: %w", job.Name, err)
			}
			logging.Info("Job %q finished in %s", job.Name, time.Since(jobStart).Round(time.Second))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logging.Info("Stage %q finished in %s", stage.Name, time.Since(start).Round(time.Second))
	return nil
}
