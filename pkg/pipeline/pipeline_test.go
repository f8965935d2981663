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

package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestStagesRunInOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string
	record := func(name string) Job {
		return Job{Name: name, Run: func(ctx context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}}
	}

	p := New("test").
		AddStage(Stage{Name: "build", Jobs: []Job{record("build")}}).
		AddStage(Stage{Name: "test", Jobs: []Job{record("bench")}})

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(order) != 2 || order[0] != "build" || order[1] != "bench" {
		t.Errorf("execution order = %v, want [build bench]", order)
	}
}

func TestFailingStageHaltsPipeline(t *testing.T) {
	var laterRan atomic.Bool
	p := New("test").
		AddStage(Stage{Name: "build", Jobs: []Job{{
			Name: "build",
			Run:  func(ctx context.Context) error { return errors.New("boom") },
		}}}).
		AddStage(Stage{Name: "test", Jobs: []Job{{
			Name: "bench",
			Run: func(ctx context.Context) error {
				laterRan.Store(true)
				return nil
			},
		}}})

	if err := p.Run(context.Background()); err == nil {
		t.Fatal("Run() = nil, want error")
	}
	if laterRan.Load() {
		t.Error("a job in a later stage ran after an earlier stage failed")
	}
}

func TestSiblingJobsAllRunDespiteFailure(t *testing.T) {
	var ran atomic.Int32
	jobs := []Job{
		{Name: "a", Run: func(ctx context.Context) error { ran.Add(1); return errors.New("a failed") }},
		{Name: "b", Run: func(ctx context.Context) error { ran.Add(1); return nil }},
		{Name: "c", Run: func(ctx context.Context) error { ran.Add(1); return nil }},
		{Name: "d", Run: func(ctx context.Context) error { ran.Add(1); return nil }},
	}

	p := New("test").AddStage(Stage{Name: "bench", Jobs: jobs})
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("Run() = nil, want error from failing job")
	}
	if got := ran.Load(); got != 4 {
		t.Errorf("jobs run = %d, want 4 (sibling failure must not prevent scheduled siblings)", got)
	}
}

func TestStageConditionSkips(t *testing.T) {
	var guardedRan, laterRan atomic.Bool
	p := New("test").
		AddStage(Stage{
			Name:      "prepare-auth",
			Condition: func() bool { return false },
			Jobs: []Job{{Name: "refresh", Run: func(ctx context.Context) error {
				guardedRan.Store(true)
				return nil
			}}},
		}).
		AddStage(Stage{Name: "build", Jobs: []Job{{Name: "build", Run: func(ctx context.Context) error {
			laterRan.Store(true)
			return nil
		}}}})

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if guardedRan.Load() {
		t.Error("guarded stage ran although its condition was false")
	}
	if !laterRan.Load() {
		t.Error("skipping a stage must not halt later stages")
	}
}

func TestTriggerGuard(t *testing.T) {
	tests := []struct {
		name    string
		trigger Trigger
		want    bool
	}{
		{"web trigger on main", Trigger{Source: SourceWeb, Branch: MainBranch}, true},
		{"web trigger on feature branch", Trigger{Source: SourceWeb, Branch: "feature/x"}, false},
		{"push to main", Trigger{Source: "push", Branch: MainBranch}, false},
		{"push to feature branch", Trigger{Source: "push", Branch: "feature/x"}, false},
		{"empty trigger", Trigger{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.trigger.ShouldRefreshCredentials(); got != tt.want {
				t.Errorf("ShouldRefreshCredentials() = %v, want %v", got, tt.want)
			}
		})
	}
}
