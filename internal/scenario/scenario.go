// Copyright (c) 2026 TTBT Enterprises LLC
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

// Package scenario executes one linear UI verification scenario: an
// ordered sequence of steps run strictly one after another against a
// live page, stopping at the first failure. The browser is a scoped
// resource: acquired when the run starts and released on every exit
// path. There are no retries; a step is attempted exactly once.
package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/ttbt-io/contactflow-verify/internal/config"
)

// Phase names the stage a scenario is in while a step runs. A scenario
// moves through its phases in order and has a single failure exit from
// any of them.
type Phase string

const (
	PhaseStart              Phase = "start"
	PhaseRegistering        Phase = "registering"
	PhaseAwaitingLogin      Phase = "awaiting_redirect_to_login"
	PhaseLoggingIn          Phase = "logging_in"
	PhaseAwaitingDashboard  Phase = "awaiting_redirect_to_dashboard"
	PhaseVerifyingDomain    Phase = "verifying_domain_state"
	PhaseCapturingArtifact  Phase = "capturing_artifact"
	PhaseDone               Phase = "done"
	PhaseFailed             Phase = "failed"
)

// Step is one browser interaction or assertion within a scenario.
type Step struct {
	// Desc is a short human-readable description, used in logs and
	// failure messages.
	Desc string

	// Phase is the scenario stage this step belongs to.
	Phase Phase

	// Action is the chromedp action to run against the live page.
	Action chromedp.Action
}

// StepResult records the outcome of one executed step.
type StepResult struct {
	Desc     string
	Phase    Phase
	Duration time.Duration
	Err      error
}

// Result is the outcome of a full scenario run. State is PhaseDone on
// success and PhaseFailed otherwise.
type Result struct {
	Scenario string
	State    Phase
	Steps    []StepResult
	Start    time.Time
	End      time.Time
	Err      error
}

// Failed reports whether the run ended in the failure state.
func (r *Result) Failed() bool { return r.State == PhaseFailed }

// Runner executes scenarios against a browser.
type Runner struct {
	cfg config.Config
	log *zap.Logger

	// run executes actions on the browser context. chromedp.Run is the
	// only way to install the CDP executor (and lazily start the
	// browser); tests replace it to exercise sequencing without one.
	run func(ctx context.Context, actions ...chromedp.Action) error

	// onFailure, when set, runs once after a step fails, with the
	// browser still alive. Used for debug screenshots and toast dumps.
	// Its error is logged but never replaces the step error.
	onFailure func(ctx context.Context, name string, stepErr error)
}

// NewRunner returns a Runner for the given configuration.
func NewRunner(cfg config.Config, log *zap.Logger) *Runner {
	return &Runner{cfg: cfg, log: log, run: chromedp.Run}
}

// WithFailureHook sets the diagnostic hook invoked after a failed step.
func (r *Runner) WithFailureHook(hook func(ctx context.Context, name string, stepErr error)) *Runner {
	r.onFailure = hook
	return r
}

// Run acquires a browser, executes the steps in order, and releases the
// browser on every exit path. The returned Result always describes how
// far the scenario got; the error is nil only when every step passed.
func (r *Runner) Run(ctx context.Context, name string, steps []Step) (*Result, error) {
	allocCtx, cancelAlloc := r.allocator(ctx)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(r.log.Sugar().Errorf),
	)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, r.cfg.ScenarioTimeout)
	defer cancelRun()

	return r.Execute(runCtx, name, steps)
}

// allocator selects a remote Chrome instance when ChromeURL is set and
// a locally launched browser otherwise.
func (r *Runner) allocator(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.ChromeURL != "" {
		return chromedp.NewRemoteAllocator(ctx, r.cfg.ChromeURL)
	}
	opts := chromedp.DefaultExecAllocatorOptions[:]
	if !r.cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	return chromedp.NewExecAllocator(ctx, opts...)
}

// Execute runs the steps sequentially on an already prepared context.
// Split out from Run so the sequencing logic is testable without a
// browser.
func (r *Runner) Execute(ctx context.Context, name string, steps []Step) (*Result, error) {
	res := &Result{
		Scenario: name,
		State:    PhaseStart,
		Start:    time.Now(),
	}
	log := r.log.With(zap.String("scenario", name))
	log.Info("scenario starting", zap.Int("steps", len(steps)))

	for i, step := range steps {
		res.State = step.Phase
		log.Info("step",
			zap.Int("index", i),
			zap.String("phase", string(step.Phase)),
			zap.String("desc", step.Desc),
		)
		start := time.Now()
		err := r.run(ctx, step.Action)
		sr := StepResult{
			Desc:     step.Desc,
			Phase:    step.Phase,
			Duration: time.Since(start),
			Err:      err,
		}
		res.Steps = append(res.Steps, sr)
		if err != nil {
			if r.onFailure != nil {
				r.onFailure(ctx, name, err)
			}
			res.State = PhaseFailed
			res.End = time.Now()
			res.Err = fmt.Errorf("step %q (%s): %w", step.Desc, step.Phase, err)
			log.Error("scenario failed",
				zap.Int("index", i),
				zap.String("desc", step.Desc),
				zap.Error(err),
			)
			return res, res.Err
		}
		log.Debug("step ok", zap.Int("index", i), zap.Duration("took", sr.Duration))
	}

	res.State = PhaseDone
	res.End = time.Now()
	log.Info("scenario done", zap.Duration("took", res.End.Sub(res.Start)))
	return res, nil
}
