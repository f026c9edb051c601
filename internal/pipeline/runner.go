package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type StepOutcome struct {
	Step     string
	Err      error
	Duration time.Duration
}

// RunReport lists what happened to each step. Failed steps are informational
// only: a run with failures is still a completed run.
type RunReport struct {
	ItemID   string
	Steps    []StepOutcome
	Duration time.Duration
}

func (r RunReport) Failed() []StepOutcome {
	var failed []StepOutcome
	for _, s := range r.Steps {
		if s.Err != nil {
			failed = append(failed, s)
		}
	}
	return failed
}

type Runner struct {
	steps       []Step
	stepTimeout time.Duration
	logger      *slog.Logger
}

func NewRunner(steps []Step, stepTimeout time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		steps:       steps,
		stepTimeout: stepTimeout,
		logger:      logger.With("component", "pipeline"),
	}
}

func (r *Runner) Steps() []string {
	names := make([]string, len(r.steps))
	for i, s := range r.steps {
		names[i] = s.Name()
	}
	return names
}

// Run executes every step in order. It never fails because of a step.
func (r *Runner) Run(ctx context.Context, sc StepContext) RunReport {
	start := time.Now()
	report := RunReport{ItemID: sc.ItemID, Steps: make([]StepOutcome, 0, len(r.steps))}

	for _, step := range r.steps {
		stepStart := time.Now()
		err := r.runStep(ctx, step, sc)
		outcome := StepOutcome{Step: step.Name(), Err: err, Duration: time.Since(stepStart)}
		report.Steps = append(report.Steps, outcome)

		if err != nil {
			r.logger.Warn("step failed",
				"step", step.Name(),
				"item_id", sc.ItemID,
				"url", sc.URL,
				"error", err,
			)
			continue
		}
		r.logger.Debug("step done", "step", step.Name(), "item_id", sc.ItemID, "duration", outcome.Duration)
	}

	report.Duration = time.Since(start)
	r.logger.Info("pipeline completed",
		"item_id", sc.ItemID,
		"steps", len(report.Steps),
		"failed", len(report.Failed()),
		"duration", report.Duration,
	)
	return report
}

func (r *Runner) runStep(ctx context.Context, step Step, sc StepContext) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("step panicked: %v", rec)
		}
	}()

	if r.stepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.stepTimeout)
		defer cancel()
	}
	return step.Run(ctx, sc)
}
