// Package pipeline runs the analysis steps in order, recording each step's
// outcome in the step log.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/econlink/internal/cache"
)

// Step is one unit of pipeline work.
type Step struct {
	Name string
	// ContinueOnError lets the driver proceed to the next step after a
	// failure instead of aborting the run.
	ContinueOnError bool
	Run             func(ctx context.Context) error
}

// Result is the recorded outcome of one step.
type Result struct {
	Step     string
	Status   cache.StepStatus
	Err      error
	Duration time.Duration
}

// Driver executes steps sequentially. Each data source feeds the next step,
// so there is nothing to gain from running steps concurrently.
type Driver struct {
	recorder cache.Store
	now      func() time.Time
}

// NewDriver creates a driver that records step outcomes in the store.
func NewDriver(recorder cache.Store) *Driver {
	return &Driver{recorder: recorder, now: time.Now}
}

// Run executes the steps in order under a fresh run id. The first failing
// step without ContinueOnError aborts the run; its error is returned along
// with the results so far.
func (d *Driver) Run(ctx context.Context, steps []Step) ([]Result, error) {
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))
	log.Info("starting run", zap.Int("steps", len(steps)))

	var results []Result
	for _, step := range steps {
		start := d.now()
		err := step.Run(ctx)
		duration := d.now().Sub(start)

		status := cache.StepOK
		message := ""
		if err != nil {
			status = cache.StepFailed
			message = err.Error()
		}
		results = append(results, Result{Step: step.Name, Status: status, Err: err, Duration: duration})

		if recErr := d.recorder.RecordStep(ctx, cache.StepRecord{
			ID:         uuid.NewString(),
			RunID:      runID,
			Step:       step.Name,
			Status:     status,
			Message:    message,
			StartedAt:  start,
			FinishedAt: start.Add(duration),
		}); recErr != nil {
			log.Warn("failed to record step", zap.String("step", step.Name), zap.Error(recErr))
		}

		if err != nil {
			log.Error("step failed",
				zap.String("step", step.Name),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
			if !step.ContinueOnError {
				return results, eris.Wrapf(err, "step %s", step.Name)
			}
			continue
		}
		log.Info("step complete",
			zap.String("step", step.Name),
			zap.Duration("duration", duration),
		)
	}

	log.Info("run complete", zap.Int("steps", len(results)))
	return results, nil
}

// LastSuccess reports when a step last finished successfully, or nil.
func (d *Driver) LastSuccess(ctx context.Context, step string) (*time.Time, error) {
	return d.recorder.LastSuccess(ctx, step)
}
