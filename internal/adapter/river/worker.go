package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"
)

// TransitionWorker processes status-transition jobs from the River queue.
// For now it logs the transition; future versions will dispatch to
// webhooks or notification systems.
type TransitionWorker struct {
	river.WorkerDefaults[TransitionJobArgs]
}

// Work processes a single transition job.
func (w *TransitionWorker) Work(ctx context.Context, job *river.Job[TransitionJobArgs]) error {
	slog.InfoContext(ctx, "record transitioned",
		"store_id", job.Args.StoreID,
		"record_id", job.Args.RecordID,
		"resource_type", job.Args.ResourceType,
		"from", job.Args.From,
		"to", job.Args.To,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)
	return nil
}
