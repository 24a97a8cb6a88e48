package driven

import (
	"context"

	"github.com/custodia-labs/draftpost/internal/core/domain"
)

// SchedulerStore persists periodic sweep state across restarts:
// the task definition and its run history.
type SchedulerStore interface {
	// GetTask retrieves a scheduled task by ID.
	// Returns nil and no error if the task does not exist.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)

	// ListTasks returns all scheduled tasks ordered by ID.
	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// SaveTask creates or updates a task by ID.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	// RecordRun stores the task's state after a run together with the run's
	// result, keeping only the newest keep results for that task.
	RecordRun(ctx context.Context, task *domain.ScheduledTask, result domain.TaskResult, keep int) error

	// History returns up to limit results for a task, most recent first.
	History(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)
}
