package repository

import (
	"context"

	"github.com/GotYourSixConsulting/delegations/internal/domain"
)

// TasksRepository read access to the static delegable-task catalog.
type TasksRepository interface {
	GetTask(ctx context.Context, taskID string) (*domain.DelegationTask, error)
	ListTasks(ctx context.Context) ([]*domain.DelegationTask, error)
}
