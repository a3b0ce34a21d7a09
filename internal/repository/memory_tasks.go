package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/GotYourSixConsulting/delegations/internal/domain"
)

// MemoryTasksRepo in-memory TasksRepository holding the fixed task catalog.
type MemoryTasksRepo struct {
	mu    sync.RWMutex
	tasks map[string]domain.DelegationTask
}

func NewMemoryTasksRepo(catalog []domain.DelegationTask) *MemoryTasksRepo {
	tasks := make(map[string]domain.DelegationTask, len(catalog))
	for _, t := range catalog {
		tasks[t.TaskID] = t
	}
	return &MemoryTasksRepo{tasks: tasks}
}

func (r *MemoryTasksRepo) GetTask(_ context.Context, taskID string) (*domain.DelegationTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[taskID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := t
	cp.ProcedureSteps = append([]string(nil), t.ProcedureSteps...)
	return &cp, nil
}

func (r *MemoryTasksRepo) ListTasks(_ context.Context) ([]*domain.DelegationTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*domain.DelegationTask, 0, len(r.tasks))
	for id := range r.tasks {
		t := r.tasks[id]
		t.ProcedureSteps = append([]string(nil), t.ProcedureSteps...)
		all = append(all, &t)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Label < all[j].Label
	})
	return all, nil
}

// DefaultTaskCatalog is the seed catalog wired at startup. Task ids are
// stable strings referenced by stored delegations, so they must not change.
func DefaultTaskCatalog() []domain.DelegationTask {
	return []domain.DelegationTask{
		{
			TaskID: "insulin-administration",
			Label:  "Insulin Administration",
			ProcedureSteps: []string{
				"Verify the medication administration record and physician order.",
				"Perform hand hygiene and gather supplies.",
				"Confirm resident identity using two identifiers.",
				"Check blood glucose per written instructions.",
				"Draw up and verify the ordered insulin dose.",
				"Administer subcutaneously at a rotated site.",
				"Document dose, site, time, and resident response.",
				"Report readings outside written parameters to the RN immediately.",
			},
		},
		{
			TaskID: "glucometer-testing",
			Label:  "Blood Glucose Monitoring",
			ProcedureSteps: []string{
				"Perform hand hygiene and don gloves.",
				"Confirm resident identity using two identifiers.",
				"Calibrate or code the glucometer if required.",
				"Obtain a capillary sample per manufacturer instructions.",
				"Record the reading on the monitoring log.",
				"Report readings outside written parameters to the RN.",
			},
		},
		{
			TaskID: "injectable-medication",
			Label:  "Injectable Medication (Non-Insulin)",
			ProcedureSteps: []string{
				"Verify the medication administration record and physician order.",
				"Confirm resident identity using two identifiers.",
				"Prepare the ordered dose and verify against the order.",
				"Administer by the ordered route and site.",
				"Document administration and observe for adverse reaction.",
				"Report any adverse reaction to the RN immediately.",
			},
		},
	}
}
