package domain

// DelegationTask is a static catalog entry describing a delegable task and
// the procedure packet printed with it. Reference data, not mutable state.
type DelegationTask struct {
	TaskID         string   `json:"task_id"`
	Label          string   `json:"label"`
	ProcedureSteps []string `json:"procedure_steps"`
}
