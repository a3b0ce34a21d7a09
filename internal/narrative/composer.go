// Package narrative composes the regulatory justification text for a
// delegation. Composition is a pure function of its inputs: the caller
// recomposes the whole narrative whenever any authorization parameter
// changes instead of patching the stored text, so the record can never go
// stale relative to the fields it was built from.
package narrative

import (
	"fmt"
	"strings"

	"github.com/GotYourSixConsulting/delegations/internal/domain"
)

// NotCompleted marks a justification field that was left blank. The
// regulatory record must show what was and was not completed; blanks are
// never silently dropped.
const NotCompleted = "[NOT COMPLETED]"

// StableClause / UnstableClause close the attestation sentence.
const (
	StableClause   = "stable and predictable"
	UnstableClause = "not stable and predictable"
)

type clause struct {
	label string
	value string
}

// Compose renders the six fixed justification clauses followed by the
// attestation sentence. Identical inputs always produce byte-identical
// output.
func Compose(signerName string, authDays int, stable bool, f domain.JustificationFields) string {
	clauses := []clause{
		{"RN/employee working relationship", f.RNRelationship},
		{"Training method and rationale", f.TrainingMethod},
		{"Insulin experience in this community", f.ExperienceCommunity},
		{"Insulin experience over career", f.ExperienceCareer},
		{"Knowledge of this resident", f.ResidentKnowledge},
		{"Willingness to accept delegation", f.Willingness},
	}

	var b strings.Builder
	for i, c := range clauses {
		b.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, c.label, orNotCompleted(c.value)))
	}

	stableText := StableClause
	if !stable {
		stableText = UnstableClause
	}
	b.WriteString(fmt.Sprintf(
		"I, %s, RN am delegating this employee for the next (%d) days based on the above criteria and documented assessment in the medical record of the resident being %s.",
		orNotCompleted(signerName), authDays, stableText,
	))
	return b.String()
}

func orNotCompleted(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotCompleted
	}
	return strings.TrimSpace(s)
}
