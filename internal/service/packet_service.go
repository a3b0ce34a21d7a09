package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/GotYourSixConsulting/delegations/internal/dateutil"
	"github.com/GotYourSixConsulting/delegations/internal/document"
	"github.com/GotYourSixConsulting/delegations/internal/domain"
	"github.com/GotYourSixConsulting/delegations/internal/repository"
)

const dateLayout = "2006-01-02"

// PacketService builds the printable compliance documents: the delegation
// packet (the regulatory record of truth), the assessment report, and the
// training transcript. Builders read the stores and assemble a
// self-contained document object; rendering is the consumer's problem.
type PacketService interface {
	BuildDelegationPacket(ctx context.Context, delegationID string) (*document.Document, error)
	BuildAssessmentReport(ctx context.Context, residentID, assessmentID string) (*document.Document, error)
	BuildTrainingTranscript(ctx context.Context, medTechID string) (*document.Document, error)
}

type packetService struct {
	delegations repository.DelegationsRepository
	residents   repository.ResidentsRepository
	medTechs    repository.MedTechsRepository
	communities repository.CommunitiesRepository
	tasks       repository.TasksRepository
	clock       dateutil.Clock
	logger      *zap.Logger
}

// NewPacketService creates a PacketService instance.
func NewPacketService(
	delegations repository.DelegationsRepository,
	residents repository.ResidentsRepository,
	medTechs repository.MedTechsRepository,
	communities repository.CommunitiesRepository,
	tasks repository.TasksRepository,
	clock dateutil.Clock,
	logger *zap.Logger,
) PacketService {
	return &packetService{
		delegations: delegations,
		residents:   residents,
		medTechs:    medTechs,
		communities: communities,
		tasks:       tasks,
		clock:       clock,
		logger:      logger,
	}
}

func fmtDate(t time.Time) string {
	return t.Format(dateLayout)
}

func (s *packetService) BuildDelegationPacket(ctx context.Context, delegationID string) (*document.Document, error) {
	d, err := s.delegations.GetDelegation(ctx, delegationID)
	if err != nil {
		return nil, fmt.Errorf("load delegation %s: %w", delegationID, err)
	}
	resident, err := s.residents.GetResident(ctx, d.ResidentID)
	if err != nil {
		return nil, fmt.Errorf("load resident %s: %w", d.ResidentID, err)
	}
	medTech, err := s.medTechs.GetMedTech(ctx, d.MedTechID)
	if err != nil {
		return nil, fmt.Errorf("load medtech %s: %w", d.MedTechID, err)
	}
	community, err := s.communities.GetCommunity(ctx, d.CommunityID)
	if err != nil {
		return nil, fmt.Errorf("load community %s: %w", d.CommunityID, err)
	}
	task, err := s.tasks.GetTask(ctx, d.TaskID)
	if err != nil {
		return nil, fmt.Errorf("load task %s: %w", d.TaskID, err)
	}

	today := s.clock.Today()
	doc := &document.Document{
		Title:       "Nurse Delegation Packet",
		Subtitle:    fmt.Sprintf("%s — %s", community.Name, task.Label),
		GeneratedAt: today,
	}

	doc.Sections = append(doc.Sections, document.Section{
		Heading: "Delegation Summary",
		Rows: []document.Row{
			{Label: "Resident", Value: resident.Name},
			{Label: "Unit", Value: resident.Unit},
			{Label: "Diagnosis", Value: resident.Diagnosis},
			{Label: "Medication Regimen", Value: resident.MedRegimen},
			{Label: "Delegate (MedTech)", Value: medTech.Name},
			{Label: "Delegated Task", Value: task.Label},
			{Label: "Delegating RN", Value: d.SignerName},
			{Label: "Authorization Start", Value: fmtDate(d.StartDate)},
			{Label: "Authorization End", Value: fmtDate(d.EndDate)},
			{Label: "Authorization Days", Value: strconv.Itoa(d.AuthDays)},
			{Label: "Supervision Due", Value: fmtDate(d.SupervisionDueDate)},
			{Label: "Status", Value: domain.DeriveStatus(d, today)},
		},
	})

	doc.Sections = append(doc.Sections, document.Section{
		Heading: "Delegation Checklist",
		Rows: []document.Row{
			{Label: "Resident condition is stable and predictable", Value: document.YesNo(d.Checklist.StableCondition)},
			{Label: "Environment is safe for task performance", Value: document.YesNo(d.Checklist.SafeEnvironment)},
			{Label: "UAP has demonstrated skill for the task", Value: document.YesNo(d.Checklist.UAPSkill)},
			{Label: "UAP is willing to perform the task", Value: document.YesNo(d.Checklist.UAPWilling)},
			{Label: "RN is available for consultation", Value: document.YesNo(d.Checklist.RNAvailable)},
			{Label: "Written instructions are in place", Value: document.YesNo(d.Checklist.WrittenInstructions)},
			{Label: "Delegation is non-transferable", Value: document.YesNo(d.Checklist.NonTransferable)},
		},
	})

	doc.Sections = append(doc.Sections, document.Section{
		Heading: "Procedure",
		Steps:   task.ProcedureSteps,
	})

	doc.Sections = append(doc.Sections, document.Section{
		Heading: "Competency Verification",
		Rows: []document.Row{
			{Label: "Demonstration", Value: document.YesNo(d.CompetencyMethods.Demonstration)},
			{Label: "Verbal quiz", Value: document.YesNo(d.CompetencyMethods.VerbalQuiz)},
			{Label: "Written quiz", Value: document.YesNo(d.CompetencyMethods.WrittenQuiz)},
			{Label: "Return demonstration", Value: document.YesNo(d.CompetencyMethods.ReturnDemonstration)},
			{Label: "Observation", Value: document.YesNo(d.CompetencyMethods.Observation)},
		},
	})

	doc.Sections = append(doc.Sections, document.Section{
		Heading: "Justification",
		Text:    d.AuthJustification,
	})

	auditTable := &document.Table{Columns: []string{"Timestamp", "Action", "Detail"}}
	for _, entry := range d.Audit {
		auditTable.Rows = append(auditTable.Rows, []string{
			entry.Timestamp.UTC().Format(time.RFC3339),
			entry.Action,
			entry.Detail,
		})
	}
	doc.Sections = append(doc.Sections, document.Section{
		Heading: "Audit Trail",
		Table:   auditTable,
	})

	doc.Signatures = append(doc.Signatures,
		signatureBlock("Delegating RN", d.SignerName, d.RNSignature),
		signatureBlock("MedTech", medTech.Name, d.MTSignature),
	)

	return doc, nil
}

func signatureBlock(role, fallbackName string, sig *domain.SignatureRecord) document.SignatureBlock {
	block := document.SignatureBlock{Role: role, Name: fallbackName}
	if sig != nil {
		block.Name = sig.Name
		signedAt := sig.SignedAt
		block.SignedAt = &signedAt
		block.Image = sig.Image
	}
	return block
}

func (s *packetService) BuildAssessmentReport(ctx context.Context, residentID, assessmentID string) (*document.Document, error) {
	resident, err := s.residents.GetResident(ctx, residentID)
	if err != nil {
		return nil, fmt.Errorf("load resident %s: %w", residentID, err)
	}

	var assessment *domain.Assessment
	if assessmentID == "" && len(resident.Assessments) > 0 {
		assessment = &resident.Assessments[0]
	} else {
		for i := range resident.Assessments {
			if resident.Assessments[i].AssessmentID == assessmentID {
				assessment = &resident.Assessments[i]
				break
			}
		}
	}
	if assessment == nil {
		return nil, fmt.Errorf("assessment %s for resident %s: %w", assessmentID, residentID, repository.ErrNotFound)
	}

	stability := "Resident assessed as stable and predictable."
	if !assessment.Stable {
		stability = "Resident assessed as NOT stable and predictable."
	}

	return &document.Document{
		Title:       "Resident Stability Assessment",
		Subtitle:    resident.Name,
		GeneratedAt: s.clock.Today(),
		Sections: []document.Section{
			{
				Heading: "Assessment",
				Rows: []document.Row{
					{Label: "Resident", Value: resident.Name},
					{Label: "Unit", Value: resident.Unit},
					{Label: "Diagnosis", Value: resident.Diagnosis},
					{Label: "Assessment Date", Value: fmtDate(assessment.Date)},
					{Label: "Assessment Type", Value: assessment.Type},
					{Label: "Stability", Value: stability},
					{Label: "Next Assessment Due", Value: fmtDate(assessment.NextDueDate)},
				},
			},
			{
				Heading: "Narrative",
				Text:    assessment.Narrative,
			},
		},
	}, nil
}

func (s *packetService) BuildTrainingTranscript(ctx context.Context, medTechID string) (*document.Document, error) {
	medTech, err := s.medTechs.GetMedTech(ctx, medTechID)
	if err != nil {
		return nil, fmt.Errorf("load medtech %s: %w", medTechID, err)
	}

	table := &document.Table{Columns: []string{"Date", "Course", "Instructor", "Method", "Hours"}}
	if len(medTech.TrainingRecords) == 0 {
		table.Rows = append(table.Rows, []string{"No records.", "", "", "", ""})
	} else {
		// Transcript prints newest first, matching the stored order.
		for _, rec := range medTech.TrainingRecords {
			table.Rows = append(table.Rows, []string{
				fmtDate(rec.Date),
				rec.Course,
				rec.Instructor,
				rec.Method,
				strconv.FormatFloat(rec.Hours, 'f', -1, 64),
			})
		}
	}

	return &document.Document{
		Title:       "Training Transcript",
		Subtitle:    medTech.Name,
		GeneratedAt: s.clock.Today(),
		Sections: []document.Section{
			{Heading: "Training History", Table: table},
		},
	}, nil
}
