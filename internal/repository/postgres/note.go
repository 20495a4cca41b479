package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

const noteColumns = `id, appointment_id, patient_id, therapist_id, diagnosis_code,
	subjective_analysis, observations, treatment_plan, is_draft, created_at, updated_at`

type noteRepository struct {
	BaseRepository
}

func NewNoteRepository(base BaseRepository) repository.NoteRepository {
	return &noteRepository{base}
}

func (r *noteRepository) Create(ctx context.Context, note *model.ClinicalNote) error {
	query := `
		INSERT INTO clinical_notes (` + noteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		note.ID,
		note.AppointmentID,
		note.PatientID,
		note.TherapistID,
		note.DiagnosisCode,
		note.SubjectiveAnalysis,
		note.Observations,
		note.TreatmentPlan,
		note.IsDraft,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return wrap("create clinical note", err)
	}
	return nil
}

func (r *noteRepository) Get(ctx context.Context, id uuid.UUID) (*model.ClinicalNote, error) {
	var note model.ClinicalNote
	err := r.db.GetContext(ctx, &note, `SELECT `+noteColumns+` FROM clinical_notes WHERE id = $1`, id)
	if err != nil {
		return nil, wrap("get clinical note", err)
	}
	return &note, nil
}

// Update never touches patient_id or therapist_id.
func (r *noteRepository) Update(ctx context.Context, note *model.ClinicalNote) error {
	query := `
		UPDATE clinical_notes
		SET appointment_id = $1, diagnosis_code = $2, subjective_analysis = $3,
			observations = $4, treatment_plan = $5, is_draft = $6, updated_at = $7
		WHERE id = $8
	`
	return r.exec(ctx, "update clinical note", query,
		note.AppointmentID,
		note.DiagnosisCode,
		note.SubjectiveAnalysis,
		note.Observations,
		note.TreatmentPlan,
		note.IsDraft,
		note.UpdatedAt,
		note.ID,
	)
}

func (r *noteRepository) ListByTherapist(ctx context.Context, therapistID uuid.UUID) ([]*model.ClinicalNote, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM clinical_notes
		WHERE therapist_id = $1
		ORDER BY created_at DESC
	`
	notes := []*model.ClinicalNote{}
	if err := r.db.SelectContext(ctx, &notes, query, therapistID); err != nil {
		return nil, wrap("list clinical notes", err)
	}
	return notes, nil
}
