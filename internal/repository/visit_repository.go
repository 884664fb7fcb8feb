package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/emergency-services/internal/domain"
)

// VisitRepository handles persistence for emergency visits. Deleting a visit
// cascades to its clinical children and admission at the schema level.
type VisitRepository interface {
	Create(ctx context.Context, visit *domain.EmergencyVisit) error
	Update(ctx context.Context, visit *domain.EmergencyVisit) error
	GetByID(ctx context.Context, id int64) (*domain.EmergencyVisit, error)
	List(ctx context.Context, filter VisitFilter) ([]domain.EmergencyVisit, error)
	Delete(ctx context.Context, id int64) error
}

// VisitFilter defines query params for visit listing.
type VisitFilter struct {
	PatientID   *int64
	IsAdmitted  *bool
	TriageLevel *domain.TriageLevel
	Limit       int
	Offset      int
}

type visitRepository struct {
	pool *pgxpool.Pool
}

// NewVisitRepository instantiates the repository.
func NewVisitRepository(pool *pgxpool.Pool) VisitRepository {
	return &visitRepository{pool: pool}
}

const visitColumns = `
        id, patient_id, arrival_time, triage_level, chief_complaint,
        initial_observation, discharge_time, discharge_diagnosis,
        discharge_instructions, is_admitted, attending_physician_id, triage_nurse_id`

func (r *visitRepository) Create(ctx context.Context, visit *domain.EmergencyVisit) error {
	const query = `
        INSERT INTO emergency_visits (patient_id, triage_level, chief_complaint,
            initial_observation, is_admitted, attending_physician_id, triage_nurse_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, arrival_time`

	return r.pool.QueryRow(ctx, query,
		visit.PatientID,
		visit.TriageLevel,
		visit.ChiefComplaint,
		visit.InitialObservation,
		visit.IsAdmitted,
		visit.AttendingPhysicianID,
		visit.TriageNurseID,
	).Scan(&visit.ID, &visit.ArrivalTime)
}

func (r *visitRepository) Update(ctx context.Context, visit *domain.EmergencyVisit) error {
	const query = `
        UPDATE emergency_visits SET patient_id=$1, triage_level=$2, chief_complaint=$3,
            initial_observation=$4, discharge_time=$5, discharge_diagnosis=$6,
            discharge_instructions=$7, is_admitted=$8, attending_physician_id=$9,
            triage_nurse_id=$10
        WHERE id=$11`

	cmd, err := r.pool.Exec(ctx, query,
		visit.PatientID,
		visit.TriageLevel,
		visit.ChiefComplaint,
		visit.InitialObservation,
		visit.DischargeTime,
		visit.DischargeDiagnosis,
		visit.DischargeInstructions,
		visit.IsAdmitted,
		visit.AttendingPhysicianID,
		visit.TriageNurseID,
		visit.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *visitRepository) GetByID(ctx context.Context, id int64) (*domain.EmergencyVisit, error) {
	query := `SELECT` + visitColumns + ` FROM emergency_visits WHERE id=$1`

	var visit domain.EmergencyVisit
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&visit.ID,
		&visit.PatientID,
		&visit.ArrivalTime,
		&visit.TriageLevel,
		&visit.ChiefComplaint,
		&visit.InitialObservation,
		&visit.DischargeTime,
		&visit.DischargeDiagnosis,
		&visit.DischargeInstructions,
		&visit.IsAdmitted,
		&visit.AttendingPhysicianID,
		&visit.TriageNurseID,
	); err != nil {
		return nil, err
	}
	return &visit, nil
}

func (r *visitRepository) List(ctx context.Context, filter VisitFilter) ([]domain.EmergencyVisit, error) {
	query := `SELECT` + visitColumns + ` FROM emergency_visits`
	args := []any{}
	clauses := []string{}

	if filter.PatientID != nil {
		args = append(args, *filter.PatientID)
		clauses = append(clauses, fmt.Sprintf("patient_id=$%d", len(args)))
	}
	if filter.IsAdmitted != nil {
		args = append(args, *filter.IsAdmitted)
		clauses = append(clauses, fmt.Sprintf("is_admitted=$%d", len(args)))
	}
	if filter.TriageLevel != nil {
		args = append(args, *filter.TriageLevel)
		clauses = append(clauses, fmt.Sprintf("triage_level=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY arrival_time DESC"
	query += limitOffsetClause(filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EmergencyVisit
	for rows.Next() {
		var visit domain.EmergencyVisit
		if err := rows.Scan(
			&visit.ID,
			&visit.PatientID,
			&visit.ArrivalTime,
			&visit.TriageLevel,
			&visit.ChiefComplaint,
			&visit.InitialObservation,
			&visit.DischargeTime,
			&visit.DischargeDiagnosis,
			&visit.DischargeInstructions,
			&visit.IsAdmitted,
			&visit.AttendingPhysicianID,
			&visit.TriageNurseID,
		); err != nil {
			return nil, err
		}
		result = append(result, visit)
	}
	return result, rows.Err()
}

func (r *visitRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM emergency_visits WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
