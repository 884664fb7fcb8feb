package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/emergency-services/internal/domain"
)

// AdmissionRepository handles persistence for admissions. The visit
// reference is unique: one admission per visit.
type AdmissionRepository interface {
	Create(ctx context.Context, admission *domain.Admission) error
	Update(ctx context.Context, admission *domain.Admission) error
	GetByID(ctx context.Context, id int64) (*domain.Admission, error)
	GetByVisit(ctx context.Context, visitID int64) (*domain.Admission, error)
	List(ctx context.Context, limit, offset int) ([]domain.Admission, error)
	Delete(ctx context.Context, id int64) error
}

type admissionRepository struct {
	pool *pgxpool.Pool
}

// NewAdmissionRepository instantiates the repository.
func NewAdmissionRepository(pool *pgxpool.Pool) AdmissionRepository {
	return &admissionRepository{pool: pool}
}

const admissionColumns = `
        id, visit_id, bed_id, admitted_by_id, admission_time, discharge_time,
        admitting_diagnosis, department, notes`

func (r *admissionRepository) Create(ctx context.Context, admission *domain.Admission) error {
	const query = `
        INSERT INTO admissions (visit_id, bed_id, admitted_by_id,
            admitting_diagnosis, department, notes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, admission_time`

	return r.pool.QueryRow(ctx, query,
		admission.VisitID,
		admission.BedID,
		admission.AdmittedByID,
		admission.AdmittingDiagnosis,
		admission.Department,
		admission.Notes,
	).Scan(&admission.ID, &admission.AdmissionTime)
}

func (r *admissionRepository) Update(ctx context.Context, admission *domain.Admission) error {
	const query = `
        UPDATE admissions SET bed_id=$1, discharge_time=$2, admitting_diagnosis=$3,
            department=$4, notes=$5
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		admission.BedID,
		admission.DischargeTime,
		admission.AdmittingDiagnosis,
		admission.Department,
		admission.Notes,
		admission.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *admissionRepository) GetByID(ctx context.Context, id int64) (*domain.Admission, error) {
	query := `SELECT` + admissionColumns + ` FROM admissions WHERE id=$1`
	return scanAdmission(r.pool.QueryRow(ctx, query, id))
}

func (r *admissionRepository) GetByVisit(ctx context.Context, visitID int64) (*domain.Admission, error) {
	query := `SELECT` + admissionColumns + ` FROM admissions WHERE visit_id=$1`
	return scanAdmission(r.pool.QueryRow(ctx, query, visitID))
}

func (r *admissionRepository) List(ctx context.Context, limit, offset int) ([]domain.Admission, error) {
	query := `SELECT` + admissionColumns + ` FROM admissions ORDER BY admission_time DESC`
	query += limitOffsetClause(limit, offset)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Admission
	for rows.Next() {
		admission, err := scanAdmission(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *admission)
	}
	return result, rows.Err()
}

func (r *admissionRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, "admissions", id)
}

func scanAdmission(row pgx.Row) (*domain.Admission, error) {
	var admission domain.Admission
	if err := row.Scan(
		&admission.ID,
		&admission.VisitID,
		&admission.BedID,
		&admission.AdmittedByID,
		&admission.AdmissionTime,
		&admission.DischargeTime,
		&admission.AdmittingDiagnosis,
		&admission.Department,
		&admission.Notes,
	); err != nil {
		return nil, err
	}
	return &admission, nil
}
