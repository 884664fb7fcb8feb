package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/emergency-services/internal/domain"
)

// BedRepository handles persistence for beds.
type BedRepository interface {
	Create(ctx context.Context, bed *domain.Bed) error
	Update(ctx context.Context, bed *domain.Bed) error
	GetByID(ctx context.Context, id int64) (*domain.Bed, error)
	List(ctx context.Context, filter BedFilter) ([]domain.Bed, error)
	Delete(ctx context.Context, id int64) error
}

// BedFilter defines query params for bed listing.
type BedFilter struct {
	Status      *domain.BedStatus
	Location    *string
	IsIsolation *bool
	Limit       int
	Offset      int
}

type bedRepository struct {
	pool *pgxpool.Pool
}

// NewBedRepository instantiates the repository.
func NewBedRepository(pool *pgxpool.Pool) BedRepository {
	return &bedRepository{pool: pool}
}

const bedColumns = `
        id, bed_number, status, location, is_isolation, special_equipment,
        last_cleaned, patient_id, doctor_id, nurse_id`

func (r *bedRepository) Create(ctx context.Context, bed *domain.Bed) error {
	const query = `
        INSERT INTO beds (bed_number, status, location, is_isolation,
            special_equipment, patient_id, doctor_id, nurse_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, last_cleaned`

	return r.pool.QueryRow(ctx, query,
		bed.BedNumber,
		bed.Status,
		bed.Location,
		bed.IsIsolation,
		bed.SpecialEquipment,
		bed.PatientID,
		bed.DoctorID,
		bed.NurseID,
	).Scan(&bed.ID, &bed.LastCleaned)
}

func (r *bedRepository) Update(ctx context.Context, bed *domain.Bed) error {
	const query = `
        UPDATE beds SET bed_number=$1, status=$2, location=$3, is_isolation=$4,
            special_equipment=$5, patient_id=$6, doctor_id=$7, nurse_id=$8
        WHERE id=$9`

	cmd, err := r.pool.Exec(ctx, query,
		bed.BedNumber,
		bed.Status,
		bed.Location,
		bed.IsIsolation,
		bed.SpecialEquipment,
		bed.PatientID,
		bed.DoctorID,
		bed.NurseID,
		bed.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bedRepository) GetByID(ctx context.Context, id int64) (*domain.Bed, error) {
	query := `SELECT` + bedColumns + ` FROM beds WHERE id=$1`
	return scanBed(r.pool.QueryRow(ctx, query, id))
}

func (r *bedRepository) List(ctx context.Context, filter BedFilter) ([]domain.Bed, error) {
	query := `SELECT` + bedColumns + ` FROM beds`
	args := []any{}
	clauses := []string{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Location != nil {
		args = append(args, *filter.Location)
		clauses = append(clauses, fmt.Sprintf("location=$%d", len(args)))
	}
	if filter.IsIsolation != nil {
		args = append(args, *filter.IsIsolation)
		clauses = append(clauses, fmt.Sprintf("is_isolation=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY bed_number"
	query += limitOffsetClause(filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Bed
	for rows.Next() {
		bed, err := scanBed(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *bed)
	}
	return result, rows.Err()
}

func (r *bedRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, "beds", id)
}

func scanBed(row pgx.Row) (*domain.Bed, error) {
	var bed domain.Bed
	if err := row.Scan(
		&bed.ID,
		&bed.BedNumber,
		&bed.Status,
		&bed.Location,
		&bed.IsIsolation,
		&bed.SpecialEquipment,
		&bed.LastCleaned,
		&bed.PatientID,
		&bed.DoctorID,
		&bed.NurseID,
	); err != nil {
		return nil, err
	}
	return &bed, nil
}
