package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/emergency-services/internal/domain"
)

// NurseRepository handles persistence for nurse profiles.
type NurseRepository interface {
	Create(ctx context.Context, nurse *domain.Nurse) error
	Update(ctx context.Context, nurse *domain.Nurse) error
	GetByID(ctx context.Context, id int64) (*domain.Nurse, error)
	List(ctx context.Context, filter ClinicianFilter) ([]domain.Nurse, error)
	Delete(ctx context.Context, id int64) error
}

type nurseRepository struct {
	pool *pgxpool.Pool
}

// NewNurseRepository instantiates the repository.
func NewNurseRepository(pool *pgxpool.Pool) NurseRepository {
	return &nurseRepository{pool: pool}
}

const nurseColumns = `
        id, user_id, date_of_birth, gender, address, phone_number, badge_number,
        days_off, work_unit, license_number, certification`

func (r *nurseRepository) Create(ctx context.Context, nurse *domain.Nurse) error {
	const query = `
        INSERT INTO nurses (user_id, date_of_birth, gender, address, phone_number,
            badge_number, days_off, work_unit, license_number, certification)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id`

	return r.pool.QueryRow(ctx, query,
		nurse.UserID,
		nurse.DateOfBirth,
		nurse.Gender,
		nurse.Address,
		nurse.PhoneNumber,
		nurse.BadgeNumber,
		nurse.DaysOff,
		nurse.WorkUnit,
		nurse.LicenseNumber,
		nurse.Certification,
	).Scan(&nurse.ID)
}

func (r *nurseRepository) Update(ctx context.Context, nurse *domain.Nurse) error {
	const query = `
        UPDATE nurses SET user_id=$1, date_of_birth=$2, gender=$3, address=$4,
            phone_number=$5, badge_number=$6, days_off=$7, work_unit=$8,
            license_number=$9, certification=$10
        WHERE id=$11`

	cmd, err := r.pool.Exec(ctx, query,
		nurse.UserID,
		nurse.DateOfBirth,
		nurse.Gender,
		nurse.Address,
		nurse.PhoneNumber,
		nurse.BadgeNumber,
		nurse.DaysOff,
		nurse.WorkUnit,
		nurse.LicenseNumber,
		nurse.Certification,
		nurse.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *nurseRepository) GetByID(ctx context.Context, id int64) (*domain.Nurse, error) {
	query := `SELECT` + nurseColumns + ` FROM nurses WHERE id=$1`

	var nurse domain.Nurse
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&nurse.ID,
		&nurse.UserID,
		&nurse.DateOfBirth,
		&nurse.Gender,
		&nurse.Address,
		&nurse.PhoneNumber,
		&nurse.BadgeNumber,
		&nurse.DaysOff,
		&nurse.WorkUnit,
		&nurse.LicenseNumber,
		&nurse.Certification,
	); err != nil {
		return nil, err
	}
	return &nurse, nil
}

func (r *nurseRepository) List(ctx context.Context, filter ClinicianFilter) ([]domain.Nurse, error) {
	query := `SELECT` + nurseColumns + ` FROM nurses`
	args := []any{}
	clauses := []string{}

	if filter.WorkUnit != nil {
		args = append(args, *filter.WorkUnit)
		clauses = append(clauses, fmt.Sprintf("work_unit=$%d", len(args)))
	}
	if filter.BadgeNumber != nil {
		args = append(args, *filter.BadgeNumber)
		clauses = append(clauses, fmt.Sprintf("badge_number=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY badge_number"
	query += limitOffsetClause(filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Nurse
	for rows.Next() {
		var nurse domain.Nurse
		if err := rows.Scan(
			&nurse.ID,
			&nurse.UserID,
			&nurse.DateOfBirth,
			&nurse.Gender,
			&nurse.Address,
			&nurse.PhoneNumber,
			&nurse.BadgeNumber,
			&nurse.DaysOff,
			&nurse.WorkUnit,
			&nurse.LicenseNumber,
			&nurse.Certification,
		); err != nil {
			return nil, err
		}
		result = append(result, nurse)
	}
	return result, rows.Err()
}

func (r *nurseRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM nurses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
