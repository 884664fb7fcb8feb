package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/emergency-services/internal/domain"
)

// DoctorRepository handles persistence for physician profiles.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *domain.Doctor) error
	Update(ctx context.Context, doctor *domain.Doctor) error
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
	List(ctx context.Context, filter ClinicianFilter) ([]domain.Doctor, error)
	Delete(ctx context.Context, id int64) error
}

// ClinicianFilter defines query params shared by doctor and nurse listings.
type ClinicianFilter struct {
	WorkUnit    *domain.WorkUnit
	BadgeNumber *string
	Limit       int
	Offset      int
}

type doctorRepository struct {
	pool *pgxpool.Pool
}

// NewDoctorRepository instantiates the repository.
func NewDoctorRepository(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepository{pool: pool}
}

const doctorColumns = `
        id, user_id, date_of_birth, gender, address, phone_number, badge_number,
        days_off, work_unit, specialization, license_number`

func (r *doctorRepository) Create(ctx context.Context, doctor *domain.Doctor) error {
	const query = `
        INSERT INTO doctors (user_id, date_of_birth, gender, address, phone_number,
            badge_number, days_off, work_unit, specialization, license_number)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id`

	return r.pool.QueryRow(ctx, query,
		doctor.UserID,
		doctor.DateOfBirth,
		doctor.Gender,
		doctor.Address,
		doctor.PhoneNumber,
		doctor.BadgeNumber,
		doctor.DaysOff,
		doctor.WorkUnit,
		doctor.Specialization,
		doctor.LicenseNumber,
	).Scan(&doctor.ID)
}

func (r *doctorRepository) Update(ctx context.Context, doctor *domain.Doctor) error {
	const query = `
        UPDATE doctors SET user_id=$1, date_of_birth=$2, gender=$3, address=$4,
            phone_number=$5, badge_number=$6, days_off=$7, work_unit=$8,
            specialization=$9, license_number=$10
        WHERE id=$11`

	cmd, err := r.pool.Exec(ctx, query,
		doctor.UserID,
		doctor.DateOfBirth,
		doctor.Gender,
		doctor.Address,
		doctor.PhoneNumber,
		doctor.BadgeNumber,
		doctor.DaysOff,
		doctor.WorkUnit,
		doctor.Specialization,
		doctor.LicenseNumber,
		doctor.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *doctorRepository) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	query := `SELECT` + doctorColumns + ` FROM doctors WHERE id=$1`

	var doctor domain.Doctor
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&doctor.ID,
		&doctor.UserID,
		&doctor.DateOfBirth,
		&doctor.Gender,
		&doctor.Address,
		&doctor.PhoneNumber,
		&doctor.BadgeNumber,
		&doctor.DaysOff,
		&doctor.WorkUnit,
		&doctor.Specialization,
		&doctor.LicenseNumber,
	); err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context, filter ClinicianFilter) ([]domain.Doctor, error) {
	query := `SELECT` + doctorColumns + ` FROM doctors`
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

	var result []domain.Doctor
	for rows.Next() {
		var doctor domain.Doctor
		if err := rows.Scan(
			&doctor.ID,
			&doctor.UserID,
			&doctor.DateOfBirth,
			&doctor.Gender,
			&doctor.Address,
			&doctor.PhoneNumber,
			&doctor.BadgeNumber,
			&doctor.DaysOff,
			&doctor.WorkUnit,
			&doctor.Specialization,
			&doctor.LicenseNumber,
		); err != nil {
			return nil, err
		}
		result = append(result, doctor)
	}
	return result, rows.Err()
}

func (r *doctorRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM doctors WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
