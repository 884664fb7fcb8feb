package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/emergency-services/internal/domain"
)

// PatientRepository defines persistence access for patients.
type PatientRepository interface {
	Create(ctx context.Context, patient *domain.Patient) error
	GetByID(ctx context.Context, id int64) (*domain.Patient, error)
	List(ctx context.Context, filter PatientFilter) ([]domain.Patient, error)
	Delete(ctx context.Context, id int64) error
}

// PatientFilter defines query params for patient listing.
type PatientFilter struct {
	LastName *string
	Limit    int
	Offset   int
}

type patientRepository struct {
	pool *pgxpool.Pool
}

// NewPatientRepository returns a Postgres-backed implementation.
func NewPatientRepository(pool *pgxpool.Pool) PatientRepository {
	return &patientRepository{pool: pool}
}

const patientColumns = `
        id, first_name, last_name, date_of_birth, gender, address, phone_number,
        emergency_contact_name, emergency_contact_phone, blood_type, allergies,
        pre_existing_conditions, insurance_info, created_at, updated_at`

func (r *patientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	const query = `
        INSERT INTO patients (
            first_name, last_name, date_of_birth, gender, address, phone_number,
            emergency_contact_name, emergency_contact_phone, blood_type, allergies,
            pre_existing_conditions, insurance_info)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		patient.FirstName,
		patient.LastName,
		patient.DateOfBirth,
		patient.Gender,
		patient.Address,
		patient.PhoneNumber,
		patient.EmergencyContactName,
		patient.EmergencyContactPhone,
		patient.BloodType,
		patient.Allergies,
		patient.PreExistingConditions,
		patient.InsuranceInfo,
	).Scan(&patient.ID, &patient.CreatedAt, &patient.UpdatedAt)
}

func (r *patientRepository) GetByID(ctx context.Context, id int64) (*domain.Patient, error) {
	query := `SELECT` + patientColumns + ` FROM patients WHERE id=$1`

	var patient domain.Patient
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&patient.ID,
		&patient.FirstName,
		&patient.LastName,
		&patient.DateOfBirth,
		&patient.Gender,
		&patient.Address,
		&patient.PhoneNumber,
		&patient.EmergencyContactName,
		&patient.EmergencyContactPhone,
		&patient.BloodType,
		&patient.Allergies,
		&patient.PreExistingConditions,
		&patient.InsuranceInfo,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, filter PatientFilter) ([]domain.Patient, error) {
	query := `SELECT` + patientColumns + ` FROM patients`
	args := []any{}

	if filter.LastName != nil {
		args = append(args, "%"+*filter.LastName+"%")
		query += " WHERE last_name ILIKE $1"
	}

	query += " ORDER BY last_name, first_name"
	query += limitOffsetClause(filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Patient
	for rows.Next() {
		var patient domain.Patient
		if err := rows.Scan(
			&patient.ID,
			&patient.FirstName,
			&patient.LastName,
			&patient.DateOfBirth,
			&patient.Gender,
			&patient.Address,
			&patient.PhoneNumber,
			&patient.EmergencyContactName,
			&patient.EmergencyContactPhone,
			&patient.BloodType,
			&patient.Allergies,
			&patient.PreExistingConditions,
			&patient.InsuranceInfo,
			&patient.CreatedAt,
			&patient.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, patient)
	}
	return result, rows.Err()
}

func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
