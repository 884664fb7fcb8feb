package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/emergency-services/internal/domain"
)

// The clinical child repositories below share shape: each row belongs to a
// visit and is removed with it by the schema-level cascade.

// VitalSignRepository handles persistence for vital sign measurements.
type VitalSignRepository interface {
	Create(ctx context.Context, vs *domain.VitalSign) error
	GetByID(ctx context.Context, id int64) (*domain.VitalSign, error)
	ListByVisit(ctx context.Context, visitID int64) ([]domain.VitalSign, error)
	Delete(ctx context.Context, id int64) error
}

type vitalSignRepository struct {
	pool *pgxpool.Pool
}

// NewVitalSignRepository instantiates the repository.
func NewVitalSignRepository(pool *pgxpool.Pool) VitalSignRepository {
	return &vitalSignRepository{pool: pool}
}

const vitalSignColumns = `
        id, visit_id, recorded_by_id, recorded_at, temperature, heart_rate,
        blood_pressure_systolic, blood_pressure_diastolic, respiratory_rate,
        oxygen_saturation, pain_level, gcs_score, notes`

func (r *vitalSignRepository) Create(ctx context.Context, vs *domain.VitalSign) error {
	const query = `
        INSERT INTO vital_signs (visit_id, recorded_by_id, temperature, heart_rate,
            blood_pressure_systolic, blood_pressure_diastolic, respiratory_rate,
            oxygen_saturation, pain_level, gcs_score, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, recorded_at`

	return r.pool.QueryRow(ctx, query,
		vs.VisitID,
		vs.RecordedByID,
		vs.Temperature,
		vs.HeartRate,
		vs.BloodPressureSystolic,
		vs.BloodPressureDiastolic,
		vs.RespiratoryRate,
		vs.OxygenSaturation,
		vs.PainLevel,
		vs.GCSScore,
		vs.Notes,
	).Scan(&vs.ID, &vs.RecordedAt)
}

func (r *vitalSignRepository) GetByID(ctx context.Context, id int64) (*domain.VitalSign, error) {
	query := `SELECT` + vitalSignColumns + ` FROM vital_signs WHERE id=$1`
	return scanVitalSign(r.pool.QueryRow(ctx, query, id))
}

func (r *vitalSignRepository) ListByVisit(ctx context.Context, visitID int64) ([]domain.VitalSign, error) {
	query := `SELECT` + vitalSignColumns + ` FROM vital_signs WHERE visit_id=$1 ORDER BY recorded_at DESC`

	rows, err := r.pool.Query(ctx, query, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.VitalSign
	for rows.Next() {
		vs, err := scanVitalSign(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *vs)
	}
	return result, rows.Err()
}

func (r *vitalSignRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, "vital_signs", id)
}

func scanVitalSign(row pgx.Row) (*domain.VitalSign, error) {
	var vs domain.VitalSign
	if err := row.Scan(
		&vs.ID,
		&vs.VisitID,
		&vs.RecordedByID,
		&vs.RecordedAt,
		&vs.Temperature,
		&vs.HeartRate,
		&vs.BloodPressureSystolic,
		&vs.BloodPressureDiastolic,
		&vs.RespiratoryRate,
		&vs.OxygenSaturation,
		&vs.PainLevel,
		&vs.GCSScore,
		&vs.Notes,
	); err != nil {
		return nil, err
	}
	return &vs, nil
}

// TreatmentRepository handles persistence for treatments.
type TreatmentRepository interface {
	Create(ctx context.Context, t *domain.Treatment) error
	GetByID(ctx context.Context, id int64) (*domain.Treatment, error)
	ListByVisit(ctx context.Context, visitID int64) ([]domain.Treatment, error)
	Delete(ctx context.Context, id int64) error
}

type treatmentRepository struct {
	pool *pgxpool.Pool
}

// NewTreatmentRepository instantiates the repository.
func NewTreatmentRepository(pool *pgxpool.Pool) TreatmentRepository {
	return &treatmentRepository{pool: pool}
}

const treatmentColumns = `
        id, visit_id, treatment_type, name, description, administered_by_id,
        administered_at, dosage, outcome, complications`

func (r *treatmentRepository) Create(ctx context.Context, t *domain.Treatment) error {
	const query = `
        INSERT INTO treatments (visit_id, treatment_type, name, description,
            administered_by_id, dosage, outcome, complications)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, administered_at`

	return r.pool.QueryRow(ctx, query,
		t.VisitID,
		t.TreatmentType,
		t.Name,
		t.Description,
		t.AdministeredByID,
		t.Dosage,
		t.Outcome,
		t.Complications,
	).Scan(&t.ID, &t.AdministeredAt)
}

func (r *treatmentRepository) GetByID(ctx context.Context, id int64) (*domain.Treatment, error) {
	query := `SELECT` + treatmentColumns + ` FROM treatments WHERE id=$1`
	return scanTreatment(r.pool.QueryRow(ctx, query, id))
}

func (r *treatmentRepository) ListByVisit(ctx context.Context, visitID int64) ([]domain.Treatment, error) {
	query := `SELECT` + treatmentColumns + ` FROM treatments WHERE visit_id=$1 ORDER BY administered_at DESC`

	rows, err := r.pool.Query(ctx, query, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Treatment
	for rows.Next() {
		t, err := scanTreatment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

func (r *treatmentRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, "treatments", id)
}

func scanTreatment(row pgx.Row) (*domain.Treatment, error) {
	var t domain.Treatment
	if err := row.Scan(
		&t.ID,
		&t.VisitID,
		&t.TreatmentType,
		&t.Name,
		&t.Description,
		&t.AdministeredByID,
		&t.AdministeredAt,
		&t.Dosage,
		&t.Outcome,
		&t.Complications,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

// DiagnosisRepository handles persistence for diagnoses.
type DiagnosisRepository interface {
	Create(ctx context.Context, d *domain.Diagnosis) error
	GetByID(ctx context.Context, id int64) (*domain.Diagnosis, error)
	ListByVisit(ctx context.Context, visitID int64) ([]domain.Diagnosis, error)
	Delete(ctx context.Context, id int64) error
}

type diagnosisRepository struct {
	pool *pgxpool.Pool
}

// NewDiagnosisRepository instantiates the repository.
func NewDiagnosisRepository(pool *pgxpool.Pool) DiagnosisRepository {
	return &diagnosisRepository{pool: pool}
}

const diagnosisColumns = `
        id, visit_id, code, description, diagnosed_by_id, diagnosed_at, is_primary, notes`

func (r *diagnosisRepository) Create(ctx context.Context, d *domain.Diagnosis) error {
	const query = `
        INSERT INTO diagnoses (visit_id, code, description, diagnosed_by_id, is_primary, notes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, diagnosed_at`

	return r.pool.QueryRow(ctx, query,
		d.VisitID,
		d.Code,
		d.Description,
		d.DiagnosedByID,
		d.IsPrimary,
		d.Notes,
	).Scan(&d.ID, &d.DiagnosedAt)
}

func (r *diagnosisRepository) GetByID(ctx context.Context, id int64) (*domain.Diagnosis, error) {
	query := `SELECT` + diagnosisColumns + ` FROM diagnoses WHERE id=$1`
	return scanDiagnosis(r.pool.QueryRow(ctx, query, id))
}

func (r *diagnosisRepository) ListByVisit(ctx context.Context, visitID int64) ([]domain.Diagnosis, error) {
	query := `SELECT` + diagnosisColumns + ` FROM diagnoses WHERE visit_id=$1 ORDER BY diagnosed_at DESC`

	rows, err := r.pool.Query(ctx, query, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Diagnosis
	for rows.Next() {
		d, err := scanDiagnosis(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	return result, rows.Err()
}

func (r *diagnosisRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, "diagnoses", id)
}

func scanDiagnosis(row pgx.Row) (*domain.Diagnosis, error) {
	var d domain.Diagnosis
	if err := row.Scan(
		&d.ID,
		&d.VisitID,
		&d.Code,
		&d.Description,
		&d.DiagnosedByID,
		&d.DiagnosedAt,
		&d.IsPrimary,
		&d.Notes,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// PrescriptionRepository handles persistence for prescriptions.
type PrescriptionRepository interface {
	Create(ctx context.Context, p *domain.Prescription) error
	GetByID(ctx context.Context, id int64) (*domain.Prescription, error)
	ListByVisit(ctx context.Context, visitID int64) ([]domain.Prescription, error)
	Delete(ctx context.Context, id int64) error
}

type prescriptionRepository struct {
	pool *pgxpool.Pool
}

// NewPrescriptionRepository instantiates the repository.
func NewPrescriptionRepository(pool *pgxpool.Pool) PrescriptionRepository {
	return &prescriptionRepository{pool: pool}
}

const prescriptionColumns = `
        id, visit_id, medication, dosage, frequency, duration, prescribed_by_id,
        prescribed_at, instructions, is_dispensed, refills`

func (r *prescriptionRepository) Create(ctx context.Context, p *domain.Prescription) error {
	const query = `
        INSERT INTO prescriptions (visit_id, medication, dosage, frequency, duration,
            prescribed_by_id, instructions, is_dispensed, refills)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, prescribed_at`

	return r.pool.QueryRow(ctx, query,
		p.VisitID,
		p.Medication,
		p.Dosage,
		p.Frequency,
		p.Duration,
		p.PrescribedByID,
		p.Instructions,
		p.IsDispensed,
		p.Refills,
	).Scan(&p.ID, &p.PrescribedAt)
}

func (r *prescriptionRepository) GetByID(ctx context.Context, id int64) (*domain.Prescription, error) {
	query := `SELECT` + prescriptionColumns + ` FROM prescriptions WHERE id=$1`
	return scanPrescription(r.pool.QueryRow(ctx, query, id))
}

func (r *prescriptionRepository) ListByVisit(ctx context.Context, visitID int64) ([]domain.Prescription, error) {
	query := `SELECT` + prescriptionColumns + ` FROM prescriptions WHERE visit_id=$1 ORDER BY prescribed_at DESC`

	rows, err := r.pool.Query(ctx, query, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (r *prescriptionRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, "prescriptions", id)
}

func scanPrescription(row pgx.Row) (*domain.Prescription, error) {
	var p domain.Prescription
	if err := row.Scan(
		&p.ID,
		&p.VisitID,
		&p.Medication,
		&p.Dosage,
		&p.Frequency,
		&p.Duration,
		&p.PrescribedByID,
		&p.PrescribedAt,
		&p.Instructions,
		&p.IsDispensed,
		&p.Refills,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func deleteByID(ctx context.Context, pool *pgxpool.Pool, table string, id int64) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM `+table+` WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
