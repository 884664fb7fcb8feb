package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/emergency-services/internal/domain"
)

// PatientFileRepository stores document metadata attached to patients.
type PatientFileRepository interface {
	Create(ctx context.Context, file *domain.PatientFile) error
	GetByID(ctx context.Context, id int64) (*domain.PatientFile, error)
	ListByPatient(ctx context.Context, patientID int64) ([]domain.PatientFile, error)
	Delete(ctx context.Context, id int64) error
}

type patientFileRepository struct {
	pool *pgxpool.Pool
}

// NewPatientFileRepository returns a Postgres-backed implementation.
func NewPatientFileRepository(pool *pgxpool.Pool) PatientFileRepository {
	return &patientFileRepository{pool: pool}
}

func (r *patientFileRepository) Create(ctx context.Context, file *domain.PatientFile) error {
	const query = `
        INSERT INTO patient_files (patient_id, file_name, content_type, size_bytes, storage_key)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, uploaded_at`

	return r.pool.QueryRow(ctx, query,
		file.PatientID,
		file.FileName,
		file.ContentType,
		file.SizeBytes,
		file.StorageKey,
	).Scan(&file.ID, &file.UploadedAt)
}

func (r *patientFileRepository) GetByID(ctx context.Context, id int64) (*domain.PatientFile, error) {
	const query = `
        SELECT id, patient_id, file_name, content_type, size_bytes, storage_key, uploaded_at
        FROM patient_files WHERE id=$1`

	var file domain.PatientFile
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&file.ID,
		&file.PatientID,
		&file.FileName,
		&file.ContentType,
		&file.SizeBytes,
		&file.StorageKey,
		&file.UploadedAt,
	); err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *patientFileRepository) ListByPatient(ctx context.Context, patientID int64) ([]domain.PatientFile, error) {
	const query = `
        SELECT id, patient_id, file_name, content_type, size_bytes, storage_key, uploaded_at
        FROM patient_files WHERE patient_id=$1 ORDER BY uploaded_at DESC`

	rows, err := r.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PatientFile
	for rows.Next() {
		var file domain.PatientFile
		if err := rows.Scan(
			&file.ID,
			&file.PatientID,
			&file.FileName,
			&file.ContentType,
			&file.SizeBytes,
			&file.StorageKey,
			&file.UploadedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, file)
	}
	return result, rows.Err()
}

func (r *patientFileRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM patient_files WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
