package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/emergency-services/internal/domain"
	"github.com/spec-kit/emergency-services/internal/repository"
	util "github.com/spec-kit/emergency-services/pkg/util"
)

// PatientService coordinates patient record workflows. Patients own no
// cross-service references, so no remote validation happens here; this
// service is purely the authoritative side other services validate against.
type PatientService struct {
	patients repository.PatientRepository
	files    repository.PatientFileRepository
}

// PatientDependencies bundles repositories for the patient service.
type PatientDependencies struct {
	PatientRepo     repository.PatientRepository
	PatientFileRepo repository.PatientFileRepository
}

// NewPatientService constructs the service.
func NewPatientService(deps PatientDependencies) *PatientService {
	return &PatientService{patients: deps.PatientRepo, files: deps.PatientFileRepo}
}

// CreatePatient validates and persists a demographic record.
func (s *PatientService) CreatePatient(ctx context.Context, patient *domain.Patient) error {
	details := map[string]any{}
	if strings.TrimSpace(patient.FirstName) == "" {
		details["first_name"] = "required"
	}
	if strings.TrimSpace(patient.LastName) == "" {
		details["last_name"] = "required"
	}
	if !validGender(patient.Gender) {
		details["gender"] = "must be one of M, F, O, U"
	}
	if len(details) > 0 {
		return util.NewValidationError("invalid patient", details)
	}
	return s.patients.Create(ctx, patient)
}

// GetPatient loads one record.
func (s *PatientService) GetPatient(ctx context.Context, id int64) (*domain.Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// ListPatients lists records, optionally filtered by last name.
func (s *PatientService) ListPatients(ctx context.Context, filter repository.PatientFilter) ([]domain.Patient, error) {
	return s.patients.List(ctx, filter)
}

// DeletePatient removes a record and its files via the schema cascade. Any
// visit rows referencing the patient in other services are left dangling;
// reconciliation is explicitly out of scope.
func (s *PatientService) DeletePatient(ctx context.Context, id int64) error {
	return s.patients.Delete(ctx, id)
}

// AttachFile records document metadata for a patient. The patient reference
// here is local, so existence is checked against our own store.
func (s *PatientService) AttachFile(ctx context.Context, file *domain.PatientFile) error {
	if _, err := s.patients.GetByID(ctx, file.PatientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewValidationError("invalid patient file", map[string]any{"patient_id": "patient not found"})
		}
		return err
	}
	if file.StorageKey == "" {
		file.StorageKey = uuid.NewString()
	}
	return s.files.Create(ctx, file)
}

// GetFile loads one file's metadata.
func (s *PatientService) GetFile(ctx context.Context, id int64) (*domain.PatientFile, error) {
	return s.files.GetByID(ctx, id)
}

// ListFiles lists a patient's files.
func (s *PatientService) ListFiles(ctx context.Context, patientID int64) ([]domain.PatientFile, error) {
	return s.files.ListByPatient(ctx, patientID)
}

// DeleteFile removes file metadata.
func (s *PatientService) DeleteFile(ctx context.Context, id int64) error {
	return s.files.Delete(ctx, id)
}

func validGender(g domain.Gender) bool {
	switch g {
	case domain.GenderMale, domain.GenderFemale, domain.GenderOther, domain.GenderUnknown:
		return true
	default:
		return false
	}
}
