package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/emergency-services/internal/domain"
	"github.com/spec-kit/emergency-services/internal/repository"
	util "github.com/spec-kit/emergency-services/pkg/util"
)

type fakePatientRepo struct {
	byID   map[int64]*domain.Patient
	nextID int64
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{byID: map[int64]*domain.Patient{}, nextID: 1}
}

func (r *fakePatientRepo) Create(ctx context.Context, patient *domain.Patient) error {
	patient.ID = r.nextID
	r.nextID++
	clone := *patient
	r.byID[patient.ID] = &clone
	return nil
}

func (r *fakePatientRepo) GetByID(ctx context.Context, id int64) (*domain.Patient, error) {
	patient, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *patient
	return &clone, nil
}

func (r *fakePatientRepo) List(ctx context.Context, filter repository.PatientFilter) ([]domain.Patient, error) {
	out := make([]domain.Patient, 0, len(r.byID))
	for _, patient := range r.byID {
		out = append(out, *patient)
	}
	return out, nil
}

func (r *fakePatientRepo) Delete(ctx context.Context, id int64) error {
	delete(r.byID, id)
	return nil
}

type fakePatientFileRepo struct {
	created []domain.PatientFile
}

func (r *fakePatientFileRepo) Create(ctx context.Context, file *domain.PatientFile) error {
	file.ID = int64(len(r.created) + 1)
	r.created = append(r.created, *file)
	return nil
}

func (r *fakePatientFileRepo) GetByID(ctx context.Context, id int64) (*domain.PatientFile, error) {
	for _, file := range r.created {
		if file.ID == id {
			clone := file
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakePatientFileRepo) ListByPatient(ctx context.Context, patientID int64) ([]domain.PatientFile, error) {
	var out []domain.PatientFile
	for _, file := range r.created {
		if file.PatientID == patientID {
			out = append(out, file)
		}
	}
	return out, nil
}

func (r *fakePatientFileRepo) Delete(ctx context.Context, id int64) error { return nil }

func newPatientFixture() (*PatientService, *fakePatientRepo, *fakePatientFileRepo) {
	patients := newFakePatientRepo()
	files := &fakePatientFileRepo{}
	svc := NewPatientService(PatientDependencies{PatientRepo: patients, PatientFileRepo: files})
	return svc, patients, files
}

func newPatient() *domain.Patient {
	return &domain.Patient{
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		Gender:      domain.GenderFemale,
	}
}

func TestCreatePatient(t *testing.T) {
	svc, repo, _ := newPatientFixture()

	patient := newPatient()
	require.NoError(t, svc.CreatePatient(context.Background(), patient))
	assert.NotZero(t, patient.ID)
	assert.Len(t, repo.byID, 1)
}

func TestCreatePatientMissingNames(t *testing.T) {
	svc, repo, _ := newPatientFixture()

	patient := newPatient()
	patient.FirstName = " "
	patient.LastName = ""

	err := svc.CreatePatient(context.Background(), patient)
	require.Error(t, err)

	domainErr := util.ToDomainError(err)
	assert.Contains(t, domainErr.Details, "first_name")
	assert.Contains(t, domainErr.Details, "last_name")
	assert.Empty(t, repo.byID)
}

func TestCreatePatientInvalidGender(t *testing.T) {
	svc, _, _ := newPatientFixture()

	patient := newPatient()
	patient.Gender = "X"

	err := svc.CreatePatient(context.Background(), patient)
	require.Error(t, err)
	assert.Contains(t, util.ToDomainError(err).Details, "gender")
}

func TestAttachFileRequiresPatient(t *testing.T) {
	svc, _, files := newPatientFixture()

	err := svc.AttachFile(context.Background(), &domain.PatientFile{
		PatientID:   99,
		FileName:    "scan.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", util.ToDomainError(err).Code)
	assert.Empty(t, files.created)
}

func TestAttachFileAssignsStorageKey(t *testing.T) {
	svc, _, files := newPatientFixture()

	patient := newPatient()
	require.NoError(t, svc.CreatePatient(context.Background(), patient))

	file := &domain.PatientFile{
		PatientID:   patient.ID,
		FileName:    "scan.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
	}
	require.NoError(t, svc.AttachFile(context.Background(), file))
	assert.NotEmpty(t, file.StorageKey)
	require.Len(t, files.created, 1)

	listed, err := svc.ListFiles(context.Background(), patient.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
