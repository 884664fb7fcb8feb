package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/emergency-services/internal/config"
	"github.com/spec-kit/emergency-services/internal/domain"
	"github.com/spec-kit/emergency-services/internal/events"
	"github.com/spec-kit/emergency-services/internal/observability"
	"github.com/spec-kit/emergency-services/internal/remote"
	"github.com/spec-kit/emergency-services/internal/repository"
	util "github.com/spec-kit/emergency-services/pkg/util"
)

type fakeVisitRepo struct {
	byID   map[int64]*domain.EmergencyVisit
	nextID int64
}

func newFakeVisitRepo() *fakeVisitRepo {
	return &fakeVisitRepo{byID: map[int64]*domain.EmergencyVisit{}, nextID: 1}
}

func (r *fakeVisitRepo) Create(ctx context.Context, visit *domain.EmergencyVisit) error {
	visit.ID = r.nextID
	r.nextID++
	if visit.ArrivalTime.IsZero() {
		visit.ArrivalTime = time.Now().UTC()
	}
	clone := *visit
	r.byID[visit.ID] = &clone
	return nil
}

func (r *fakeVisitRepo) Update(ctx context.Context, visit *domain.EmergencyVisit) error {
	if _, ok := r.byID[visit.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *visit
	r.byID[visit.ID] = &clone
	return nil
}

func (r *fakeVisitRepo) GetByID(ctx context.Context, id int64) (*domain.EmergencyVisit, error) {
	visit, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *visit
	return &clone, nil
}

func (r *fakeVisitRepo) List(ctx context.Context, filter repository.VisitFilter) ([]domain.EmergencyVisit, error) {
	out := make([]domain.EmergencyVisit, 0, len(r.byID))
	for _, visit := range r.byID {
		out = append(out, *visit)
	}
	return out, nil
}

func (r *fakeVisitRepo) Delete(ctx context.Context, id int64) error {
	delete(r.byID, id)
	return nil
}

type fakeVitalSignRepo struct {
	created []domain.VitalSign
}

func (r *fakeVitalSignRepo) Create(ctx context.Context, vs *domain.VitalSign) error {
	vs.ID = int64(len(r.created) + 1)
	r.created = append(r.created, *vs)
	return nil
}

func (r *fakeVitalSignRepo) GetByID(ctx context.Context, id int64) (*domain.VitalSign, error) {
	for _, vs := range r.created {
		if vs.ID == id {
			clone := vs
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeVitalSignRepo) ListByVisit(ctx context.Context, visitID int64) ([]domain.VitalSign, error) {
	var out []domain.VitalSign
	for _, vs := range r.created {
		if vs.VisitID == visitID {
			out = append(out, vs)
		}
	}
	return out, nil
}

func (r *fakeVitalSignRepo) Delete(ctx context.Context, id int64) error { return nil }

type fakeTreatmentRepo struct {
	created []domain.Treatment
}

func (r *fakeTreatmentRepo) Create(ctx context.Context, t *domain.Treatment) error {
	t.ID = int64(len(r.created) + 1)
	r.created = append(r.created, *t)
	return nil
}

func (r *fakeTreatmentRepo) GetByID(ctx context.Context, id int64) (*domain.Treatment, error) {
	return nil, pgx.ErrNoRows
}

func (r *fakeTreatmentRepo) ListByVisit(ctx context.Context, visitID int64) ([]domain.Treatment, error) {
	return r.created, nil
}

func (r *fakeTreatmentRepo) Delete(ctx context.Context, id int64) error { return nil }

type fakeDiagnosisRepo struct {
	created []domain.Diagnosis
}

func (r *fakeDiagnosisRepo) Create(ctx context.Context, d *domain.Diagnosis) error {
	d.ID = int64(len(r.created) + 1)
	r.created = append(r.created, *d)
	return nil
}

func (r *fakeDiagnosisRepo) GetByID(ctx context.Context, id int64) (*domain.Diagnosis, error) {
	return nil, pgx.ErrNoRows
}

func (r *fakeDiagnosisRepo) ListByVisit(ctx context.Context, visitID int64) ([]domain.Diagnosis, error) {
	return r.created, nil
}

func (r *fakeDiagnosisRepo) Delete(ctx context.Context, id int64) error { return nil }

type fakePrescriptionRepo struct {
	created []domain.Prescription
}

func (r *fakePrescriptionRepo) Create(ctx context.Context, p *domain.Prescription) error {
	p.ID = int64(len(r.created) + 1)
	r.created = append(r.created, *p)
	return nil
}

func (r *fakePrescriptionRepo) GetByID(ctx context.Context, id int64) (*domain.Prescription, error) {
	return nil, pgx.ErrNoRows
}

func (r *fakePrescriptionRepo) ListByVisit(ctx context.Context, visitID int64) ([]domain.Prescription, error) {
	return r.created, nil
}

func (r *fakePrescriptionRepo) Delete(ctx context.Context, id int64) error { return nil }

type fakeBedRepo struct {
	byID   map[int64]*domain.Bed
	nextID int64
}

func newFakeBedRepo() *fakeBedRepo {
	return &fakeBedRepo{byID: map[int64]*domain.Bed{}, nextID: 1}
}

func (r *fakeBedRepo) Create(ctx context.Context, bed *domain.Bed) error {
	bed.ID = r.nextID
	r.nextID++
	clone := *bed
	r.byID[bed.ID] = &clone
	return nil
}

func (r *fakeBedRepo) Update(ctx context.Context, bed *domain.Bed) error {
	if _, ok := r.byID[bed.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *bed
	r.byID[bed.ID] = &clone
	return nil
}

func (r *fakeBedRepo) GetByID(ctx context.Context, id int64) (*domain.Bed, error) {
	bed, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *bed
	return &clone, nil
}

func (r *fakeBedRepo) List(ctx context.Context, filter repository.BedFilter) ([]domain.Bed, error) {
	out := make([]domain.Bed, 0, len(r.byID))
	for _, bed := range r.byID {
		out = append(out, *bed)
	}
	return out, nil
}

func (r *fakeBedRepo) Delete(ctx context.Context, id int64) error {
	delete(r.byID, id)
	return nil
}

type fakeAdmissionRepo struct {
	byID   map[int64]*domain.Admission
	nextID int64
}

func newFakeAdmissionRepo() *fakeAdmissionRepo {
	return &fakeAdmissionRepo{byID: map[int64]*domain.Admission{}, nextID: 1}
}

func (r *fakeAdmissionRepo) Create(ctx context.Context, admission *domain.Admission) error {
	admission.ID = r.nextID
	r.nextID++
	if admission.AdmissionTime.IsZero() {
		admission.AdmissionTime = time.Now().UTC()
	}
	clone := *admission
	r.byID[admission.ID] = &clone
	return nil
}

func (r *fakeAdmissionRepo) Update(ctx context.Context, admission *domain.Admission) error {
	if _, ok := r.byID[admission.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *admission
	r.byID[admission.ID] = &clone
	return nil
}

func (r *fakeAdmissionRepo) GetByID(ctx context.Context, id int64) (*domain.Admission, error) {
	admission, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *admission
	return &clone, nil
}

func (r *fakeAdmissionRepo) GetByVisit(ctx context.Context, visitID int64) (*domain.Admission, error) {
	for _, admission := range r.byID {
		if admission.VisitID == visitID {
			clone := *admission
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAdmissionRepo) List(ctx context.Context, limit, offset int) ([]domain.Admission, error) {
	out := make([]domain.Admission, 0, len(r.byID))
	for _, admission := range r.byID {
		out = append(out, *admission)
	}
	return out, nil
}

func (r *fakeAdmissionRepo) Delete(ctx context.Context, id int64) error {
	delete(r.byID, id)
	return nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *recordingDispatcher) ofType(eventType events.EventType) []events.Event {
	var out []events.Event
	for _, event := range d.published {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

// lookupServer serves GET {prefix}/{resource}/{id}/ with a per-path status
// override, defaulting to 200.
func lookupServer(t *testing.T, statuses map[string]int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status, ok := statuses[r.URL.Path]; ok {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	t.Cleanup(server.Close)
	return server
}

type visitFixture struct {
	service       *VisitService
	visits        *fakeVisitRepo
	vitals        *fakeVitalSignRepo
	treatments    *fakeTreatmentRepo
	diagnoses     *fakeDiagnosisRepo
	prescriptions *fakePrescriptionRepo
	beds          *fakeBedRepo
	admissions    *fakeAdmissionRepo
	dispatcher    *recordingDispatcher
}

func newVisitFixture(t *testing.T, patientStatuses, staffStatuses, authStatuses map[string]int) *visitFixture {
	t.Helper()

	patientServer := lookupServer(t, patientStatuses)
	staffServer := lookupServer(t, staffStatuses)
	authServer := lookupServer(t, authStatuses)

	cfg := config.Config{
		Services: config.ServicesConfig{
			PatientBaseURL: patientServer.URL + "/api",
			StaffBaseURL:   staffServer.URL + "/api",
			AuthBaseURL:    authServer.URL + "/api/auth",
		},
	}

	validator := remote.NewValidator(
		remote.NewLookupClient(zap.NewNop(), observability.NewMetrics()),
		2*time.Second,
	)

	f := &visitFixture{
		visits:        newFakeVisitRepo(),
		vitals:        &fakeVitalSignRepo{},
		treatments:    &fakeTreatmentRepo{},
		diagnoses:     &fakeDiagnosisRepo{},
		prescriptions: &fakePrescriptionRepo{},
		beds:          newFakeBedRepo(),
		admissions:    newFakeAdmissionRepo(),
		dispatcher:    &recordingDispatcher{},
	}
	f.service = NewVisitService(cfg, VisitDependencies{
		VisitRepo:        f.visits,
		VitalSignRepo:    f.vitals,
		TreatmentRepo:    f.treatments,
		DiagnosisRepo:    f.diagnoses,
		PrescriptionRepo: f.prescriptions,
		BedRepo:          f.beds,
		AdmissionRepo:    f.admissions,
		Validator:        validator,
		Dispatcher:       f.dispatcher,
		Logger:           zap.NewNop(),
	})
	return f
}

func testActor() events.Actor {
	id := int64(9)
	return events.Actor{UserID: &id, Username: "triage"}
}

func newVisit(patientID int64) *domain.EmergencyVisit {
	return &domain.EmergencyVisit{
		PatientID:      patientID,
		TriageLevel:    domain.TriageUrgent,
		ChiefComplaint: "chest pain",
	}
}

func TestRegisterVisitPublishesEvent(t *testing.T) {
	f := newVisitFixture(t, nil, nil, nil)

	visit := newVisit(12)
	physician := int64(4)
	visit.AttendingPhysicianID = &physician

	err := f.service.RegisterVisit(context.Background(), "tok", testActor(), visit)
	require.NoError(t, err)
	assert.NotZero(t, visit.ID)
	assert.Len(t, f.visits.byID, 1)

	published := f.dispatcher.ofType(events.EventVisitRegistered)
	require.Len(t, published, 1)
	assert.NotEmpty(t, published[0].ID)
	assert.Equal(t, "triage", published[0].Actor.Username)

	payload, ok := published[0].Payload.(events.VisitRegisteredPayload)
	require.True(t, ok)
	assert.Equal(t, visit.ID, payload.VisitID)
	assert.Equal(t, int64(12), payload.PatientID)
	assert.Equal(t, domain.TriageUrgent, payload.TriageLevel)
}

func TestRegisterVisitUnknownPatient(t *testing.T) {
	f := newVisitFixture(t, map[string]int{"/api/patients/42/": http.StatusNotFound}, nil, nil)

	err := f.service.RegisterVisit(context.Background(), "tok", testActor(), newVisit(42))
	require.Error(t, err)

	domainErr := util.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Equal(t, "patient with ID 42 not found", domainErr.Details["patient_id"])
	assert.Empty(t, f.visits.byID)
	assert.Empty(t, f.dispatcher.published)
}

func TestRegisterVisitAggregatesReferenceFailures(t *testing.T) {
	f := newVisitFixture(t,
		map[string]int{"/api/patients/42/": http.StatusNotFound},
		map[string]int{"/api/doctors/7/": http.StatusInternalServerError},
		nil,
	)

	visit := newVisit(42)
	physician := int64(7)
	visit.AttendingPhysicianID = &physician

	err := f.service.RegisterVisit(context.Background(), "tok", testActor(), visit)
	require.Error(t, err)

	domainErr := util.ToDomainError(err)
	require.NotNil(t, domainErr.Details)
	assert.Len(t, domainErr.Details, 2)
	assert.Equal(t, "patient with ID 42 not found", domainErr.Details["patient_id"])
	assert.Equal(t, "error (500) while validating doctor with ID 7", domainErr.Details["attending_physician_id"])
	assert.Empty(t, f.visits.byID)
}

func TestRegisterVisitRejectsInvalidTriage(t *testing.T) {
	f := newVisitFixture(t, nil, nil, nil)

	visit := newVisit(1)
	visit.TriageLevel = 0

	err := f.service.RegisterVisit(context.Background(), "tok", testActor(), visit)
	require.Error(t, err)
	assert.Contains(t, util.ToDomainError(err).Details, "triage_level")
	assert.Empty(t, f.visits.byID)
}

func TestDischargeVisitTwice(t *testing.T) {
	f := newVisitFixture(t, nil, nil, nil)
	require.NoError(t, f.visits.Create(context.Background(), newVisit(1)))

	diagnosis := "resolved"
	_, err := f.service.DischargeVisit(context.Background(), testActor(), 1, &diagnosis, nil)
	require.NoError(t, err)
	require.Len(t, f.dispatcher.ofType(events.EventVisitDischarged), 1)

	_, err = f.service.DischargeVisit(context.Background(), testActor(), 1, &diagnosis, nil)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", util.ToDomainError(err).Code)
}

func TestRecordVitalSignAggregatesRangeErrors(t *testing.T) {
	f := newVisitFixture(t, nil, nil, nil)
	require.NoError(t, f.visits.Create(context.Background(), newVisit(1)))

	heartRate := 10
	pain := 11
	saturation := 97
	err := f.service.RecordVitalSign(context.Background(), "tok", &domain.VitalSign{
		VisitID:          1,
		HeartRate:        &heartRate,
		PainLevel:        &pain,
		OxygenSaturation: &saturation,
	})
	require.Error(t, err)

	domainErr := util.ToDomainError(err)
	assert.Len(t, domainErr.Details, 2)
	assert.Contains(t, domainErr.Details, "heart_rate")
	assert.Contains(t, domainErr.Details, "pain_level")
	assert.Empty(t, f.vitals.created)
}

func TestRecordVitalSignUnknownVisit(t *testing.T) {
	f := newVisitFixture(t, nil, nil, nil)

	err := f.service.RecordVitalSign(context.Background(), "tok", &domain.VitalSign{VisitID: 77})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, util.ToDomainError(err).HTTPStatus)
}

func TestRecordTreatmentValidatesAdministeringUser(t *testing.T) {
	f := newVisitFixture(t, nil, nil, map[string]int{"/api/auth/users/5/": http.StatusNotFound})
	require.NoError(t, f.visits.Create(context.Background(), newVisit(1)))

	user := int64(5)
	err := f.service.RecordTreatment(context.Background(), "tok", &domain.Treatment{
		VisitID:          1,
		TreatmentType:    domain.TreatmentMedication,
		Name:             "aspirin",
		AdministeredByID: &user,
	})
	require.Error(t, err)
	assert.Equal(t, "user with ID 5 not found", util.ToDomainError(err).Details["administered_by_id"])
	assert.Empty(t, f.treatments.created)
}

func TestRecordPrescriptionRequiresAllFields(t *testing.T) {
	f := newVisitFixture(t, nil, nil, nil)
	require.NoError(t, f.visits.Create(context.Background(), newVisit(1)))

	err := f.service.RecordPrescription(context.Background(), "tok", &domain.Prescription{
		VisitID:    1,
		Medication: "amoxicillin",
	})
	require.Error(t, err)

	domainErr := util.ToDomainError(err)
	for _, field := range []string{"dosage", "frequency", "duration"} {
		assert.Contains(t, domainErr.Details, field)
	}
}

func TestUpdateBedAssignmentPublishesEvent(t *testing.T) {
	f := newVisitFixture(t, nil, nil, nil)
	require.NoError(t, f.beds.Create(context.Background(), &domain.Bed{
		BedNumber: "ER-1",
		Status:    domain.BedAvailable,
	}))

	patient := int64(3)
	err := f.service.UpdateBed(context.Background(), "tok", testActor(), &domain.Bed{
		ID:        1,
		BedNumber: "ER-1",
		Status:    domain.BedAvailable,
		PatientID: &patient,
	})
	require.NoError(t, err)

	stored, err := f.beds.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.BedOccupied, stored.Status)

	published := f.dispatcher.ofType(events.EventBedAssigned)
	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.BedAssignedPayload)
	require.True(t, ok)
	assert.Equal(t, "ER-1", payload.BedNumber)
}

func TestAdmitPatientFullWorkflow(t *testing.T) {
	f := newVisitFixture(t, nil, nil, nil)
	require.NoError(t, f.visits.Create(context.Background(), newVisit(12)))
	require.NoError(t, f.beds.Create(context.Background(), &domain.Bed{
		BedNumber: "W-3",
		Status:    domain.BedAvailable,
	}))

	bedID := int64(1)
	admission := &domain.Admission{
		VisitID:            1,
		BedID:              &bedID,
		AdmittedByID:       4,
		AdmittingDiagnosis: "pneumonia",
		Department:         "internal medicine",
	}
	require.NoError(t, f.service.AdmitPatient(context.Background(), "tok", testActor(), admission))
	assert.NotZero(t, admission.ID)

	visit, err := f.visits.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, visit.IsAdmitted)

	bed, err := f.beds.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.BedOccupied, bed.Status)
	require.NotNil(t, bed.PatientID)
	assert.Equal(t, int64(12), *bed.PatientID)

	require.Len(t, f.dispatcher.ofType(events.EventPatientAdmitted), 1)
}

func TestAdmitPatientAlreadyAdmitted(t *testing.T) {
	f := newVisitFixture(t, nil, nil, nil)
	visit := newVisit(12)
	visit.IsAdmitted = true
	require.NoError(t, f.visits.Create(context.Background(), visit))

	err := f.service.AdmitPatient(context.Background(), "tok", testActor(), &domain.Admission{
		VisitID:            1,
		AdmittedByID:       4,
		AdmittingDiagnosis: "pneumonia",
		Department:         "internal medicine",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", util.ToDomainError(err).Code)
	assert.Empty(t, f.admissions.byID)
}

func TestAdmitPatientRejectsOccupiedBed(t *testing.T) {
	f := newVisitFixture(t, nil, nil, nil)
	require.NoError(t, f.visits.Create(context.Background(), newVisit(12)))
	require.NoError(t, f.beds.Create(context.Background(), &domain.Bed{
		BedNumber: "W-3",
		Status:    domain.BedOccupied,
	}))

	bedID := int64(1)
	err := f.service.AdmitPatient(context.Background(), "tok", testActor(), &domain.Admission{
		VisitID:            1,
		BedID:              &bedID,
		AdmittedByID:       4,
		AdmittingDiagnosis: "pneumonia",
		Department:         "internal medicine",
	})
	require.Error(t, err)

	domainErr := util.ToDomainError(err)
	assert.Equal(t, "CONFLICT", domainErr.Code)
	assert.True(t, strings.Contains(domainErr.Message, "bed"))
	assert.Empty(t, f.admissions.byID)

	visit, err := f.visits.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, visit.IsAdmitted)
}

func TestDischargeAdmissionFreesBed(t *testing.T) {
	f := newVisitFixture(t, nil, nil, nil)
	require.NoError(t, f.visits.Create(context.Background(), newVisit(12)))
	require.NoError(t, f.beds.Create(context.Background(), &domain.Bed{
		BedNumber: "W-3",
		Status:    domain.BedAvailable,
	}))

	bedID := int64(1)
	require.NoError(t, f.service.AdmitPatient(context.Background(), "tok", testActor(), &domain.Admission{
		VisitID:            1,
		BedID:              &bedID,
		AdmittedByID:       4,
		AdmittingDiagnosis: "pneumonia",
		Department:         "internal medicine",
	}))

	admission, err := f.service.DischargeAdmission(context.Background(), testActor(), 1)
	require.NoError(t, err)
	require.NotNil(t, admission.DischargeTime)

	bed, err := f.beds.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.BedAvailable, bed.Status)
	assert.Nil(t, bed.PatientID)

	_, err = f.service.DischargeAdmission(context.Background(), testActor(), 1)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", util.ToDomainError(err).Code)
}
