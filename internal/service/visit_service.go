package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/emergency-services/internal/config"
	"github.com/spec-kit/emergency-services/internal/domain"
	"github.com/spec-kit/emergency-services/internal/events"
	"github.com/spec-kit/emergency-services/internal/remote"
	"github.com/spec-kit/emergency-services/internal/repository"
	"github.com/spec-kit/emergency-services/pkg/util"
)

// VisitService owns emergency visits, their clinical children, beds and
// admissions. Foreign identifiers (patients, doctors, nurses) are plain
// integers validated against the owning service before any write commits;
// validation failures for multiple references are reported together.
type VisitService struct {
	visits        repository.VisitRepository
	vitals        repository.VitalSignRepository
	treatments    repository.TreatmentRepository
	diagnoses     repository.DiagnosisRepository
	prescriptions repository.PrescriptionRepository
	beds          repository.BedRepository
	admissions    repository.AdmissionRepository
	validator     *remote.Validator
	dispatcher    events.Dispatcher
	services      config.ServicesConfig
	logger        *zap.Logger
}

// VisitDependencies bundles requirements for the visit service.
type VisitDependencies struct {
	VisitRepo        repository.VisitRepository
	VitalSignRepo    repository.VitalSignRepository
	TreatmentRepo    repository.TreatmentRepository
	DiagnosisRepo    repository.DiagnosisRepository
	PrescriptionRepo repository.PrescriptionRepository
	BedRepo          repository.BedRepository
	AdmissionRepo    repository.AdmissionRepository
	Validator        *remote.Validator
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewVisitService constructs the service.
func NewVisitService(cfg config.Config, deps VisitDependencies) *VisitService {
	return &VisitService{
		visits:        deps.VisitRepo,
		vitals:        deps.VitalSignRepo,
		treatments:    deps.TreatmentRepo,
		diagnoses:     deps.DiagnosisRepo,
		prescriptions: deps.PrescriptionRepo,
		beds:          deps.BedRepo,
		admissions:    deps.AdmissionRepo,
		validator:     deps.Validator,
		dispatcher:    deps.Dispatcher,
		services:      cfg.Services,
		logger:        deps.Logger,
	}
}

func (s *VisitService) patientRef(field string, id *int64) remote.Ref {
	return remote.Ref{Base: s.services.PatientBaseURL, Resource: "patients", Field: field, ID: id}
}

func (s *VisitService) doctorRef(field string, id *int64) remote.Ref {
	return remote.Ref{Base: s.services.StaffBaseURL, Resource: "doctors", Field: field, ID: id}
}

func (s *VisitService) nurseRef(field string, id *int64) remote.Ref {
	return remote.Ref{Base: s.services.StaffBaseURL, Resource: "nurses", Field: field, ID: id}
}

func (s *VisitService) userRef(field string, id *int64) remote.Ref {
	return remote.Ref{Base: s.services.AuthBaseURL, Resource: "users", Field: field, ID: id}
}

func (s *VisitService) publish(ctx context.Context, eventType events.EventType, actor events.Actor, payload interface{}) {
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("event_type", string(eventType)),
			zap.Error(err))
	}
}

// RegisterVisit creates a new emergency visit. The patient reference is
// required; attending physician and triage nurse are optional and only
// checked when present.
func (s *VisitService) RegisterVisit(ctx context.Context, token string, actor events.Actor, visit *domain.EmergencyVisit) error {
	if !visit.TriageLevel.Valid() {
		return util.NewValidationError("invalid payload", map[string]any{
			"triage_level": "triage level must be between 1 and 5",
		})
	}
	if visit.ChiefComplaint == "" {
		return util.NewValidationError("invalid payload", map[string]any{
			"chief_complaint": "chief complaint is required",
		})
	}

	refs := []remote.Ref{
		s.patientRef("patient_id", &visit.PatientID),
		s.doctorRef("attending_physician_id", visit.AttendingPhysicianID),
		s.nurseRef("triage_nurse_id", visit.TriageNurseID),
	}
	if err := s.validator.ValidateAll(ctx, token, refs...); err != nil {
		return err
	}

	if err := s.visits.Create(ctx, visit); err != nil {
		return err
	}

	s.publish(ctx, events.EventVisitRegistered, actor, events.VisitRegisteredPayload{
		VisitID:     visit.ID,
		PatientID:   visit.PatientID,
		TriageLevel: visit.TriageLevel,
	})
	return nil
}

// UpdateVisit replaces a visit row, re-validating every foreign reference
// the incoming document carries.
func (s *VisitService) UpdateVisit(ctx context.Context, token string, actor events.Actor, visit *domain.EmergencyVisit) error {
	if !visit.TriageLevel.Valid() {
		return util.NewValidationError("invalid payload", map[string]any{
			"triage_level": "triage level must be between 1 and 5",
		})
	}

	refs := []remote.Ref{
		s.patientRef("patient_id", &visit.PatientID),
		s.doctorRef("attending_physician_id", visit.AttendingPhysicianID),
		s.nurseRef("triage_nurse_id", visit.TriageNurseID),
	}
	if err := s.validator.ValidateAll(ctx, token, refs...); err != nil {
		return err
	}

	current, err := s.visits.GetByID(ctx, visit.ID)
	if err != nil {
		return err
	}
	visit.ArrivalTime = current.ArrivalTime
	visit.IsAdmitted = current.IsAdmitted

	return s.visits.Update(ctx, visit)
}

// DischargeVisit stamps the discharge time and records the final diagnosis
// and instructions. Discharging twice is a conflict.
func (s *VisitService) DischargeVisit(ctx context.Context, actor events.Actor, visitID int64, diagnosis, instructions *string) (*domain.EmergencyVisit, error) {
	visit, err := s.visits.GetByID(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if visit.DischargeTime != nil {
		return nil, util.NewConflict("visit is already discharged", nil)
	}

	now := time.Now().UTC()
	visit.DischargeTime = &now
	visit.DischargeDiagnosis = diagnosis
	visit.DischargeInstructions = instructions

	if err := s.visits.Update(ctx, visit); err != nil {
		return nil, err
	}

	payload := events.VisitDischargedPayload{VisitID: visit.ID}
	if diagnosis != nil {
		payload.DischargeDiagnosis = *diagnosis
	}
	s.publish(ctx, events.EventVisitDischarged, actor, payload)
	return visit, nil
}

// GetVisit loads one visit.
func (s *VisitService) GetVisit(ctx context.Context, id int64) (*domain.EmergencyVisit, error) {
	return s.visits.GetByID(ctx, id)
}

// ListVisits lists visits.
func (s *VisitService) ListVisits(ctx context.Context, filter repository.VisitFilter) ([]domain.EmergencyVisit, error) {
	return s.visits.List(ctx, filter)
}

// DeleteVisit removes a visit and, through the schema cascade, its vital
// signs, treatments, diagnoses and prescriptions.
func (s *VisitService) DeleteVisit(ctx context.Context, id int64) error {
	return s.visits.Delete(ctx, id)
}

// vitalSignRangeErrors collects out-of-range measurements. All present
// fields are checked so the caller sees every problem at once.
func vitalSignRangeErrors(vs *domain.VitalSign) map[string]any {
	details := map[string]any{}
	if vs.HeartRate != nil && (*vs.HeartRate < 20 || *vs.HeartRate > 300) {
		details["heart_rate"] = "heart rate must be between 20 and 300"
	}
	if vs.BloodPressureSystolic != nil && (*vs.BloodPressureSystolic < 50 || *vs.BloodPressureSystolic > 300) {
		details["blood_pressure_systolic"] = "systolic pressure must be between 50 and 300"
	}
	if vs.BloodPressureDiastolic != nil && (*vs.BloodPressureDiastolic < 30 || *vs.BloodPressureDiastolic > 200) {
		details["blood_pressure_diastolic"] = "diastolic pressure must be between 30 and 200"
	}
	if vs.RespiratoryRate != nil && (*vs.RespiratoryRate < 5 || *vs.RespiratoryRate > 60) {
		details["respiratory_rate"] = "respiratory rate must be between 5 and 60"
	}
	if vs.OxygenSaturation != nil && (*vs.OxygenSaturation < 0 || *vs.OxygenSaturation > 100) {
		details["oxygen_saturation"] = "oxygen saturation must be between 0 and 100"
	}
	if vs.PainLevel != nil && (*vs.PainLevel < 0 || *vs.PainLevel > 10) {
		details["pain_level"] = "pain level must be between 0 and 10"
	}
	if vs.GCSScore != nil && (*vs.GCSScore < 3 || *vs.GCSScore > 15) {
		details["gcs_score"] = "GCS score must be between 3 and 15"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// RecordVitalSign attaches a measurement set to a visit.
func (s *VisitService) RecordVitalSign(ctx context.Context, token string, vs *domain.VitalSign) error {
	if details := vitalSignRangeErrors(vs); details != nil {
		return util.NewValidationError("invalid payload", details)
	}
	if _, err := s.visits.GetByID(ctx, vs.VisitID); err != nil {
		return err
	}
	if err := s.validator.ValidateAll(ctx, token, s.userRef("recorded_by_id", vs.RecordedByID)); err != nil {
		return err
	}
	return s.vitals.Create(ctx, vs)
}

// GetVitalSign loads one measurement set.
func (s *VisitService) GetVitalSign(ctx context.Context, id int64) (*domain.VitalSign, error) {
	return s.vitals.GetByID(ctx, id)
}

// ListVitalSigns lists a visit's measurement sets, newest first.
func (s *VisitService) ListVitalSigns(ctx context.Context, visitID int64) ([]domain.VitalSign, error) {
	return s.vitals.ListByVisit(ctx, visitID)
}

// DeleteVitalSign removes a measurement set.
func (s *VisitService) DeleteVitalSign(ctx context.Context, id int64) error {
	return s.vitals.Delete(ctx, id)
}

// RecordTreatment attaches a treatment to a visit.
func (s *VisitService) RecordTreatment(ctx context.Context, token string, t *domain.Treatment) error {
	if t.Name == "" {
		return util.NewValidationError("invalid payload", map[string]any{
			"name": "treatment name is required",
		})
	}
	if _, err := s.visits.GetByID(ctx, t.VisitID); err != nil {
		return err
	}
	if err := s.validator.ValidateAll(ctx, token, s.userRef("administered_by_id", t.AdministeredByID)); err != nil {
		return err
	}
	return s.treatments.Create(ctx, t)
}

// GetTreatment loads one treatment.
func (s *VisitService) GetTreatment(ctx context.Context, id int64) (*domain.Treatment, error) {
	return s.treatments.GetByID(ctx, id)
}

// ListTreatments lists a visit's treatments.
func (s *VisitService) ListTreatments(ctx context.Context, visitID int64) ([]domain.Treatment, error) {
	return s.treatments.ListByVisit(ctx, visitID)
}

// DeleteTreatment removes a treatment.
func (s *VisitService) DeleteTreatment(ctx context.Context, id int64) error {
	return s.treatments.Delete(ctx, id)
}

// RecordDiagnosis attaches a coded diagnosis to a visit.
func (s *VisitService) RecordDiagnosis(ctx context.Context, token string, d *domain.Diagnosis) error {
	if d.Code == "" || d.Description == "" {
		details := map[string]any{}
		if d.Code == "" {
			details["code"] = "diagnosis code is required"
		}
		if d.Description == "" {
			details["description"] = "description is required"
		}
		return util.NewValidationError("invalid payload", details)
	}
	if _, err := s.visits.GetByID(ctx, d.VisitID); err != nil {
		return err
	}
	if err := s.validator.ValidateAll(ctx, token, s.userRef("diagnosed_by_id", d.DiagnosedByID)); err != nil {
		return err
	}
	return s.diagnoses.Create(ctx, d)
}

// GetDiagnosis loads one diagnosis.
func (s *VisitService) GetDiagnosis(ctx context.Context, id int64) (*domain.Diagnosis, error) {
	return s.diagnoses.GetByID(ctx, id)
}

// ListDiagnoses lists a visit's diagnoses.
func (s *VisitService) ListDiagnoses(ctx context.Context, visitID int64) ([]domain.Diagnosis, error) {
	return s.diagnoses.ListByVisit(ctx, visitID)
}

// DeleteDiagnosis removes a diagnosis.
func (s *VisitService) DeleteDiagnosis(ctx context.Context, id int64) error {
	return s.diagnoses.Delete(ctx, id)
}

// RecordPrescription attaches a prescription to a visit.
func (s *VisitService) RecordPrescription(ctx context.Context, token string, p *domain.Prescription) error {
	details := map[string]any{}
	if p.Medication == "" {
		details["medication"] = "medication is required"
	}
	if p.Dosage == "" {
		details["dosage"] = "dosage is required"
	}
	if p.Frequency == "" {
		details["frequency"] = "frequency is required"
	}
	if p.Duration == "" {
		details["duration"] = "duration is required"
	}
	if len(details) > 0 {
		return util.NewValidationError("invalid payload", details)
	}
	if _, err := s.visits.GetByID(ctx, p.VisitID); err != nil {
		return err
	}
	if err := s.validator.ValidateAll(ctx, token, s.userRef("prescribed_by_id", p.PrescribedByID)); err != nil {
		return err
	}
	return s.prescriptions.Create(ctx, p)
}

// GetPrescription loads one prescription.
func (s *VisitService) GetPrescription(ctx context.Context, id int64) (*domain.Prescription, error) {
	return s.prescriptions.GetByID(ctx, id)
}

// ListPrescriptions lists a visit's prescriptions.
func (s *VisitService) ListPrescriptions(ctx context.Context, visitID int64) ([]domain.Prescription, error) {
	return s.prescriptions.ListByVisit(ctx, visitID)
}

// DeletePrescription removes a prescription.
func (s *VisitService) DeletePrescription(ctx context.Context, id int64) error {
	return s.prescriptions.Delete(ctx, id)
}

func (s *VisitService) bedReferenceRefs(bed *domain.Bed) []remote.Ref {
	return []remote.Ref{
		s.patientRef("patient_id", bed.PatientID),
		s.doctorRef("doctor_id", bed.DoctorID),
		s.nurseRef("nurse_id", bed.NurseID),
	}
}

// CreateBed registers a bed. A duplicate bed number is a conflict.
func (s *VisitService) CreateBed(ctx context.Context, token string, bed *domain.Bed) error {
	if bed.BedNumber == "" {
		return util.NewValidationError("invalid payload", map[string]any{
			"bed_number": "bed number is required",
		})
	}
	if bed.Status == "" {
		bed.Status = domain.BedAvailable
	}
	if err := s.validator.ValidateAll(ctx, token, s.bedReferenceRefs(bed)...); err != nil {
		return err
	}
	return s.beds.Create(ctx, bed)
}

// UpdateBed replaces a bed row. Assigning a patient to the bed marks it
// occupied and announces the assignment.
func (s *VisitService) UpdateBed(ctx context.Context, token string, actor events.Actor, bed *domain.Bed) error {
	if err := s.validator.ValidateAll(ctx, token, s.bedReferenceRefs(bed)...); err != nil {
		return err
	}

	current, err := s.beds.GetByID(ctx, bed.ID)
	if err != nil {
		return err
	}

	newlyAssigned := bed.PatientID != nil &&
		(current.PatientID == nil || *current.PatientID != *bed.PatientID)
	if newlyAssigned {
		bed.Status = domain.BedOccupied
	}

	if err := s.beds.Update(ctx, bed); err != nil {
		return err
	}

	if newlyAssigned {
		s.publish(ctx, events.EventBedAssigned, actor, events.BedAssignedPayload{
			BedID:     bed.ID,
			BedNumber: bed.BedNumber,
			PatientID: bed.PatientID,
		})
	}
	return nil
}

// GetBed loads one bed.
func (s *VisitService) GetBed(ctx context.Context, id int64) (*domain.Bed, error) {
	return s.beds.GetByID(ctx, id)
}

// ListBeds lists beds.
func (s *VisitService) ListBeds(ctx context.Context, filter repository.BedFilter) ([]domain.Bed, error) {
	return s.beds.List(ctx, filter)
}

// DeleteBed removes a bed. Admissions referencing it keep their row with a
// null bed, per the schema.
func (s *VisitService) DeleteBed(ctx context.Context, id int64) error {
	return s.beds.Delete(ctx, id)
}

// AdmitPatient converts a visit into an inpatient admission. The visit must
// exist and not already be admitted; the admitting user reference is
// validated remotely and an optional bed must exist and be available.
func (s *VisitService) AdmitPatient(ctx context.Context, token string, actor events.Actor, admission *domain.Admission) error {
	if admission.AdmittingDiagnosis == "" || admission.Department == "" {
		details := map[string]any{}
		if admission.AdmittingDiagnosis == "" {
			details["admitting_diagnosis"] = "admitting diagnosis is required"
		}
		if admission.Department == "" {
			details["department"] = "department is required"
		}
		return util.NewValidationError("invalid payload", details)
	}

	visit, err := s.visits.GetByID(ctx, admission.VisitID)
	if err != nil {
		return err
	}
	if visit.IsAdmitted {
		return util.NewConflict("visit already has an admission", map[string]any{
			"visit_id": admission.VisitID,
		})
	}

	if err := s.validator.ValidateAll(ctx, token, s.userRef("admitted_by_id", &admission.AdmittedByID)); err != nil {
		return err
	}

	var bed *domain.Bed
	if admission.BedID != nil {
		bed, err = s.beds.GetByID(ctx, *admission.BedID)
		if err != nil {
			return err
		}
		if bed.Status != domain.BedAvailable && bed.Status != domain.BedReserved {
			return util.NewConflict("bed is not available", map[string]any{
				"bed_id": *admission.BedID,
			})
		}
	}

	if err := s.admissions.Create(ctx, admission); err != nil {
		return err
	}

	visit.IsAdmitted = true
	if err := s.visits.Update(ctx, visit); err != nil {
		return err
	}

	if bed != nil {
		bed.Status = domain.BedOccupied
		bed.PatientID = &visit.PatientID
		if err := s.beds.Update(ctx, bed); err != nil {
			s.logger.Warn("bed occupancy update failed after admission",
				zap.Int64("bed_id", bed.ID),
				zap.Error(err))
		}
	}

	s.publish(ctx, events.EventPatientAdmitted, actor, events.PatientAdmittedPayload{
		AdmissionID: admission.ID,
		VisitID:     admission.VisitID,
		BedID:       admission.BedID,
		Department:  admission.Department,
	})
	return nil
}

// DischargeAdmission closes an admission and frees its bed.
func (s *VisitService) DischargeAdmission(ctx context.Context, actor events.Actor, admissionID int64) (*domain.Admission, error) {
	admission, err := s.admissions.GetByID(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if admission.DischargeTime != nil {
		return nil, util.NewConflict("admission is already discharged", nil)
	}

	now := time.Now().UTC()
	admission.DischargeTime = &now
	if err := s.admissions.Update(ctx, admission); err != nil {
		return nil, err
	}

	if admission.BedID != nil {
		if bed, err := s.beds.GetByID(ctx, *admission.BedID); err == nil {
			bed.Status = domain.BedAvailable
			bed.PatientID = nil
			if err := s.beds.Update(ctx, bed); err != nil {
				s.logger.Warn("bed release failed after discharge",
					zap.Int64("bed_id", bed.ID),
					zap.Error(err))
			}
		}
	}
	return admission, nil
}

// GetAdmission loads one admission.
func (s *VisitService) GetAdmission(ctx context.Context, id int64) (*domain.Admission, error) {
	return s.admissions.GetByID(ctx, id)
}

// GetAdmissionByVisit loads the admission recorded for a visit.
func (s *VisitService) GetAdmissionByVisit(ctx context.Context, visitID int64) (*domain.Admission, error) {
	return s.admissions.GetByVisit(ctx, visitID)
}

// ListAdmissions lists admissions.
func (s *VisitService) ListAdmissions(ctx context.Context, limit, offset int) ([]domain.Admission, error) {
	return s.admissions.List(ctx, limit, offset)
}

// DeleteAdmission removes an admission record.
func (s *VisitService) DeleteAdmission(ctx context.Context, id int64) error {
	return s.admissions.Delete(ctx, id)
}
