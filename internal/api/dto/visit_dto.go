package dto

import (
	"time"

	"github.com/spec-kit/emergency-services/internal/domain"
)

// VisitRequest payload for visit create/update. PatientID and the two
// clinician references belong to the patient and staff services.
type VisitRequest struct {
	PatientID            int64              `json:"patient_id"`
	TriageLevel          domain.TriageLevel `json:"triage_level"`
	ChiefComplaint       string             `json:"chief_complaint"`
	InitialObservation   *string            `json:"initial_observation"`
	AttendingPhysicianID *int64             `json:"attending_physician_id"`
	TriageNurseID        *int64             `json:"triage_nurse_id"`
}

// VisitResponse full visit representation. The *_details fields carry
// whatever the owning service returned for the reference, or a placeholder
// when the lookup failed.
type VisitResponse struct {
	ID                        int64              `json:"id"`
	PatientID                 int64              `json:"patient_id"`
	PatientDetails            map[string]any     `json:"patient_details,omitempty"`
	ArrivalTime               time.Time          `json:"arrival_time"`
	TriageLevel               domain.TriageLevel `json:"triage_level"`
	ChiefComplaint            string             `json:"chief_complaint"`
	InitialObservation        *string            `json:"initial_observation"`
	DischargeTime             *time.Time         `json:"discharge_time"`
	DischargeDiagnosis        *string            `json:"discharge_diagnosis"`
	DischargeInstructions     *string            `json:"discharge_instructions"`
	IsAdmitted                bool               `json:"is_admitted"`
	AttendingPhysicianID      *int64             `json:"attending_physician_id"`
	AttendingPhysicianDetails map[string]any     `json:"attending_physician_details,omitempty"`
	TriageNurseID             *int64             `json:"triage_nurse_id"`
	TriageNurseDetails        map[string]any     `json:"triage_nurse_details,omitempty"`
}

// DischargeRequest payload closing a visit.
type DischargeRequest struct {
	DischargeDiagnosis    *string `json:"discharge_diagnosis"`
	DischargeInstructions *string `json:"discharge_instructions"`
}

// VitalSignRequest payload for a measurement set.
type VitalSignRequest struct {
	RecordedByID           *int64   `json:"recorded_by_id"`
	Temperature            *float64 `json:"temperature"`
	HeartRate              *int     `json:"heart_rate"`
	BloodPressureSystolic  *int     `json:"blood_pressure_systolic"`
	BloodPressureDiastolic *int     `json:"blood_pressure_diastolic"`
	RespiratoryRate        *int     `json:"respiratory_rate"`
	OxygenSaturation       *int     `json:"oxygen_saturation"`
	PainLevel              *int     `json:"pain_level"`
	GCSScore               *int     `json:"gcs_score"`
	Notes                  *string  `json:"notes"`
}

// VitalSignResponse full measurement representation.
type VitalSignResponse struct {
	ID                     int64          `json:"id"`
	VisitID                int64          `json:"visit_id"`
	RecordedByID           *int64         `json:"recorded_by_id"`
	RecordedByDetails      map[string]any `json:"recorded_by_details,omitempty"`
	RecordedAt             time.Time      `json:"recorded_at"`
	Temperature            *float64       `json:"temperature"`
	HeartRate              *int           `json:"heart_rate"`
	BloodPressureSystolic  *int           `json:"blood_pressure_systolic"`
	BloodPressureDiastolic *int           `json:"blood_pressure_diastolic"`
	RespiratoryRate        *int           `json:"respiratory_rate"`
	OxygenSaturation       *int           `json:"oxygen_saturation"`
	PainLevel              *int           `json:"pain_level"`
	GCSScore               *int           `json:"gcs_score"`
	Notes                  *string        `json:"notes"`
}

// TreatmentRequest payload for a treatment entry.
type TreatmentRequest struct {
	TreatmentType    domain.TreatmentType `json:"treatment_type"`
	Name             string               `json:"name"`
	Description      *string              `json:"description"`
	AdministeredByID *int64               `json:"administered_by_id"`
	Dosage           *string              `json:"dosage"`
	Outcome          *string              `json:"outcome"`
	Complications    *string              `json:"complications"`
}

// TreatmentResponse full treatment representation.
type TreatmentResponse struct {
	ID                    int64                `json:"id"`
	VisitID               int64                `json:"visit_id"`
	TreatmentType         domain.TreatmentType `json:"treatment_type"`
	Name                  string               `json:"name"`
	Description           *string              `json:"description"`
	AdministeredByID      *int64               `json:"administered_by_id"`
	AdministeredByDetails map[string]any       `json:"administered_by_details,omitempty"`
	AdministeredAt        time.Time            `json:"administered_at"`
	Dosage                *string              `json:"dosage"`
	Outcome               *string              `json:"outcome"`
	Complications         *string              `json:"complications"`
}

// DiagnosisRequest payload for a coded diagnosis.
type DiagnosisRequest struct {
	Code          string  `json:"code"`
	Description   string  `json:"description"`
	DiagnosedByID *int64  `json:"diagnosed_by_id"`
	IsPrimary     bool    `json:"is_primary"`
	Notes         *string `json:"notes"`
}

// DiagnosisResponse full diagnosis representation.
type DiagnosisResponse struct {
	ID                 int64          `json:"id"`
	VisitID            int64          `json:"visit_id"`
	Code               string         `json:"code"`
	Description        string         `json:"description"`
	DiagnosedByID      *int64         `json:"diagnosed_by_id"`
	DiagnosedByDetails map[string]any `json:"diagnosed_by_details,omitempty"`
	DiagnosedAt        time.Time      `json:"diagnosed_at"`
	IsPrimary          bool           `json:"is_primary"`
	Notes              *string        `json:"notes"`
}

// PrescriptionRequest payload for a prescription.
type PrescriptionRequest struct {
	Medication     string  `json:"medication"`
	Dosage         string  `json:"dosage"`
	Frequency      string  `json:"frequency"`
	Duration       string  `json:"duration"`
	PrescribedByID *int64  `json:"prescribed_by_id"`
	Instructions   *string `json:"instructions"`
	IsDispensed    bool    `json:"is_dispensed"`
	Refills        int     `json:"refills"`
}

// PrescriptionResponse full prescription representation.
type PrescriptionResponse struct {
	ID                  int64          `json:"id"`
	VisitID             int64          `json:"visit_id"`
	Medication          string         `json:"medication"`
	Dosage              string         `json:"dosage"`
	Frequency           string         `json:"frequency"`
	Duration            string         `json:"duration"`
	PrescribedByID      *int64         `json:"prescribed_by_id"`
	PrescribedByDetails map[string]any `json:"prescribed_by_details,omitempty"`
	PrescribedAt        time.Time      `json:"prescribed_at"`
	Instructions        *string        `json:"instructions"`
	IsDispensed         bool           `json:"is_dispensed"`
	Refills             int            `json:"refills"`
}

// BedRequest payload for bed create/update.
type BedRequest struct {
	BedNumber        string           `json:"bed_number"`
	Status           domain.BedStatus `json:"status"`
	Location         string           `json:"location"`
	IsIsolation      bool             `json:"is_isolation"`
	SpecialEquipment *string          `json:"special_equipment"`
	PatientID        *int64           `json:"patient_id"`
	DoctorID         *int64           `json:"doctor_id"`
	NurseID          *int64           `json:"nurse_id"`
}

// BedResponse full bed representation.
type BedResponse struct {
	ID               int64            `json:"id"`
	BedNumber        string           `json:"bed_number"`
	Status           domain.BedStatus `json:"status"`
	Location         string           `json:"location"`
	IsIsolation      bool             `json:"is_isolation"`
	SpecialEquipment *string          `json:"special_equipment"`
	LastCleaned      time.Time        `json:"last_cleaned"`
	PatientID        *int64           `json:"patient_id"`
	PatientDetails   map[string]any   `json:"patient_details,omitempty"`
	DoctorID         *int64           `json:"doctor_id"`
	DoctorDetails    map[string]any   `json:"doctor_details,omitempty"`
	NurseID          *int64           `json:"nurse_id"`
	NurseDetails     map[string]any   `json:"nurse_details,omitempty"`
}

// AdmissionRequest payload converting a visit to an inpatient stay.
type AdmissionRequest struct {
	VisitID            int64   `json:"visit_id"`
	BedID              *int64  `json:"bed_id"`
	AdmittedByID       int64   `json:"admitted_by_id"`
	AdmittingDiagnosis string  `json:"admitting_diagnosis"`
	Department         string  `json:"department"`
	Notes              *string `json:"notes"`
}

// AdmissionResponse full admission representation.
type AdmissionResponse struct {
	ID                 int64          `json:"id"`
	VisitID            int64          `json:"visit_id"`
	BedID              *int64         `json:"bed_id"`
	AdmittedByID       int64          `json:"admitted_by_id"`
	AdmittedByDetails  map[string]any `json:"admitted_by_details,omitempty"`
	AdmissionTime      time.Time      `json:"admission_time"`
	DischargeTime      *time.Time     `json:"discharge_time"`
	AdmittingDiagnosis string         `json:"admitting_diagnosis"`
	Department         string         `json:"department"`
	Notes              *string        `json:"notes"`
}
