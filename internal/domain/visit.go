package domain

import "time"

// TriageLevel ranks urgency, 1 highest.
type TriageLevel int

const (
	TriageResuscitation TriageLevel = 1
	TriageEmergency     TriageLevel = 2
	TriageUrgent        TriageLevel = 3
	TriageLessUrgent    TriageLevel = 4
	TriageNonUrgent     TriageLevel = 5
)

// Valid reports whether the level is one of the five triage categories.
func (t TriageLevel) Valid() bool {
	return t >= TriageResuscitation && t <= TriageNonUrgent
}

// EmergencyVisit is the root clinical record of the visit service.
// PatientID, AttendingPhysicianID and TriageNurseID are cross-service
// references: raw integers validated against the owning service when the
// row is written, with no ongoing consistency afterwards.
type EmergencyVisit struct {
	ID                    int64
	PatientID             int64
	ArrivalTime           time.Time
	TriageLevel           TriageLevel
	ChiefComplaint        string
	InitialObservation    *string
	DischargeTime         *time.Time
	DischargeDiagnosis    *string
	DischargeInstructions *string
	IsAdmitted            bool
	AttendingPhysicianID  *int64
	TriageNurseID         *int64
}

// VitalSign is one set of measurements taken during a visit.
type VitalSign struct {
	ID                     int64
	VisitID                int64
	RecordedByID           *int64
	RecordedAt             time.Time
	Temperature            *float64
	HeartRate              *int
	BloodPressureSystolic  *int
	BloodPressureDiastolic *int
	RespiratoryRate        *int
	OxygenSaturation       *int
	PainLevel              *int
	GCSScore               *int
	Notes                  *string
}

// TreatmentType categorizes a treatment entry.
type TreatmentType string

const (
	TreatmentMedication TreatmentType = "MED"
	TreatmentProcedure  TreatmentType = "PROC"
	TreatmentTest       TreatmentType = "TEST"
	TreatmentOther      TreatmentType = "OTHER"
)

// Treatment is a treatment administered during a visit.
type Treatment struct {
	ID               int64
	VisitID          int64
	TreatmentType    TreatmentType
	Name             string
	Description      *string
	AdministeredByID *int64
	AdministeredAt   time.Time
	Dosage           *string
	Outcome          *string
	Complications    *string
}

// Diagnosis is an ICD-10 coded diagnosis for a visit.
type Diagnosis struct {
	ID            int64
	VisitID       int64
	Code          string
	Description   string
	DiagnosedByID *int64
	DiagnosedAt   time.Time
	IsPrimary     bool
	Notes         *string
}

// Prescription is medication prescribed at discharge or during a visit.
type Prescription struct {
	ID             int64
	VisitID        int64
	Medication     string
	Dosage         string
	Frequency      string
	Duration       string
	PrescribedByID *int64
	PrescribedAt   time.Time
	Instructions   *string
	IsDispensed    bool
	Refills        int
}
