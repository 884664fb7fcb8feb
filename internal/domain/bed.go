package domain

import "time"

// BedStatus enumerates occupancy states.
type BedStatus string

const (
	BedAvailable   BedStatus = "AVAIL"
	BedOccupied    BedStatus = "OCCUP"
	BedMaintenance BedStatus = "MAINT"
	BedReserved    BedStatus = "RESERV"
)

// Bed is a physical bed tracked by the visit service. The patient, doctor
// and nurse references live in other services' stores.
type Bed struct {
	ID               int64
	BedNumber        string
	Status           BedStatus
	Location         string
	IsIsolation      bool
	SpecialEquipment *string
	LastCleaned      time.Time
	PatientID        *int64
	DoctorID         *int64
	NurseID          *int64
}

// Admission records an inpatient admission resulting from a visit. Exactly
// one admission per visit; the bed reference is local and survives bed
// deletion as null.
type Admission struct {
	ID                 int64
	VisitID            int64
	BedID              *int64
	AdmittedByID       int64
	AdmissionTime      time.Time
	DischargeTime      *time.Time
	AdmittingDiagnosis string
	Department         string
	Notes              *string
}
