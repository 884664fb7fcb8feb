package events

import (
	"time"

	"github.com/spec-kit/emergency-services/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventVisitRegistered   EventType = "visit_registered"
	EventVisitDischarged   EventType = "visit_discharged"
	EventPatientAdmitted   EventType = "patient_admitted"
	EventBedAssigned       EventType = "bed_assigned"
	EventInventoryLowStock EventType = "inventory_low_stock"
)

// Actor captures who triggered an event; UserID is the remote-resolved
// identity of the caller, absent for anonymous/internal triggers.
type Actor struct {
	UserID   *int64 `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// VisitRegisteredPayload payload.
type VisitRegisteredPayload struct {
	VisitID     int64              `json:"visit_id"`
	PatientID   int64              `json:"patient_id"`
	TriageLevel domain.TriageLevel `json:"triage_level"`
}

// VisitDischargedPayload payload.
type VisitDischargedPayload struct {
	VisitID            int64  `json:"visit_id"`
	DischargeDiagnosis string `json:"discharge_diagnosis,omitempty"`
}

// PatientAdmittedPayload payload.
type PatientAdmittedPayload struct {
	AdmissionID int64  `json:"admission_id"`
	VisitID     int64  `json:"visit_id"`
	BedID       *int64 `json:"bed_id,omitempty"`
	Department  string `json:"department"`
}

// BedAssignedPayload payload.
type BedAssignedPayload struct {
	BedID     int64  `json:"bed_id"`
	BedNumber string `json:"bed_number"`
	PatientID *int64 `json:"patient_id,omitempty"`
}

// InventoryLowStockPayload payload.
type InventoryLowStockPayload struct {
	ItemID       int64  `json:"item_id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	MinimumStock int    `json:"minimum_stock"`
}
