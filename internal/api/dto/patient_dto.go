package dto

import (
	"time"

	"github.com/spec-kit/emergency-services/internal/domain"
)

// PatientRequest payload for patient create/update. DateOfBirth is an
// ISO date (2006-01-02).
type PatientRequest struct {
	FirstName             string        `json:"first_name"`
	LastName              string        `json:"last_name"`
	DateOfBirth           string        `json:"date_of_birth"`
	Gender                domain.Gender `json:"gender"`
	Address               string        `json:"address"`
	PhoneNumber           string        `json:"phone_number"`
	EmergencyContactName  string        `json:"emergency_contact_name"`
	EmergencyContactPhone string        `json:"emergency_contact_phone"`
	BloodType             *string       `json:"blood_type"`
	Allergies             *string       `json:"allergies"`
	PreExistingConditions *string       `json:"pre_existing_conditions"`
	InsuranceInfo         *string       `json:"insurance_info"`
}

// PatientResponse full patient representation.
type PatientResponse struct {
	ID                    int64         `json:"id"`
	FirstName             string        `json:"first_name"`
	LastName              string        `json:"last_name"`
	DateOfBirth           string        `json:"date_of_birth"`
	Gender                domain.Gender `json:"gender"`
	Address               string        `json:"address"`
	PhoneNumber           string        `json:"phone_number"`
	EmergencyContactName  string        `json:"emergency_contact_name"`
	EmergencyContactPhone string        `json:"emergency_contact_phone"`
	BloodType             *string       `json:"blood_type"`
	Allergies             *string       `json:"allergies"`
	PreExistingConditions *string       `json:"pre_existing_conditions"`
	InsuranceInfo         *string       `json:"insurance_info"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

// PatientFileRequest describes an uploaded document's metadata.
type PatientFileRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// PatientFileResponse metadata for a stored document.
type PatientFileResponse struct {
	ID          int64     `json:"id"`
	PatientID   int64     `json:"patient_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	StorageKey  string    `json:"storage_key"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
