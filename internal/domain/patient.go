package domain

import "time"

// Gender codes follow the single-letter convention shared by patient and
// staff records.
type Gender string

const (
	GenderMale    Gender = "M"
	GenderFemale  Gender = "F"
	GenderOther   Gender = "O"
	GenderUnknown Gender = "U"
)

// Patient is the demographic record owned by the patient service.
type Patient struct {
	ID                    int64
	FirstName             string
	LastName              string
	DateOfBirth           time.Time
	Gender                Gender
	Address               string
	PhoneNumber           string
	EmergencyContactName  string
	EmergencyContactPhone string
	BloodType             *string
	Allergies             *string
	PreExistingConditions *string
	InsuranceInfo         *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// PatientFile is metadata for a document attached to a patient. The bytes
// live in external storage under StorageKey.
type PatientFile struct {
	ID          int64
	PatientID   int64
	FileName    string
	ContentType string
	SizeBytes   int64
	StorageKey  string
	UploadedAt  time.Time
}
