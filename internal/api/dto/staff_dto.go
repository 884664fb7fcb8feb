package dto

import (
	"time"

	"github.com/spec-kit/emergency-services/internal/domain"
)

// StaffRequest payload for staff create/update. UserID references an
// account in the auth service.
type StaffRequest struct {
	UserID         int64            `json:"user_id"`
	Role           domain.StaffRole `json:"role"`
	Department     string           `json:"department"`
	LicenseNumber  *string          `json:"license_number"`
	Specialization *string          `json:"specialization"`
	HireDate       string           `json:"hire_date"`
	IsActive       *bool            `json:"is_active"`
	ShiftSchedule  *string          `json:"shift_schedule"`
}

// StaffResponse full staff representation.
type StaffResponse struct {
	ID             int64            `json:"id"`
	UserID         int64            `json:"user_id"`
	Role           domain.StaffRole `json:"role"`
	Department     string           `json:"department"`
	LicenseNumber  *string          `json:"license_number"`
	Specialization *string          `json:"specialization"`
	HireDate       string           `json:"hire_date"`
	IsActive       bool             `json:"is_active"`
	ShiftSchedule  *string          `json:"shift_schedule"`
}

// ClinicianRequest payload shared by doctor and nurse endpoints.
type ClinicianRequest struct {
	UserID         int64            `json:"user_id"`
	DateOfBirth    *string          `json:"date_of_birth"`
	Gender         *domain.Gender   `json:"gender"`
	Address        *string          `json:"address"`
	PhoneNumber    *string          `json:"phone_number"`
	BadgeNumber    string           `json:"badge_number"`
	DaysOff        *string          `json:"days_off"`
	WorkUnit       *domain.WorkUnit `json:"work_unit"`
	Specialization *string          `json:"specialization"`
	LicenseNumber  *string          `json:"license_number"`
	Certification  *string          `json:"certification"`
}

// DoctorResponse full physician representation.
type DoctorResponse struct {
	ID             int64            `json:"id"`
	UserID         int64            `json:"user_id"`
	DateOfBirth    *string          `json:"date_of_birth"`
	Gender         *domain.Gender   `json:"gender"`
	Address        *string          `json:"address"`
	PhoneNumber    *string          `json:"phone_number"`
	BadgeNumber    string           `json:"badge_number"`
	DaysOff        *string          `json:"days_off"`
	WorkUnit       *domain.WorkUnit `json:"work_unit"`
	Specialization *string          `json:"specialization"`
	LicenseNumber  *string          `json:"license_number"`
}

// NurseResponse full nurse representation.
type NurseResponse struct {
	ID            int64            `json:"id"`
	UserID        int64            `json:"user_id"`
	DateOfBirth   *string          `json:"date_of_birth"`
	Gender        *domain.Gender   `json:"gender"`
	Address       *string          `json:"address"`
	PhoneNumber   *string          `json:"phone_number"`
	BadgeNumber   string           `json:"badge_number"`
	DaysOff       *string          `json:"days_off"`
	WorkUnit      *domain.WorkUnit `json:"work_unit"`
	LicenseNumber *string          `json:"license_number"`
	Certification *string          `json:"certification"`
}

// DateOnly is the wire format for calendar dates.
const DateOnly = "2006-01-02"

// FormatDate renders an optional date in wire format.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateOnly)
	return &s
}
