package domain

import "time"

// StaffRole enumerates non-clinical staff roles.
type StaffRole string

const (
	StaffRoleTechnician    StaffRole = "TEC"
	StaffRoleAdministrator StaffRole = "ADM"
	StaffRoleResident      StaffRole = "RES"
	StaffRoleIntern        StaffRole = "INT"
)

// WorkUnit enumerates hospital units a clinician can be assigned to.
type WorkUnit string

const (
	UnitICU     WorkUnit = "ICU"
	UnitER      WorkUnit = "ER"
	UnitCCU     WorkUnit = "CCU"
	UnitNICU    WorkUnit = "NICU"
	UnitPACU    WorkUnit = "PACU"
	UnitMedSurg WorkUnit = "MED-SURG"
	UnitLD      WorkUnit = "L&D"
)

// Staff is a non-clinical staff record. UserID points at an identity in the
// auth service and is only validated transiently at write time.
type Staff struct {
	ID             int64
	UserID         int64
	Role           StaffRole
	Department     string
	LicenseNumber  *string
	Specialization *string
	HireDate       time.Time
	IsActive       bool
	ShiftSchedule  *string
}

// Doctor is a physician profile. BadgeNumber is unique within the staff
// service's store.
type Doctor struct {
	ID             int64
	UserID         int64
	DateOfBirth    *time.Time
	Gender         *Gender
	Address        *string
	PhoneNumber    *string
	BadgeNumber    string
	DaysOff        *string
	WorkUnit       *WorkUnit
	Specialization *string
	LicenseNumber  *string
}

// Nurse is a nurse profile, mirroring Doctor with a certification field.
type Nurse struct {
	ID            int64
	UserID        int64
	DateOfBirth   *time.Time
	Gender        *Gender
	Address       *string
	PhoneNumber   *string
	BadgeNumber   string
	DaysOff       *string
	WorkUnit      *WorkUnit
	LicenseNumber *string
	Certification *string
}
