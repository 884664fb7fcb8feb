package service

import (
	"context"

	"github.com/spec-kit/emergency-services/internal/config"
	"github.com/spec-kit/emergency-services/internal/domain"
	"github.com/spec-kit/emergency-services/internal/remote"
	"github.com/spec-kit/emergency-services/internal/repository"
)

// StaffService coordinates staff, doctor and nurse records. Every profile
// carries a user_id owned by the auth service; writes are accepted only
// after that reference passes a remote existence check.
type StaffService struct {
	staff     repository.StaffRepository
	doctors   repository.DoctorRepository
	nurses    repository.NurseRepository
	validator *remote.Validator
	services  config.ServicesConfig
}

// StaffDependencies bundles requirements for the staff service.
type StaffDependencies struct {
	StaffRepo  repository.StaffRepository
	DoctorRepo repository.DoctorRepository
	NurseRepo  repository.NurseRepository
	Validator  *remote.Validator
}

// NewStaffService constructs the service.
func NewStaffService(cfg config.Config, deps StaffDependencies) *StaffService {
	return &StaffService{
		staff:     deps.StaffRepo,
		doctors:   deps.DoctorRepo,
		nurses:    deps.NurseRepo,
		validator: deps.Validator,
		services:  cfg.Services,
	}
}

func (s *StaffService) userRef(field string, id *int64) remote.Ref {
	return remote.Ref{
		Base:     s.services.AuthBaseURL,
		Resource: "users",
		Field:    field,
		ID:       id,
	}
}

// CreateStaff persists a staff record after validating its user reference.
func (s *StaffService) CreateStaff(ctx context.Context, token string, staff *domain.Staff) error {
	if err := s.validator.ValidateAll(ctx, token, s.userRef("user_id", &staff.UserID)); err != nil {
		return err
	}
	return s.staff.Create(ctx, staff)
}

// UpdateStaff re-validates the user reference before replacing the row.
func (s *StaffService) UpdateStaff(ctx context.Context, token string, staff *domain.Staff) error {
	if err := s.validator.ValidateAll(ctx, token, s.userRef("user_id", &staff.UserID)); err != nil {
		return err
	}
	return s.staff.Update(ctx, staff)
}

// GetStaff loads one staff record.
func (s *StaffService) GetStaff(ctx context.Context, id int64) (*domain.Staff, error) {
	return s.staff.GetByID(ctx, id)
}

// ListStaff lists staff records.
func (s *StaffService) ListStaff(ctx context.Context, filter repository.StaffFilter) ([]domain.Staff, error) {
	return s.staff.List(ctx, filter)
}

// DeleteStaff removes a staff record.
func (s *StaffService) DeleteStaff(ctx context.Context, id int64) error {
	return s.staff.Delete(ctx, id)
}

// CreateDoctor persists a physician profile after validating its user
// reference. A duplicate badge number surfaces as a conflict.
func (s *StaffService) CreateDoctor(ctx context.Context, token string, doctor *domain.Doctor) error {
	if err := s.validator.ValidateAll(ctx, token, s.userRef("user_id", &doctor.UserID)); err != nil {
		return err
	}
	return s.doctors.Create(ctx, doctor)
}

// UpdateDoctor re-validates the user reference before replacing the row.
func (s *StaffService) UpdateDoctor(ctx context.Context, token string, doctor *domain.Doctor) error {
	if err := s.validator.ValidateAll(ctx, token, s.userRef("user_id", &doctor.UserID)); err != nil {
		return err
	}
	return s.doctors.Update(ctx, doctor)
}

// GetDoctor loads one physician profile.
func (s *StaffService) GetDoctor(ctx context.Context, id int64) (*domain.Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

// ListDoctors lists physician profiles.
func (s *StaffService) ListDoctors(ctx context.Context, filter repository.ClinicianFilter) ([]domain.Doctor, error) {
	return s.doctors.List(ctx, filter)
}

// DeleteDoctor removes a physician profile.
func (s *StaffService) DeleteDoctor(ctx context.Context, id int64) error {
	return s.doctors.Delete(ctx, id)
}

// CreateNurse persists a nurse profile after validating its user reference.
func (s *StaffService) CreateNurse(ctx context.Context, token string, nurse *domain.Nurse) error {
	if err := s.validator.ValidateAll(ctx, token, s.userRef("user_id", &nurse.UserID)); err != nil {
		return err
	}
	return s.nurses.Create(ctx, nurse)
}

// UpdateNurse re-validates the user reference before replacing the row.
func (s *StaffService) UpdateNurse(ctx context.Context, token string, nurse *domain.Nurse) error {
	if err := s.validator.ValidateAll(ctx, token, s.userRef("user_id", &nurse.UserID)); err != nil {
		return err
	}
	return s.nurses.Update(ctx, nurse)
}

// GetNurse loads one nurse profile.
func (s *StaffService) GetNurse(ctx context.Context, id int64) (*domain.Nurse, error) {
	return s.nurses.GetByID(ctx, id)
}

// ListNurses lists nurse profiles.
func (s *StaffService) ListNurses(ctx context.Context, filter repository.ClinicianFilter) ([]domain.Nurse, error) {
	return s.nurses.List(ctx, filter)
}

// DeleteNurse removes a nurse profile.
func (s *StaffService) DeleteNurse(ctx context.Context, id int64) error {
	return s.nurses.Delete(ctx, id)
}
