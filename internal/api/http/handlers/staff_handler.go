package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/emergency-services/internal/api/dto"
	"github.com/spec-kit/emergency-services/internal/domain"
	"github.com/spec-kit/emergency-services/internal/remote"
	"github.com/spec-kit/emergency-services/internal/repository"
	"github.com/spec-kit/emergency-services/internal/service"
	util "github.com/spec-kit/emergency-services/pkg/util"
)

// StaffHandler manages staff, doctor and nurse endpoints.
type StaffHandler struct {
	service *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{service: staffService}
}

// CreateStaff POST /staff.
func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	staff, err := parseStaffRequest(c)
	if err != nil {
		return err
	}
	if err := h.service.CreateStaff(c.UserContext(), remote.TokenFromContext(c), staff); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": staffResponse(staff)})
}

// UpdateStaff PUT /staff/:id.
func (h *StaffHandler) UpdateStaff(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	staff, err := parseStaffRequest(c)
	if err != nil {
		return err
	}
	staff.ID = id
	if err := h.service.UpdateStaff(c.UserContext(), remote.TokenFromContext(c), staff); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(staff)})
}

// GetStaff GET /staff/:id.
func (h *StaffHandler) GetStaff(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	staff, err := h.service.GetStaff(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(staffResponse(staff))
}

// ListStaff GET /staff.
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter := repository.StaffFilter{
		Department: queryString(c, "department"),
		Active:     queryBool(c, "is_active"),
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	}
	if role := c.Query("role"); role != "" {
		r := domain.StaffRole(strings.ToUpper(role))
		filter.Role = &r
	}
	staff, err := h.service.ListStaff(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.StaffResponse, 0, len(staff))
	for i := range staff {
		items = append(items, staffResponse(&staff[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteStaff DELETE /staff/:id.
func (h *StaffHandler) DeleteStaff(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteStaff(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateDoctor POST /doctors.
func (h *StaffHandler) CreateDoctor(c *fiber.Ctx) error {
	doctor, err := parseDoctorRequest(c)
	if err != nil {
		return err
	}
	if err := h.service.CreateDoctor(c.UserContext(), remote.TokenFromContext(c), doctor); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": doctorResponse(doctor)})
}

// UpdateDoctor PUT /doctors/:id.
func (h *StaffHandler) UpdateDoctor(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	doctor, err := parseDoctorRequest(c)
	if err != nil {
		return err
	}
	doctor.ID = id
	if err := h.service.UpdateDoctor(c.UserContext(), remote.TokenFromContext(c), doctor); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": doctorResponse(doctor)})
}

// GetDoctor GET /doctors/:id.
func (h *StaffHandler) GetDoctor(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	doctor, err := h.service.GetDoctor(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(doctorResponse(doctor))
}

// ListDoctors GET /doctors.
func (h *StaffHandler) ListDoctors(c *fiber.Ctx) error {
	doctors, err := h.service.ListDoctors(c.UserContext(), parseClinicianQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.DoctorResponse, 0, len(doctors))
	for i := range doctors {
		items = append(items, doctorResponse(&doctors[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteDoctor DELETE /doctors/:id.
func (h *StaffHandler) DeleteDoctor(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteDoctor(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateNurse POST /nurses.
func (h *StaffHandler) CreateNurse(c *fiber.Ctx) error {
	nurse, err := parseNurseRequest(c)
	if err != nil {
		return err
	}
	if err := h.service.CreateNurse(c.UserContext(), remote.TokenFromContext(c), nurse); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": nurseResponse(nurse)})
}

// UpdateNurse PUT /nurses/:id.
func (h *StaffHandler) UpdateNurse(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	nurse, err := parseNurseRequest(c)
	if err != nil {
		return err
	}
	nurse.ID = id
	if err := h.service.UpdateNurse(c.UserContext(), remote.TokenFromContext(c), nurse); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": nurseResponse(nurse)})
}

// GetNurse GET /nurses/:id.
func (h *StaffHandler) GetNurse(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	nurse, err := h.service.GetNurse(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(nurseResponse(nurse))
}

// ListNurses GET /nurses.
func (h *StaffHandler) ListNurses(c *fiber.Ctx) error {
	nurses, err := h.service.ListNurses(c.UserContext(), parseClinicianQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.NurseResponse, 0, len(nurses))
	for i := range nurses {
		items = append(items, nurseResponse(&nurses[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteNurse DELETE /nurses/:id.
func (h *StaffHandler) DeleteNurse(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteNurse(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseClinicianQuery(c *fiber.Ctx) repository.ClinicianFilter {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter := repository.ClinicianFilter{
		BadgeNumber: queryString(c, "badge_number"),
		Limit:       pageSize,
		Offset:      (page - 1) * pageSize,
	}
	if unit := c.Query("work_unit"); unit != "" {
		u := domain.WorkUnit(strings.ToUpper(unit))
		filter.WorkUnit = &u
	}
	return filter
}

func parseStaffRequest(c *fiber.Ctx) (*domain.Staff, error) {
	var req dto.StaffRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, util.NewValidationError("invalid payload", nil)
	}
	if req.UserID <= 0 {
		return nil, util.NewValidationError("invalid payload", map[string]any{
			"user_id": "user_id is required",
		})
	}
	hireDate, err := parseDate(req.HireDate, "hire_date")
	if err != nil {
		return nil, err
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &domain.Staff{
		UserID:         req.UserID,
		Role:           req.Role,
		Department:     req.Department,
		LicenseNumber:  req.LicenseNumber,
		Specialization: req.Specialization,
		HireDate:       hireDate,
		IsActive:       active,
		ShiftSchedule:  req.ShiftSchedule,
	}, nil
}

func parseDoctorRequest(c *fiber.Ctx) (*domain.Doctor, error) {
	req, dob, err := parseClinicianRequest(c)
	if err != nil {
		return nil, err
	}
	return &domain.Doctor{
		UserID:         req.UserID,
		DateOfBirth:    dob,
		Gender:         req.Gender,
		Address:        req.Address,
		PhoneNumber:    req.PhoneNumber,
		BadgeNumber:    req.BadgeNumber,
		DaysOff:        req.DaysOff,
		WorkUnit:       req.WorkUnit,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
	}, nil
}

func parseNurseRequest(c *fiber.Ctx) (*domain.Nurse, error) {
	req, dob, err := parseClinicianRequest(c)
	if err != nil {
		return nil, err
	}
	return &domain.Nurse{
		UserID:        req.UserID,
		DateOfBirth:   dob,
		Gender:        req.Gender,
		Address:       req.Address,
		PhoneNumber:   req.PhoneNumber,
		BadgeNumber:   req.BadgeNumber,
		DaysOff:       req.DaysOff,
		WorkUnit:      req.WorkUnit,
		LicenseNumber: req.LicenseNumber,
		Certification: req.Certification,
	}, nil
}

func parseClinicianRequest(c *fiber.Ctx) (*dto.ClinicianRequest, *time.Time, error) {
	var req dto.ClinicianRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, nil, util.NewValidationError("invalid payload", nil)
	}
	details := map[string]any{}
	if req.UserID <= 0 {
		details["user_id"] = "user_id is required"
	}
	if strings.TrimSpace(req.BadgeNumber) == "" {
		details["badge_number"] = "badge_number is required"
	}
	if len(details) > 0 {
		return nil, nil, util.NewValidationError("invalid payload", details)
	}
	dob, err := parseOptionalDate(req.DateOfBirth, "date_of_birth")
	if err != nil {
		return nil, nil, err
	}
	return &req, dob, nil
}

func staffResponse(staff *domain.Staff) dto.StaffResponse {
	return dto.StaffResponse{
		ID:             staff.ID,
		UserID:         staff.UserID,
		Role:           staff.Role,
		Department:     staff.Department,
		LicenseNumber:  staff.LicenseNumber,
		Specialization: staff.Specialization,
		HireDate:       staff.HireDate.Format(dto.DateOnly),
		IsActive:       staff.IsActive,
		ShiftSchedule:  staff.ShiftSchedule,
	}
}

func doctorResponse(doctor *domain.Doctor) dto.DoctorResponse {
	return dto.DoctorResponse{
		ID:             doctor.ID,
		UserID:         doctor.UserID,
		DateOfBirth:    dto.FormatDate(doctor.DateOfBirth),
		Gender:         doctor.Gender,
		Address:        doctor.Address,
		PhoneNumber:    doctor.PhoneNumber,
		BadgeNumber:    doctor.BadgeNumber,
		DaysOff:        doctor.DaysOff,
		WorkUnit:       doctor.WorkUnit,
		Specialization: doctor.Specialization,
		LicenseNumber:  doctor.LicenseNumber,
	}
}

func nurseResponse(nurse *domain.Nurse) dto.NurseResponse {
	return dto.NurseResponse{
		ID:            nurse.ID,
		UserID:        nurse.UserID,
		DateOfBirth:   dto.FormatDate(nurse.DateOfBirth),
		Gender:        nurse.Gender,
		Address:       nurse.Address,
		PhoneNumber:   nurse.PhoneNumber,
		BadgeNumber:   nurse.BadgeNumber,
		DaysOff:       nurse.DaysOff,
		WorkUnit:      nurse.WorkUnit,
		LicenseNumber: nurse.LicenseNumber,
		Certification: nurse.Certification,
	}
}
