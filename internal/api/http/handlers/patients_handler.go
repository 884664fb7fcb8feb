package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/emergency-services/internal/api/dto"
	"github.com/spec-kit/emergency-services/internal/domain"
	"github.com/spec-kit/emergency-services/internal/repository"
	"github.com/spec-kit/emergency-services/internal/service"
	util "github.com/spec-kit/emergency-services/pkg/util"
)

// PatientsHandler manages patient and patient-file endpoints.
type PatientsHandler struct {
	service *service.PatientService
}

// NewPatientsHandler constructs handler.
func NewPatientsHandler(patientService *service.PatientService) *PatientsHandler {
	return &PatientsHandler{service: patientService}
}

// CreatePatient POST /patients.
func (h *PatientsHandler) CreatePatient(c *fiber.Ctx) error {
	patient, err := parsePatientRequest(c)
	if err != nil {
		return err
	}
	if err := h.service.CreatePatient(c.UserContext(), patient); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": patientResponse(patient)})
}

// GetPatient GET /patients/:id.
func (h *PatientsHandler) GetPatient(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	patient, err := h.service.GetPatient(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(patientResponse(patient))
}

// ListPatients GET /patients.
func (h *PatientsHandler) ListPatients(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter := repository.PatientFilter{
		LastName: queryString(c, "last_name"),
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}
	patients, err := h.service.ListPatients(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.PatientResponse, 0, len(patients))
	for i := range patients {
		items = append(items, patientResponse(&patients[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeletePatient DELETE /patients/:id.
func (h *PatientsHandler) DeletePatient(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeletePatient(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AttachFile POST /patients/:id/files.
func (h *PatientsHandler) AttachFile(c *fiber.Ctx) error {
	patientID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.PatientFileRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.FileName) == "" {
		return util.NewValidationError("file_name required", nil)
	}
	file := &domain.PatientFile{
		PatientID:   patientID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	}
	if err := h.service.AttachFile(c.UserContext(), file); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": patientFileResponse(file)})
}

// ListFiles GET /patients/:id/files.
func (h *PatientsHandler) ListFiles(c *fiber.Ctx) error {
	patientID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	files, err := h.service.ListFiles(c.UserContext(), patientID)
	if err != nil {
		return err
	}
	items := make([]dto.PatientFileResponse, 0, len(files))
	for i := range files {
		items = append(items, patientFileResponse(&files[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetFile GET /patients/:id/files/:fileID.
func (h *PatientsHandler) GetFile(c *fiber.Ctx) error {
	fileID, err := parseID(c, "fileID")
	if err != nil {
		return err
	}
	file, err := h.service.GetFile(c.UserContext(), fileID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": patientFileResponse(file)})
}

// DeleteFile DELETE /patients/:id/files/:fileID.
func (h *PatientsHandler) DeleteFile(c *fiber.Ctx) error {
	fileID, err := parseID(c, "fileID")
	if err != nil {
		return err
	}
	if err := h.service.DeleteFile(c.UserContext(), fileID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parsePatientRequest(c *fiber.Ctx) (*domain.Patient, error) {
	var req dto.PatientRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, util.NewValidationError("invalid payload", nil)
	}
	dob, err := parseDate(req.DateOfBirth, "date_of_birth")
	if err != nil {
		return nil, err
	}
	return &domain.Patient{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		DateOfBirth:           dob,
		Gender:                req.Gender,
		Address:               req.Address,
		PhoneNumber:           req.PhoneNumber,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		BloodType:             req.BloodType,
		Allergies:             req.Allergies,
		PreExistingConditions: req.PreExistingConditions,
		InsuranceInfo:         req.InsuranceInfo,
	}, nil
}

func patientResponse(patient *domain.Patient) dto.PatientResponse {
	return dto.PatientResponse{
		ID:                    patient.ID,
		FirstName:             patient.FirstName,
		LastName:              patient.LastName,
		DateOfBirth:           patient.DateOfBirth.Format(dto.DateOnly),
		Gender:                patient.Gender,
		Address:               patient.Address,
		PhoneNumber:           patient.PhoneNumber,
		EmergencyContactName:  patient.EmergencyContactName,
		EmergencyContactPhone: patient.EmergencyContactPhone,
		BloodType:             patient.BloodType,
		Allergies:             patient.Allergies,
		PreExistingConditions: patient.PreExistingConditions,
		InsuranceInfo:         patient.InsuranceInfo,
		CreatedAt:             patient.CreatedAt,
		UpdatedAt:             patient.UpdatedAt,
	}
}

func patientFileResponse(file *domain.PatientFile) dto.PatientFileResponse {
	return dto.PatientFileResponse{
		ID:          file.ID,
		PatientID:   file.PatientID,
		FileName:    file.FileName,
		ContentType: file.ContentType,
		SizeBytes:   file.SizeBytes,
		StorageKey:  file.StorageKey,
		UploadedAt:  file.UploadedAt,
	}
}
