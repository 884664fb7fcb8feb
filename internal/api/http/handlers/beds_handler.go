package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/emergency-services/internal/api/dto"
	"github.com/spec-kit/emergency-services/internal/config"
	"github.com/spec-kit/emergency-services/internal/domain"
	"github.com/spec-kit/emergency-services/internal/remote"
	"github.com/spec-kit/emergency-services/internal/repository"
	"github.com/spec-kit/emergency-services/internal/service"
	util "github.com/spec-kit/emergency-services/pkg/util"
)

// BedsHandler manages bed and admission endpoints.
type BedsHandler struct {
	service  *service.VisitService
	enricher *remote.Enricher
	services config.ServicesConfig
}

// NewBedsHandler constructs handler.
func NewBedsHandler(visitService *service.VisitService, enricher *remote.Enricher, services config.ServicesConfig) *BedsHandler {
	return &BedsHandler{service: visitService, enricher: enricher, services: services}
}

// CreateBed POST /beds.
func (h *BedsHandler) CreateBed(c *fiber.Ctx) error {
	bed, err := parseBedRequest(c)
	if err != nil {
		return err
	}
	if err := h.service.CreateBed(c.UserContext(), remote.TokenFromContext(c), bed); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": h.bedResponse(c, bed)})
}

// UpdateBed PUT /beds/:id.
func (h *BedsHandler) UpdateBed(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	bed, err := parseBedRequest(c)
	if err != nil {
		return err
	}
	bed.ID = id
	if err := h.service.UpdateBed(c.UserContext(), remote.TokenFromContext(c), actorFromContext(c), bed); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.bedResponse(c, bed)})
}

// GetBed GET /beds/:id.
func (h *BedsHandler) GetBed(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	bed, err := h.service.GetBed(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(h.bedResponse(c, bed))
}

// ListBeds GET /beds.
func (h *BedsHandler) ListBeds(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter := repository.BedFilter{
		Location:    queryString(c, "location"),
		IsIsolation: queryBool(c, "is_isolation"),
		Limit:       pageSize,
		Offset:      (page - 1) * pageSize,
	}
	if status := c.Query("status"); status != "" {
		s := domain.BedStatus(strings.ToUpper(status))
		filter.Status = &s
	}
	beds, err := h.service.ListBeds(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.BedResponse, 0, len(beds))
	for i := range beds {
		items = append(items, h.bedResponse(c, &beds[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteBed DELETE /beds/:id.
func (h *BedsHandler) DeleteBed(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteBed(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateAdmission POST /admissions.
func (h *BedsHandler) CreateAdmission(c *fiber.Ctx) error {
	var req dto.AdmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	details := map[string]any{}
	if req.VisitID <= 0 {
		details["visit_id"] = "visit_id is required"
	}
	if req.AdmittedByID <= 0 {
		details["admitted_by_id"] = "admitted_by_id is required"
	}
	if len(details) > 0 {
		return util.NewValidationError("invalid payload", details)
	}
	admission := &domain.Admission{
		VisitID:            req.VisitID,
		BedID:              req.BedID,
		AdmittedByID:       req.AdmittedByID,
		AdmittingDiagnosis: req.AdmittingDiagnosis,
		Department:         req.Department,
		Notes:              req.Notes,
	}
	if err := h.service.AdmitPatient(c.UserContext(), remote.TokenFromContext(c), actorFromContext(c), admission); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": h.admissionResponse(c, admission)})
}

// GetAdmission GET /admissions/:id.
func (h *BedsHandler) GetAdmission(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	admission, err := h.service.GetAdmission(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.admissionResponse(c, admission)})
}

// GetVisitAdmission GET /visits/:id/admission.
func (h *BedsHandler) GetVisitAdmission(c *fiber.Ctx) error {
	visitID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	admission, err := h.service.GetAdmissionByVisit(c.UserContext(), visitID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.admissionResponse(c, admission)})
}

// ListAdmissions GET /admissions.
func (h *BedsHandler) ListAdmissions(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	admissions, err := h.service.ListAdmissions(c.UserContext(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.AdmissionResponse, 0, len(admissions))
	for i := range admissions {
		items = append(items, h.admissionResponse(c, &admissions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DischargeAdmission POST /admissions/:id/discharge.
func (h *BedsHandler) DischargeAdmission(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	admission, err := h.service.DischargeAdmission(c.UserContext(), actorFromContext(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.admissionResponse(c, admission)})
}

// DeleteAdmission DELETE /admissions/:id.
func (h *BedsHandler) DeleteAdmission(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteAdmission(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseBedRequest(c *fiber.Ctx) (*domain.Bed, error) {
	var req dto.BedRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, util.NewValidationError("invalid payload", nil)
	}
	return &domain.Bed{
		BedNumber:        req.BedNumber,
		Status:           req.Status,
		Location:         req.Location,
		IsIsolation:      req.IsIsolation,
		SpecialEquipment: req.SpecialEquipment,
		PatientID:        req.PatientID,
		DoctorID:         req.DoctorID,
		NurseID:          req.NurseID,
	}, nil
}

func (h *BedsHandler) enrich(c *fiber.Ctx, base, resource string, id *int64) map[string]any {
	return h.enricher.Enrich(c.UserContext(), remote.TokenFromContext(c), base, resource, id)
}

func (h *BedsHandler) bedResponse(c *fiber.Ctx, bed *domain.Bed) dto.BedResponse {
	return dto.BedResponse{
		ID:               bed.ID,
		BedNumber:        bed.BedNumber,
		Status:           bed.Status,
		Location:         bed.Location,
		IsIsolation:      bed.IsIsolation,
		SpecialEquipment: bed.SpecialEquipment,
		LastCleaned:      bed.LastCleaned,
		PatientID:        bed.PatientID,
		PatientDetails:   h.enrich(c, h.services.PatientBaseURL, "patients", bed.PatientID),
		DoctorID:         bed.DoctorID,
		DoctorDetails:    h.enrich(c, h.services.StaffBaseURL, "doctors", bed.DoctorID),
		NurseID:          bed.NurseID,
		NurseDetails:     h.enrich(c, h.services.StaffBaseURL, "nurses", bed.NurseID),
	}
}

func (h *BedsHandler) admissionResponse(c *fiber.Ctx, admission *domain.Admission) dto.AdmissionResponse {
	return dto.AdmissionResponse{
		ID:                 admission.ID,
		VisitID:            admission.VisitID,
		BedID:              admission.BedID,
		AdmittedByID:       admission.AdmittedByID,
		AdmittedByDetails:  h.enrich(c, h.services.AuthBaseURL, "users", &admission.AdmittedByID),
		AdmissionTime:      admission.AdmissionTime,
		DischargeTime:      admission.DischargeTime,
		AdmittingDiagnosis: admission.AdmittingDiagnosis,
		Department:         admission.Department,
		Notes:              admission.Notes,
	}
}
