package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/emergency-services/internal/api/dto"
	"github.com/spec-kit/emergency-services/internal/config"
	"github.com/spec-kit/emergency-services/internal/domain"
	"github.com/spec-kit/emergency-services/internal/events"
	"github.com/spec-kit/emergency-services/internal/remote"
	"github.com/spec-kit/emergency-services/internal/repository"
	"github.com/spec-kit/emergency-services/internal/service"
	util "github.com/spec-kit/emergency-services/pkg/util"
)

// VisitsHandler manages visit endpoints and the clinical child resources.
// Read responses carry *_details blocks resolved from the owning services;
// a failed lookup degrades to a placeholder and never fails the read.
type VisitsHandler struct {
	service  *service.VisitService
	enricher *remote.Enricher
	services config.ServicesConfig
}

// NewVisitsHandler constructs handler.
func NewVisitsHandler(visitService *service.VisitService, enricher *remote.Enricher, services config.ServicesConfig) *VisitsHandler {
	return &VisitsHandler{service: visitService, enricher: enricher, services: services}
}

func actorFromContext(c *fiber.Ctx) events.Actor {
	identity, ok := remote.IdentityFromContext(c)
	if !ok {
		return events.Actor{}
	}
	return events.Actor{UserID: &identity.ID, Username: identity.Username}
}

// CreateVisit POST /visits.
func (h *VisitsHandler) CreateVisit(c *fiber.Ctx) error {
	visit, err := parseVisitRequest(c)
	if err != nil {
		return err
	}
	token := remote.TokenFromContext(c)
	if err := h.service.RegisterVisit(c.UserContext(), token, actorFromContext(c), visit); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": h.visitResponse(c, visit)})
}

// UpdateVisit PUT /visits/:id.
func (h *VisitsHandler) UpdateVisit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	visit, err := parseVisitRequest(c)
	if err != nil {
		return err
	}
	visit.ID = id
	token := remote.TokenFromContext(c)
	if err := h.service.UpdateVisit(c.UserContext(), token, actorFromContext(c), visit); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.visitResponse(c, visit)})
}

// GetVisit GET /visits/:id.
func (h *VisitsHandler) GetVisit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	visit, err := h.service.GetVisit(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(h.visitResponse(c, visit))
}

// ListVisits GET /visits.
func (h *VisitsHandler) ListVisits(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter := repository.VisitFilter{
		PatientID:  queryInt64(c, "patient_id"),
		IsAdmitted: queryBool(c, "is_admitted"),
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	}
	if level := parseInt(c.Query("triage_level"), 0); level > 0 {
		tl := domain.TriageLevel(level)
		filter.TriageLevel = &tl
	}
	visits, err := h.service.ListVisits(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.VisitResponse, 0, len(visits))
	for i := range visits {
		items = append(items, h.visitResponse(c, &visits[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DischargeVisit POST /visits/:id/discharge.
func (h *VisitsHandler) DischargeVisit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.DischargeRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	visit, err := h.service.DischargeVisit(c.UserContext(), actorFromContext(c), id, req.DischargeDiagnosis, req.DischargeInstructions)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.visitResponse(c, visit)})
}

// DeleteVisit DELETE /visits/:id.
func (h *VisitsHandler) DeleteVisit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteVisit(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateVitalSign POST /visits/:id/vital-signs.
func (h *VisitsHandler) CreateVitalSign(c *fiber.Ctx) error {
	visitID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.VitalSignRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	vs := &domain.VitalSign{
		VisitID:                visitID,
		RecordedByID:           req.RecordedByID,
		Temperature:            req.Temperature,
		HeartRate:              req.HeartRate,
		BloodPressureSystolic:  req.BloodPressureSystolic,
		BloodPressureDiastolic: req.BloodPressureDiastolic,
		RespiratoryRate:        req.RespiratoryRate,
		OxygenSaturation:       req.OxygenSaturation,
		PainLevel:              req.PainLevel,
		GCSScore:               req.GCSScore,
		Notes:                  req.Notes,
	}
	if err := h.service.RecordVitalSign(c.UserContext(), remote.TokenFromContext(c), vs); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": h.vitalSignResponse(c, vs)})
}

// ListVitalSigns GET /visits/:id/vital-signs.
func (h *VisitsHandler) ListVitalSigns(c *fiber.Ctx) error {
	visitID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	vitals, err := h.service.ListVitalSigns(c.UserContext(), visitID)
	if err != nil {
		return err
	}
	items := make([]dto.VitalSignResponse, 0, len(vitals))
	for i := range vitals {
		items = append(items, h.vitalSignResponse(c, &vitals[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetVitalSign GET /visits/:id/vital-signs/:childID.
func (h *VisitsHandler) GetVitalSign(c *fiber.Ctx) error {
	childID, err := parseID(c, "childID")
	if err != nil {
		return err
	}
	vs, err := h.service.GetVitalSign(c.UserContext(), childID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.vitalSignResponse(c, vs)})
}

// DeleteVitalSign DELETE /visits/:id/vital-signs/:childID.
func (h *VisitsHandler) DeleteVitalSign(c *fiber.Ctx) error {
	childID, err := parseID(c, "childID")
	if err != nil {
		return err
	}
	if err := h.service.DeleteVitalSign(c.UserContext(), childID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateTreatment POST /visits/:id/treatments.
func (h *VisitsHandler) CreateTreatment(c *fiber.Ctx) error {
	visitID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.TreatmentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	treatmentType := req.TreatmentType
	if treatmentType == "" {
		treatmentType = domain.TreatmentOther
	}
	t := &domain.Treatment{
		VisitID:          visitID,
		TreatmentType:    treatmentType,
		Name:             req.Name,
		Description:      req.Description,
		AdministeredByID: req.AdministeredByID,
		Dosage:           req.Dosage,
		Outcome:          req.Outcome,
		Complications:    req.Complications,
	}
	if err := h.service.RecordTreatment(c.UserContext(), remote.TokenFromContext(c), t); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": h.treatmentResponse(c, t)})
}

// ListTreatments GET /visits/:id/treatments.
func (h *VisitsHandler) ListTreatments(c *fiber.Ctx) error {
	visitID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	treatments, err := h.service.ListTreatments(c.UserContext(), visitID)
	if err != nil {
		return err
	}
	items := make([]dto.TreatmentResponse, 0, len(treatments))
	for i := range treatments {
		items = append(items, h.treatmentResponse(c, &treatments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTreatment GET /visits/:id/treatments/:childID.
func (h *VisitsHandler) GetTreatment(c *fiber.Ctx) error {
	childID, err := parseID(c, "childID")
	if err != nil {
		return err
	}
	t, err := h.service.GetTreatment(c.UserContext(), childID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.treatmentResponse(c, t)})
}

// DeleteTreatment DELETE /visits/:id/treatments/:childID.
func (h *VisitsHandler) DeleteTreatment(c *fiber.Ctx) error {
	childID, err := parseID(c, "childID")
	if err != nil {
		return err
	}
	if err := h.service.DeleteTreatment(c.UserContext(), childID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateDiagnosis POST /visits/:id/diagnoses.
func (h *VisitsHandler) CreateDiagnosis(c *fiber.Ctx) error {
	visitID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.DiagnosisRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	d := &domain.Diagnosis{
		VisitID:       visitID,
		Code:          strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:   req.Description,
		DiagnosedByID: req.DiagnosedByID,
		IsPrimary:     req.IsPrimary,
		Notes:         req.Notes,
	}
	if err := h.service.RecordDiagnosis(c.UserContext(), remote.TokenFromContext(c), d); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": h.diagnosisResponse(c, d)})
}

// ListDiagnoses GET /visits/:id/diagnoses.
func (h *VisitsHandler) ListDiagnoses(c *fiber.Ctx) error {
	visitID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	diagnoses, err := h.service.ListDiagnoses(c.UserContext(), visitID)
	if err != nil {
		return err
	}
	items := make([]dto.DiagnosisResponse, 0, len(diagnoses))
	for i := range diagnoses {
		items = append(items, h.diagnosisResponse(c, &diagnoses[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetDiagnosis GET /visits/:id/diagnoses/:childID.
func (h *VisitsHandler) GetDiagnosis(c *fiber.Ctx) error {
	childID, err := parseID(c, "childID")
	if err != nil {
		return err
	}
	d, err := h.service.GetDiagnosis(c.UserContext(), childID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.diagnosisResponse(c, d)})
}

// DeleteDiagnosis DELETE /visits/:id/diagnoses/:childID.
func (h *VisitsHandler) DeleteDiagnosis(c *fiber.Ctx) error {
	childID, err := parseID(c, "childID")
	if err != nil {
		return err
	}
	if err := h.service.DeleteDiagnosis(c.UserContext(), childID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreatePrescription POST /visits/:id/prescriptions.
func (h *VisitsHandler) CreatePrescription(c *fiber.Ctx) error {
	visitID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.PrescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	p := &domain.Prescription{
		VisitID:        visitID,
		Medication:     req.Medication,
		Dosage:         req.Dosage,
		Frequency:      req.Frequency,
		Duration:       req.Duration,
		PrescribedByID: req.PrescribedByID,
		Instructions:   req.Instructions,
		IsDispensed:    req.IsDispensed,
		Refills:        req.Refills,
	}
	if err := h.service.RecordPrescription(c.UserContext(), remote.TokenFromContext(c), p); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": h.prescriptionResponse(c, p)})
}

// ListPrescriptions GET /visits/:id/prescriptions.
func (h *VisitsHandler) ListPrescriptions(c *fiber.Ctx) error {
	visitID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	prescriptions, err := h.service.ListPrescriptions(c.UserContext(), visitID)
	if err != nil {
		return err
	}
	items := make([]dto.PrescriptionResponse, 0, len(prescriptions))
	for i := range prescriptions {
		items = append(items, h.prescriptionResponse(c, &prescriptions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetPrescription GET /visits/:id/prescriptions/:childID.
func (h *VisitsHandler) GetPrescription(c *fiber.Ctx) error {
	childID, err := parseID(c, "childID")
	if err != nil {
		return err
	}
	p, err := h.service.GetPrescription(c.UserContext(), childID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.prescriptionResponse(c, p)})
}

// DeletePrescription DELETE /visits/:id/prescriptions/:childID.
func (h *VisitsHandler) DeletePrescription(c *fiber.Ctx) error {
	childID, err := parseID(c, "childID")
	if err != nil {
		return err
	}
	if err := h.service.DeletePrescription(c.UserContext(), childID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseVisitRequest(c *fiber.Ctx) (*domain.EmergencyVisit, error) {
	var req dto.VisitRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, util.NewValidationError("invalid payload", nil)
	}
	if req.PatientID <= 0 {
		return nil, util.NewValidationError("invalid payload", map[string]any{
			"patient_id": "patient_id is required",
		})
	}
	return &domain.EmergencyVisit{
		PatientID:            req.PatientID,
		TriageLevel:          req.TriageLevel,
		ChiefComplaint:       strings.TrimSpace(req.ChiefComplaint),
		InitialObservation:   req.InitialObservation,
		AttendingPhysicianID: req.AttendingPhysicianID,
		TriageNurseID:        req.TriageNurseID,
	}, nil
}

func (h *VisitsHandler) enrich(c *fiber.Ctx, base, resource string, id *int64) map[string]any {
	return h.enricher.Enrich(c.UserContext(), remote.TokenFromContext(c), base, resource, id)
}

func (h *VisitsHandler) visitResponse(c *fiber.Ctx, visit *domain.EmergencyVisit) dto.VisitResponse {
	return dto.VisitResponse{
		ID:                        visit.ID,
		PatientID:                 visit.PatientID,
		PatientDetails:            h.enrich(c, h.services.PatientBaseURL, "patients", &visit.PatientID),
		ArrivalTime:               visit.ArrivalTime,
		TriageLevel:               visit.TriageLevel,
		ChiefComplaint:            visit.ChiefComplaint,
		InitialObservation:        visit.InitialObservation,
		DischargeTime:             visit.DischargeTime,
		DischargeDiagnosis:        visit.DischargeDiagnosis,
		DischargeInstructions:     visit.DischargeInstructions,
		IsAdmitted:                visit.IsAdmitted,
		AttendingPhysicianID:      visit.AttendingPhysicianID,
		AttendingPhysicianDetails: h.enrich(c, h.services.StaffBaseURL, "doctors", visit.AttendingPhysicianID),
		TriageNurseID:             visit.TriageNurseID,
		TriageNurseDetails:        h.enrich(c, h.services.StaffBaseURL, "nurses", visit.TriageNurseID),
	}
}

func (h *VisitsHandler) vitalSignResponse(c *fiber.Ctx, vs *domain.VitalSign) dto.VitalSignResponse {
	return dto.VitalSignResponse{
		ID:                     vs.ID,
		VisitID:                vs.VisitID,
		RecordedByID:           vs.RecordedByID,
		RecordedByDetails:      h.enrich(c, h.services.AuthBaseURL, "users", vs.RecordedByID),
		RecordedAt:             vs.RecordedAt,
		Temperature:            vs.Temperature,
		HeartRate:              vs.HeartRate,
		BloodPressureSystolic:  vs.BloodPressureSystolic,
		BloodPressureDiastolic: vs.BloodPressureDiastolic,
		RespiratoryRate:        vs.RespiratoryRate,
		OxygenSaturation:       vs.OxygenSaturation,
		PainLevel:              vs.PainLevel,
		GCSScore:               vs.GCSScore,
		Notes:                  vs.Notes,
	}
}

func (h *VisitsHandler) treatmentResponse(c *fiber.Ctx, t *domain.Treatment) dto.TreatmentResponse {
	return dto.TreatmentResponse{
		ID:                    t.ID,
		VisitID:               t.VisitID,
		TreatmentType:         t.TreatmentType,
		Name:                  t.Name,
		Description:           t.Description,
		AdministeredByID:      t.AdministeredByID,
		AdministeredByDetails: h.enrich(c, h.services.AuthBaseURL, "users", t.AdministeredByID),
		AdministeredAt:        t.AdministeredAt,
		Dosage:                t.Dosage,
		Outcome:               t.Outcome,
		Complications:         t.Complications,
	}
}

func (h *VisitsHandler) diagnosisResponse(c *fiber.Ctx, d *domain.Diagnosis) dto.DiagnosisResponse {
	return dto.DiagnosisResponse{
		ID:                 d.ID,
		VisitID:            d.VisitID,
		Code:               d.Code,
		Description:        d.Description,
		DiagnosedByID:      d.DiagnosedByID,
		DiagnosedByDetails: h.enrich(c, h.services.AuthBaseURL, "users", d.DiagnosedByID),
		DiagnosedAt:        d.DiagnosedAt,
		IsPrimary:          d.IsPrimary,
		Notes:              d.Notes,
	}
}

func (h *VisitsHandler) prescriptionResponse(c *fiber.Ctx, p *domain.Prescription) dto.PrescriptionResponse {
	return dto.PrescriptionResponse{
		ID:                  p.ID,
		VisitID:             p.VisitID,
		Medication:          p.Medication,
		Dosage:              p.Dosage,
		Frequency:           p.Frequency,
		Duration:            p.Duration,
		PrescribedByID:      p.PrescribedByID,
		PrescribedByDetails: h.enrich(c, h.services.AuthBaseURL, "users", p.PrescribedByID),
		PrescribedAt:        p.PrescribedAt,
		Instructions:        p.Instructions,
		IsDispensed:         p.IsDispensed,
		Refills:             p.Refills,
	}
}
