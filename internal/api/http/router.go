package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/emergency-services/internal/api/http/handlers"
	"github.com/spec-kit/emergency-services/internal/remote"
)

// AuthRouteConfig bundles dependencies for auth service routes.
type AuthRouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *remote.AuthMiddleware
}

// RegisterAuthRoutes wires the auth service's HTTP routes. The register,
// login and introspect endpoints are open; account reads require a token.
func RegisterAuthRoutes(app *fiber.App, cfg AuthRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	group := app.Group("/api/auth", cfg.AuthMiddleware.Handle)
	group.Post("/register", cfg.Auth.Register)
	group.Post("/login", cfg.Auth.Login)
	group.Post("/introspect", cfg.Auth.Introspect)

	protected := group.Group("", remote.RequireIdentity())
	protected.Get("/users", cfg.Auth.ListUsers)
	protected.Get("/users/:id", cfg.Auth.GetUser)
}

// PatientRouteConfig bundles dependencies for patient service routes.
type PatientRouteConfig struct {
	Health         *handlers.HealthHandler
	Patients       *handlers.PatientsHandler
	AuthMiddleware *remote.AuthMiddleware
}

// RegisterPatientRoutes wires the patient service's HTTP routes.
func RegisterPatientRoutes(app *fiber.App, cfg PatientRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	group := app.Group("/api", cfg.AuthMiddleware.Handle, remote.RequireIdentity())
	group.Post("/patients", cfg.Patients.CreatePatient)
	group.Get("/patients", cfg.Patients.ListPatients)
	group.Get("/patients/:id", cfg.Patients.GetPatient)
	group.Delete("/patients/:id", cfg.Patients.DeletePatient)

	group.Post("/patients/:id/files", cfg.Patients.AttachFile)
	group.Get("/patients/:id/files", cfg.Patients.ListFiles)
	group.Get("/patients/:id/files/:fileID", cfg.Patients.GetFile)
	group.Delete("/patients/:id/files/:fileID", cfg.Patients.DeleteFile)
}

// StaffRouteConfig bundles dependencies for staff service routes.
type StaffRouteConfig struct {
	Health         *handlers.HealthHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *remote.AuthMiddleware
}

// RegisterStaffRoutes wires the staff service's HTTP routes.
func RegisterStaffRoutes(app *fiber.App, cfg StaffRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	group := app.Group("/api", cfg.AuthMiddleware.Handle, remote.RequireIdentity())
	group.Post("/staff", cfg.Staff.CreateStaff)
	group.Get("/staff", cfg.Staff.ListStaff)
	group.Get("/staff/:id", cfg.Staff.GetStaff)
	group.Put("/staff/:id", cfg.Staff.UpdateStaff)
	group.Delete("/staff/:id", cfg.Staff.DeleteStaff)

	group.Post("/doctors", cfg.Staff.CreateDoctor)
	group.Get("/doctors", cfg.Staff.ListDoctors)
	group.Get("/doctors/:id", cfg.Staff.GetDoctor)
	group.Put("/doctors/:id", cfg.Staff.UpdateDoctor)
	group.Delete("/doctors/:id", cfg.Staff.DeleteDoctor)

	group.Post("/nurses", cfg.Staff.CreateNurse)
	group.Get("/nurses", cfg.Staff.ListNurses)
	group.Get("/nurses/:id", cfg.Staff.GetNurse)
	group.Put("/nurses/:id", cfg.Staff.UpdateNurse)
	group.Delete("/nurses/:id", cfg.Staff.DeleteNurse)
}

// VisitRouteConfig bundles dependencies for visit service routes.
type VisitRouteConfig struct {
	Health         *handlers.HealthHandler
	Visits         *handlers.VisitsHandler
	Beds           *handlers.BedsHandler
	AuthMiddleware *remote.AuthMiddleware
}

// RegisterVisitRoutes wires the visit service's HTTP routes.
func RegisterVisitRoutes(app *fiber.App, cfg VisitRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	group := app.Group("/api", cfg.AuthMiddleware.Handle, remote.RequireIdentity())
	group.Post("/visits", cfg.Visits.CreateVisit)
	group.Get("/visits", cfg.Visits.ListVisits)
	group.Get("/visits/:id", cfg.Visits.GetVisit)
	group.Put("/visits/:id", cfg.Visits.UpdateVisit)
	group.Delete("/visits/:id", cfg.Visits.DeleteVisit)
	group.Post("/visits/:id/discharge", cfg.Visits.DischargeVisit)
	group.Get("/visits/:id/admission", cfg.Beds.GetVisitAdmission)

	group.Post("/visits/:id/vital-signs", cfg.Visits.CreateVitalSign)
	group.Get("/visits/:id/vital-signs", cfg.Visits.ListVitalSigns)
	group.Get("/visits/:id/vital-signs/:childID", cfg.Visits.GetVitalSign)
	group.Delete("/visits/:id/vital-signs/:childID", cfg.Visits.DeleteVitalSign)

	group.Post("/visits/:id/treatments", cfg.Visits.CreateTreatment)
	group.Get("/visits/:id/treatments", cfg.Visits.ListTreatments)
	group.Get("/visits/:id/treatments/:childID", cfg.Visits.GetTreatment)
	group.Delete("/visits/:id/treatments/:childID", cfg.Visits.DeleteTreatment)

	group.Post("/visits/:id/diagnoses", cfg.Visits.CreateDiagnosis)
	group.Get("/visits/:id/diagnoses", cfg.Visits.ListDiagnoses)
	group.Get("/visits/:id/diagnoses/:childID", cfg.Visits.GetDiagnosis)
	group.Delete("/visits/:id/diagnoses/:childID", cfg.Visits.DeleteDiagnosis)

	group.Post("/visits/:id/prescriptions", cfg.Visits.CreatePrescription)
	group.Get("/visits/:id/prescriptions", cfg.Visits.ListPrescriptions)
	group.Get("/visits/:id/prescriptions/:childID", cfg.Visits.GetPrescription)
	group.Delete("/visits/:id/prescriptions/:childID", cfg.Visits.DeletePrescription)

	group.Post("/beds", cfg.Beds.CreateBed)
	group.Get("/beds", cfg.Beds.ListBeds)
	group.Get("/beds/:id", cfg.Beds.GetBed)
	group.Put("/beds/:id", cfg.Beds.UpdateBed)
	group.Delete("/beds/:id", cfg.Beds.DeleteBed)

	group.Post("/admissions", cfg.Beds.CreateAdmission)
	group.Get("/admissions", cfg.Beds.ListAdmissions)
	group.Get("/admissions/:id", cfg.Beds.GetAdmission)
	group.Post("/admissions/:id/discharge", cfg.Beds.DischargeAdmission)
	group.Delete("/admissions/:id", cfg.Beds.DeleteAdmission)
}

// InventoryRouteConfig bundles dependencies for inventory service routes.
type InventoryRouteConfig struct {
	Health         *handlers.HealthHandler
	Inventory      *handlers.InventoryHandler
	AuthMiddleware *remote.AuthMiddleware
}

// RegisterInventoryRoutes wires the inventory service's HTTP routes. The
// fixed paths are registered before the :id routes so they match first.
func RegisterInventoryRoutes(app *fiber.App, cfg InventoryRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	group := app.Group("/api", cfg.AuthMiddleware.Handle, remote.RequireIdentity())
	group.Get("/inventory-items/low-stock", cfg.Inventory.ListLowStock)
	group.Get("/inventory-items/count", cfg.Inventory.CountItems)

	group.Post("/inventory-items", cfg.Inventory.CreateItem)
	group.Get("/inventory-items", cfg.Inventory.ListItems)
	group.Get("/inventory-items/:id", cfg.Inventory.GetItem)
	group.Put("/inventory-items/:id", cfg.Inventory.UpdateItem)
	group.Delete("/inventory-items/:id", cfg.Inventory.DeleteItem)
}
