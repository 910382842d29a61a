package http

import (
	"net/http"

	"patient-study-api/internal/delivery/http/handler"
	"patient-study-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router          *mux.Router
	authHandler     *handler.AuthHandler
	patientHandler  *handler.PatientHandler
	doctorHandler   *handler.DoctorHandler
	studyHandler    *handler.StudyHandler
	auditLogHandler *handler.AuditLogHandler
	authMiddleware  *middleware.AuthMiddleware
	corsMiddleware  *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
	doctorHandler *handler.DoctorHandler,
	studyHandler *handler.StudyHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:          mux.NewRouter(),
		authHandler:     authHandler,
		patientHandler:  patientHandler,
		doctorHandler:   doctorHandler,
		studyHandler:    studyHandler,
		auditLogHandler: auditLogHandler,
		authMiddleware:  authMiddleware,
		corsMiddleware:  corsMiddleware,
	}
}

// Setup registers every route and returns the router wrapped in CORS handling.
// No route matches OPTIONS, so CORS has to sit outside the mux.
func (r *Router) Setup() http.Handler {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/token", r.authHandler.IssueToken).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	RegisterEntityRoutes(protected, r.patientHandler, r.doctorHandler, r.studyHandler, r.auditLogHandler)

	return r.corsMiddleware.Handle(r.router)
}

// RegisterEntityRoutes mounts the patient, doctor, study and audit log routes on router
func RegisterEntityRoutes(
	router *mux.Router,
	patientHandler *handler.PatientHandler,
	doctorHandler *handler.DoctorHandler,
	studyHandler *handler.StudyHandler,
	auditLogHandler *handler.AuditLogHandler,
) {
	// Patients
	router.HandleFunc("/patients", patientHandler.CreatePatient).Methods(http.MethodPost)
	router.HandleFunc("/patients", patientHandler.GetPatients).Methods(http.MethodGet)
	router.HandleFunc("/patients/{id}", patientHandler.GetPatient).Methods(http.MethodGet)
	router.HandleFunc("/patients/{id}", patientHandler.UpdatePatient).Methods(http.MethodPut)
	router.HandleFunc("/patients/{id}", patientHandler.DeletePatient).Methods(http.MethodDelete)
	router.HandleFunc("/patients/{id}/studies", patientHandler.GetStudies).Methods(http.MethodGet)
	router.HandleFunc("/patients/{id}/studies/{studyId}/measurements", patientHandler.AddMeasurement).Methods(http.MethodPost)
	router.HandleFunc("/patients/{id}/studies/{studyId}/measurements", patientHandler.GetMeasurements).Methods(http.MethodGet)
	router.HandleFunc("/patients/{id}/studies/{studyId}/measurements/{measurementId}", patientHandler.DeleteMeasurement).Methods(http.MethodDelete)

	// Doctors
	router.HandleFunc("/doctors", doctorHandler.CreateDoctor).Methods(http.MethodPost)
	router.HandleFunc("/doctors", doctorHandler.GetDoctors).Methods(http.MethodGet)
	router.HandleFunc("/doctors/{id}", doctorHandler.GetDoctor).Methods(http.MethodGet)
	router.HandleFunc("/doctors/{id}", doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	router.HandleFunc("/doctors/{id}", doctorHandler.DeleteDoctor).Methods(http.MethodDelete)
	router.HandleFunc("/doctors/{id}/assignedInStudies", doctorHandler.GetAssignedStudies).Methods(http.MethodGet)
	router.HandleFunc("/doctors/{id}/assignedInStudies/{studyId}/patients", doctorHandler.AssignPatient).Methods(http.MethodPost)
	router.HandleFunc("/doctors/{id}/assignedInStudies/{studyId}/patients", doctorHandler.GetAssignedPatients).Methods(http.MethodGet)
	router.HandleFunc("/doctors/{id}/assignedInStudies/{studyId}/patients/{patientId}", doctorHandler.RemovePatient).Methods(http.MethodDelete)

	// Studies
	router.HandleFunc("/studies", studyHandler.CreateStudy).Methods(http.MethodPost)
	router.HandleFunc("/studies", studyHandler.GetStudies).Methods(http.MethodGet)
	router.HandleFunc("/studies/{id}", studyHandler.GetStudy).Methods(http.MethodGet)
	router.HandleFunc("/studies/{id}", studyHandler.UpdateStudy).Methods(http.MethodPut)
	router.HandleFunc("/studies/{id}", studyHandler.DeleteStudy).Methods(http.MethodDelete)
	router.HandleFunc("/studies/{id}/assignedDoctors", studyHandler.AddDoctor).Methods(http.MethodPost)
	router.HandleFunc("/studies/{id}/assignedDoctors", studyHandler.GetDoctors).Methods(http.MethodGet)
	router.HandleFunc("/studies/{id}/assignedDoctors/{doctorId}", studyHandler.RemoveDoctor).Methods(http.MethodDelete)
	router.HandleFunc("/studies/{id}/measurements", studyHandler.GetMeasurements).Methods(http.MethodGet)

	// Audit trail
	router.HandleFunc("/audit-logs", auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	router.HandleFunc("/audit-logs/{id}", auditLogHandler.GetAuditLog).Methods(http.MethodGet)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
