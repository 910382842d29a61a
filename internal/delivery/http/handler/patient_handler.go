package handler

import (
	"encoding/json"
	"net/http"

	"patient-study-api/internal/delivery/dto"
	"patient-study-api/internal/usecase"
	"patient-study-api/pkg/response"
	"patient-study-api/pkg/validator"
)

type PatientHandler struct {
	patientUsecase     usecase.PatientUsecase
	assignmentUsecase  usecase.AssignmentUsecase
	measurementUsecase usecase.MeasurementUsecase
	validator          *validator.CustomValidator
}

func NewPatientHandler(
	patientUsecase usecase.PatientUsecase,
	assignmentUsecase usecase.AssignmentUsecase,
	measurementUsecase usecase.MeasurementUsecase,
	validator *validator.CustomValidator,
) *PatientHandler {
	return &PatientHandler{
		patientUsecase:     patientUsecase,
		assignmentUsecase:  assignmentUsecase,
		measurementUsecase: measurementUsecase,
		validator:          validator,
	}
}

func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.Create(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to create patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient created successfully", patient)
}

// GetPatients lists patients, or looks one up when ?username= is given
func (h *PatientHandler) GetPatients(w http.ResponseWriter, r *http.Request) {
	if username := r.URL.Query().Get("username"); username != "" {
		patients, err := h.patientUsecase.FindByUsername(r.Context(), username)
		if err != nil {
			response.FromError(w, err, "Failed to get patients")
			return
		}
		response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
		return
	}

	params, ok := listParams(w, r)
	if !ok {
		return
	}

	patients, meta, err := h.patientUsecase.List(r.Context(), params)
	if err != nil {
		response.FromError(w, err, "Failed to get patients")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Patients retrieved successfully", patients, listMeta(meta))
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, "id", "patient")
	if !ok {
		return
	}

	patient, err := h.patientUsecase.Get(r.Context(), patientID)
	if err != nil {
		response.FromError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, "id", "patient")
	if !ok {
		return
	}

	var req dto.UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.Update(r.Context(), patientID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, "id", "patient")
	if !ok {
		return
	}

	if err := h.patientUsecase.Delete(r.Context(), patientID); err != nil {
		response.FromError(w, err, "Failed to delete patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient deleted successfully", nil)
}

func (h *PatientHandler) GetStudies(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, "id", "patient")
	if !ok {
		return
	}

	studies, err := h.assignmentUsecase.ListStudiesForPatient(r.Context(), patientID)
	if err != nil {
		response.FromError(w, err, "Failed to get studies of patient")
		return
	}

	response.Success(w, http.StatusOK, "Studies retrieved successfully", studies)
}

func (h *PatientHandler) AddMeasurement(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, "id", "patient")
	if !ok {
		return
	}
	studyID, ok := pathID(w, r, "studyId", "study")
	if !ok {
		return
	}

	var req dto.CreateMeasurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	measurement, err := h.measurementUsecase.AddMeasurement(r.Context(), patientID, studyID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to add measurement")
		return
	}

	response.Success(w, http.StatusCreated, "Measurement added successfully", measurement)
}

func (h *PatientHandler) GetMeasurements(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, "id", "patient")
	if !ok {
		return
	}
	studyID, ok := pathID(w, r, "studyId", "study")
	if !ok {
		return
	}

	measurements, err := h.measurementUsecase.ListMeasurements(r.Context(), patientID, studyID)
	if err != nil {
		response.FromError(w, err, "Failed to get measurements")
		return
	}

	response.Success(w, http.StatusOK, "Measurements retrieved successfully", measurements)
}

func (h *PatientHandler) DeleteMeasurement(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, "id", "patient")
	if !ok {
		return
	}
	studyID, ok := pathID(w, r, "studyId", "study")
	if !ok {
		return
	}
	measurementID, ok := pathID(w, r, "measurementId", "measurement")
	if !ok {
		return
	}

	if err := h.measurementUsecase.DeleteMeasurement(r.Context(), patientID, studyID, measurementID); err != nil {
		response.FromError(w, err, "Failed to delete measurement")
		return
	}

	response.Success(w, http.StatusOK, "Measurement deleted successfully", nil)
}
