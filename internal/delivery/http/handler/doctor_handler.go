package handler

import (
	"encoding/json"
	"net/http"

	"patient-study-api/internal/delivery/dto"
	"patient-study-api/internal/usecase"
	"patient-study-api/pkg/response"
	"patient-study-api/pkg/validator"
)

type DoctorHandler struct {
	doctorUsecase     usecase.DoctorUsecase
	assignmentUsecase usecase.AssignmentUsecase
	validator         *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, assignmentUsecase usecase.AssignmentUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase:     doctorUsecase,
		assignmentUsecase: assignmentUsecase,
		validator:         validator,
	}
}

func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.Create(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to create doctor")
		return
	}

	response.Success(w, http.StatusCreated, "Doctor created successfully", doctor)
}

func (h *DoctorHandler) GetDoctors(w http.ResponseWriter, r *http.Request) {
	if username := r.URL.Query().Get("username"); username != "" {
		doctors, err := h.doctorUsecase.FindByUsername(r.Context(), username)
		if err != nil {
			response.FromError(w, err, "Failed to get doctors")
			return
		}
		response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
		return
	}

	params, ok := listParams(w, r)
	if !ok {
		return
	}

	doctors, meta, err := h.doctorUsecase.List(r.Context(), params)
	if err != nil {
		response.FromError(w, err, "Failed to get doctors")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Doctors retrieved successfully", doctors, listMeta(meta))
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.Get(r.Context(), doctorID)
	if err != nil {
		response.FromError(w, err, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *DoctorHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}

	var req dto.UpdateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.Update(r.Context(), doctorID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor updated successfully", doctor)
}

func (h *DoctorHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}

	if err := h.doctorUsecase.Delete(r.Context(), doctorID); err != nil {
		response.FromError(w, err, "Failed to delete doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor deleted successfully", nil)
}

func (h *DoctorHandler) GetAssignedStudies(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}

	studies, err := h.assignmentUsecase.ListAssignedStudies(r.Context(), doctorID)
	if err != nil {
		response.FromError(w, err, "Failed to get studies of doctor")
		return
	}

	response.Success(w, http.StatusOK, "Studies retrieved successfully", studies)
}

// AssignPatient enrolls the patient in the body into the study on behalf of the doctor
func (h *DoctorHandler) AssignPatient(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}
	studyID, ok := pathID(w, r, "studyId", "study")
	if !ok {
		return
	}

	var req dto.IDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	assignmentID, err := h.assignmentUsecase.CreateAssignment(r.Context(), req.ID, doctorID, studyID)
	if err != nil {
		response.FromError(w, err, "Failed to assign patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient assigned successfully", dto.IDResponse{ID: assignmentID})
}

func (h *DoctorHandler) GetAssignedPatients(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}
	studyID, ok := pathID(w, r, "studyId", "study")
	if !ok {
		return
	}

	patients, err := h.assignmentUsecase.ListPatientsAssignedByDoctorInStudy(r.Context(), doctorID, studyID)
	if err != nil {
		response.FromError(w, err, "Failed to get assigned patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}

func (h *DoctorHandler) RemovePatient(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}
	studyID, ok := pathID(w, r, "studyId", "study")
	if !ok {
		return
	}
	patientID, ok := pathID(w, r, "patientId", "patient")
	if !ok {
		return
	}

	if err := h.assignmentUsecase.RemoveAssignment(r.Context(), patientID, doctorID, studyID); err != nil {
		response.FromError(w, err, "Failed to remove patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient removed successfully", nil)
}
