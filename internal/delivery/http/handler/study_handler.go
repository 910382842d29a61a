package handler

import (
	"encoding/json"
	"net/http"

	"patient-study-api/internal/delivery/dto"
	"patient-study-api/internal/usecase"
	"patient-study-api/pkg/response"
	"patient-study-api/pkg/validator"
)

type StudyHandler struct {
	studyUsecase       usecase.StudyUsecase
	assignmentUsecase  usecase.AssignmentUsecase
	measurementUsecase usecase.MeasurementUsecase
	validator          *validator.CustomValidator
}

func NewStudyHandler(
	studyUsecase usecase.StudyUsecase,
	assignmentUsecase usecase.AssignmentUsecase,
	measurementUsecase usecase.MeasurementUsecase,
	validator *validator.CustomValidator,
) *StudyHandler {
	return &StudyHandler{
		studyUsecase:       studyUsecase,
		assignmentUsecase:  assignmentUsecase,
		measurementUsecase: measurementUsecase,
		validator:          validator,
	}
}

func (h *StudyHandler) CreateStudy(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateStudyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	study, err := h.studyUsecase.Create(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to create study")
		return
	}

	response.Success(w, http.StatusCreated, "Study created successfully", study)
}

func (h *StudyHandler) GetStudies(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		studies, err := h.studyUsecase.FindByName(r.Context(), name)
		if err != nil {
			response.FromError(w, err, "Failed to get studies")
			return
		}
		response.Success(w, http.StatusOK, "Studies retrieved successfully", studies)
		return
	}

	params, ok := listParams(w, r)
	if !ok {
		return
	}

	studies, meta, err := h.studyUsecase.List(r.Context(), params)
	if err != nil {
		response.FromError(w, err, "Failed to get studies")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Studies retrieved successfully", studies, listMeta(meta))
}

func (h *StudyHandler) GetStudy(w http.ResponseWriter, r *http.Request) {
	studyID, ok := pathID(w, r, "id", "study")
	if !ok {
		return
	}

	study, err := h.studyUsecase.Get(r.Context(), studyID)
	if err != nil {
		response.FromError(w, err, "Failed to get study")
		return
	}

	response.Success(w, http.StatusOK, "Study retrieved successfully", study)
}

func (h *StudyHandler) UpdateStudy(w http.ResponseWriter, r *http.Request) {
	studyID, ok := pathID(w, r, "id", "study")
	if !ok {
		return
	}

	var req dto.UpdateStudyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	study, err := h.studyUsecase.Update(r.Context(), studyID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update study")
		return
	}

	response.Success(w, http.StatusOK, "Study updated successfully", study)
}

func (h *StudyHandler) DeleteStudy(w http.ResponseWriter, r *http.Request) {
	studyID, ok := pathID(w, r, "id", "study")
	if !ok {
		return
	}

	if err := h.studyUsecase.Delete(r.Context(), studyID); err != nil {
		response.FromError(w, err, "Failed to delete study")
		return
	}

	response.Success(w, http.StatusOK, "Study deleted successfully", nil)
}

func (h *StudyHandler) AddDoctor(w http.ResponseWriter, r *http.Request) {
	studyID, ok := pathID(w, r, "id", "study")
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

	if err := h.assignmentUsecase.AssignDoctorToStudy(r.Context(), studyID, req.ID); err != nil {
		response.FromError(w, err, "Failed to add doctor to study")
		return
	}

	response.Success(w, http.StatusOK, "Doctor added to study successfully", nil)
}

func (h *StudyHandler) GetDoctors(w http.ResponseWriter, r *http.Request) {
	studyID, ok := pathID(w, r, "id", "study")
	if !ok {
		return
	}

	doctors, err := h.assignmentUsecase.ListAssignedDoctors(r.Context(), studyID)
	if err != nil {
		response.FromError(w, err, "Failed to get doctors of study")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *StudyHandler) RemoveDoctor(w http.ResponseWriter, r *http.Request) {
	studyID, ok := pathID(w, r, "id", "study")
	if !ok {
		return
	}
	doctorID, ok := pathID(w, r, "doctorId", "doctor")
	if !ok {
		return
	}

	if err := h.assignmentUsecase.RemoveDoctorFromStudy(r.Context(), studyID, doctorID); err != nil {
		response.FromError(w, err, "Failed to remove doctor from study")
		return
	}

	response.Success(w, http.StatusOK, "Doctor removed from study successfully", nil)
}

func (h *StudyHandler) GetMeasurements(w http.ResponseWriter, r *http.Request) {
	studyID, ok := pathID(w, r, "id", "study")
	if !ok {
		return
	}

	measurements, err := h.measurementUsecase.ListMeasurementsForStudy(r.Context(), studyID)
	if err != nil {
		response.FromError(w, err, "Failed to get measurements of study")
		return
	}

	response.Success(w, http.StatusOK, "Measurements retrieved successfully", measurements)
}
