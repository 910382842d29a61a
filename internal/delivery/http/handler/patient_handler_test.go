package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"patient-study-api/internal/delivery/dto"
	"patient-study-api/internal/usecase"
	"patient-study-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPatientUsecase struct {
	mock.Mock
}

func (m *MockPatientUsecase) Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PatientResponse), args.Error(1)
}

func (m *MockPatientUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PatientResponse), args.Error(1)
}

func (m *MockPatientUsecase) FindByUsername(ctx context.Context, username string) ([]dto.PatientResponse, error) {
	args := m.Called(ctx, username)
	return args.Get(0).([]dto.PatientResponse), args.Error(1)
}

func (m *MockPatientUsecase) List(ctx context.Context, params dto.ListParams) ([]dto.PatientResponse, *dto.PageMeta, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]dto.PatientResponse), args.Get(1).(*dto.PageMeta), args.Error(2)
}

func (m *MockPatientUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PatientResponse), args.Error(1)
}

func (m *MockPatientUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Page    int    `json:"page"`
		Size    int    `json:"size"`
		Count   int    `json:"count"`
		OrderBy string `json:"order_by"`
		Order   string `json:"order"`
	} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func newPatientRouter(uc *MockPatientUsecase) *mux.Router {
	h := NewPatientHandler(uc, nil, nil, validator.NewValidator())
	router := mux.NewRouter()
	router.HandleFunc("/patients", h.CreatePatient).Methods(http.MethodPost)
	router.HandleFunc("/patients", h.GetPatients).Methods(http.MethodGet)
	router.HandleFunc("/patients/{id}", h.GetPatient).Methods(http.MethodGet)
	router.HandleFunc("/patients/{id}", h.UpdatePatient).Methods(http.MethodPut)
	router.HandleFunc("/patients/{id}", h.DeletePatient).Methods(http.MethodDelete)
	return router
}

func serve(router http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPatientHandler_CreatePatient(t *testing.T) {
	uc := new(MockPatientUsecase)
	id := uuid.New()
	uc.On("Create", mock.Anything, mock.MatchedBy(func(req *dto.CreatePatientRequest) bool {
		return req.Username == "patient-1" && req.PatientID == "1234"
	})).Return(&dto.PatientResponse{ID: id, Username: "patient-1", PatientID: "1234"}, nil)

	rec := serve(newPatientRouter(uc), http.MethodPost, "/patients", map[string]interface{}{
		"username":  "patient-1",
		"patientID": "1234",
		"firstname": "F1",
		"lastname":  "L1",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.True(t, body.Success)

	var patient dto.PatientResponse
	require.NoError(t, json.Unmarshal(body.Data, &patient))
	assert.Equal(t, id, patient.ID)
	uc.AssertExpectations(t)
}

func TestPatientHandler_CreatePatientValidation(t *testing.T) {
	uc := new(MockPatientUsecase)

	rec := serve(newPatientRouter(uc), http.MethodPost, "/patients", map[string]interface{}{
		"username": "patient-1",
		"weight":   -5,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "validation_failed", body.Error.Code)
	assert.Equal(t, "firstname is required", body.Error.Details["firstname"])
	assert.Equal(t, "weight must not be negative", body.Error.Details["weight"])
	uc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPatientHandler_CreatePatientMalformedBody(t *testing.T) {
	uc := new(MockPatientUsecase)

	req := httptest.NewRequest(http.MethodPost, "/patients", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	newPatientRouter(uc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decodeEnvelope(t, rec).Error.Code)
}

func TestPatientHandler_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "not found", err: usecase.ErrPatientNotFound, status: http.StatusNotFound, code: "patient_not_found"},
		{name: "internal", err: errors.New("db gone"), status: http.StatusInternalServerError, code: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockPatientUsecase)
			id := uuid.New()
			uc.On("Get", mock.Anything, id).Return(nil, tt.err)

			rec := serve(newPatientRouter(uc), http.MethodGet, "/patients/"+id.String(), nil)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeEnvelope(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestPatientHandler_InvalidPathID(t *testing.T) {
	uc := new(MockPatientUsecase)

	rec := serve(newPatientRouter(uc), http.MethodGet, "/patients/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid patient ID", decodeEnvelope(t, rec).Error.Message)
}

func TestPatientHandler_UpdateConflict(t *testing.T) {
	uc := new(MockPatientUsecase)
	id := uuid.New()
	uc.On("Update", mock.Anything, id, mock.Anything).Return(nil, usecase.ErrVersionConflict)

	rec := serve(newPatientRouter(uc), http.MethodPut, "/patients/"+id.String(), map[string]interface{}{
		"version":   0,
		"username":  "patient-1",
		"firstname": "F1",
		"lastname":  "L1",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "version_conflict", decodeEnvelope(t, rec).Error.Code)
}

func TestPatientHandler_UpdateRequiresVersion(t *testing.T) {
	uc := new(MockPatientUsecase)

	rec := serve(newPatientRouter(uc), http.MethodPut, "/patients/"+uuid.NewString(), map[string]interface{}{
		"username":  "patient-1",
		"firstname": "F1",
		"lastname":  "L1",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error.Details, "version")
}

func TestPatientHandler_GetPatientsListParams(t *testing.T) {
	uc := new(MockPatientUsecase)
	page, size := 2, 5
	expected := dto.ListParams{OrderBy: "lastName", Order: "desc", Page: &page, Size: &size}
	uc.On("List", mock.Anything, expected).Return(
		[]dto.PatientResponse{{Username: "patient-1"}},
		&dto.PageMeta{Page: 2, Size: 5, Count: 1, OrderBy: "lastName", Order: "desc"},
		nil,
	)

	rec := serve(newPatientRouter(uc), http.MethodGet, "/patients?orderBy=lastName&order=desc&page=2&size=5", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 2, body.Meta.Page)
	assert.Equal(t, "lastName", body.Meta.OrderBy)
	uc.AssertExpectations(t)
}

func TestPatientHandler_GetPatientsRejectsBadParams(t *testing.T) {
	uc := new(MockPatientUsecase)
	rec := serve(newPatientRouter(uc), http.MethodGet, "/patients?size=ten", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	uc = new(MockPatientUsecase)
	uc.On("List", mock.Anything, mock.Anything).Return(nil, nil, usecase.ErrInvalidOrderField)
	rec = serve(newPatientRouter(uc), http.MethodGet, "/patients?orderBy=height", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPatientHandler_GetPatientsByUsername(t *testing.T) {
	uc := new(MockPatientUsecase)
	uc.On("FindByUsername", mock.Anything, "patient-1").Return([]dto.PatientResponse{}, nil)

	rec := serve(newPatientRouter(uc), http.MethodGet, "/patients?username=patient-1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	uc.AssertExpectations(t)
}

func TestPatientHandler_DeletePatient(t *testing.T) {
	uc := new(MockPatientUsecase)
	id := uuid.New()
	uc.On("Delete", mock.Anything, id).Return(nil)

	rec := serve(newPatientRouter(uc), http.MethodDelete, "/patients/"+id.String(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}
