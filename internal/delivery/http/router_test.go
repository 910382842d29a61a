package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"patient-study-api/config"
	"patient-study-api/internal/delivery/http/handler"
	"patient-study-api/internal/delivery/http/middleware"
	"patient-study-api/internal/repository"
	"patient-study-api/internal/service"
	"patient-study-api/internal/testutil"
	"patient-study-api/internal/usecase"
	"patient-study-api/pkg/jwt"
	"patient-study-api/pkg/validator"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Store(ctx context.Context, tokenType jwt.TokenType, username, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenType, username, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) Exists(ctx context.Context, tokenType jwt.TokenType, username, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenType, username, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenStore) Revoke(ctx context.Context, tokenType jwt.TokenType, username, tokenID string) error {
	args := m.Called(ctx, tokenType, username, tokenID)
	return args.Error(0)
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type entityBody struct {
	ID           string `json:"id"`
	Version      int    `json:"version"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	AssignmentID string `json:"assignment_id"`
	Steps        int    `json:"steps"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func newTestRouter(t *testing.T, store *MockTokenStore) (*Router, *jwt.JWTService) {
	t.Helper()

	db := testutil.NewTestDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	v := validator.NewValidator()

	assignmentRepo := repository.NewAssignmentRepository()
	membershipRepo := repository.NewStudyDoctorRepository()
	patientRepo := repository.NewPatientRepository(assignmentRepo)
	doctorRepo := repository.NewDoctorRepository(assignmentRepo, membershipRepo)
	studyRepo := repository.NewStudyRepository(assignmentRepo, membershipRepo)
	measurementRepo := repository.NewMeasurementRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	auditService := service.NewAuditService(log, auditLogRepo)

	patientUC := usecase.NewPatientUsecase(db, log, patientRepo, auditService, 20)
	doctorUC := usecase.NewDoctorUsecase(db, log, doctorRepo, auditService, 20)
	studyUC := usecase.NewStudyUsecase(db, log, studyRepo, auditService, 20)
	assignmentUC := usecase.NewAssignmentUsecase(db, log, patientRepo, doctorRepo, studyRepo, membershipRepo, assignmentRepo, auditService)
	measurementUC := usecase.NewMeasurementUsecase(db, log, patientRepo, studyRepo, assignmentRepo, measurementRepo, auditService)
	auditLogUC := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
	authUC := usecase.NewAuthUsecase(db, log, config.AuthConfig{}, jwtService, store, auditService)

	router := NewRouter(
		handler.NewAuthHandler(authUC, v),
		handler.NewPatientHandler(patientUC, assignmentUC, measurementUC, v),
		handler.NewDoctorHandler(doctorUC, assignmentUC, v),
		handler.NewStudyHandler(studyUC, assignmentUC, measurementUC, v),
		handler.NewAuditLogHandler(auditLogUC),
		middleware.NewAuthMiddleware(jwtService, store),
		middleware.NewCORSMiddleware("https://example.org"),
	)
	return router, jwtService
}

// newTestServer serves the full router with a valid access token for "api"
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := new(MockTokenStore)
	store.On("Exists", mock.Anything, jwt.AccessToken, "api", mock.Anything).Return(true, nil)

	router, jwtService := newTestRouter(t, store)
	token, _, err := jwtService.GenerateAccessToken("api")
	require.NoError(t, err)

	return &testServer{t: t, handler: router.Setup(), token: token}
}

func (s *testServer) do(method, path string, body interface{}) (int, apiResponse) {
	s.t.Helper()

	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(s.t, err)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var resp apiResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func (s *testServer) create(path string, body interface{}) entityBody {
	s.t.Helper()
	status, resp := s.do(http.MethodPost, path, body)
	require.Equal(s.t, http.StatusCreated, status, resp.Error.Message)

	var created entityBody
	require.NoError(s.t, json.Unmarshal(resp.Data, &created))
	return created
}

func list(t *testing.T, resp apiResponse) []entityBody {
	t.Helper()
	var items []entityBody
	require.NoError(t, json.Unmarshal(resp.Data, &items))
	return items
}

func TestRouter_EnrollmentFlow(t *testing.T) {
	s := newTestServer(t)

	patient := s.create("/patients", map[string]interface{}{"username": "patient-1", "firstname": "F1", "lastname": "L1"})
	doctor := s.create("/doctors", map[string]interface{}{"username": "doctor-1", "firstname": "F1", "lastname": "L1"})
	study := s.create("/studies", map[string]interface{}{"name": "study-1", "startdate": "2024-01-01"})

	status, _ := s.do(http.MethodPost, "/studies/"+study.ID+"/assignedDoctors", map[string]string{"id": doctor.ID})
	assert.Equal(t, http.StatusOK, status)

	status, resp := s.do(http.MethodGet, "/studies/"+study.ID+"/assignedDoctors", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, doctor.ID, list(t, resp)[0].ID)

	assignment := s.create("/doctors/"+doctor.ID+"/assignedInStudies/"+study.ID+"/patients", map[string]string{"id": patient.ID})
	assert.NotEmpty(t, assignment.ID)

	status, resp = s.do(http.MethodGet, "/patients/"+patient.ID+"/studies", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, study.ID, list(t, resp)[0].ID)

	measurement := s.create("/patients/"+patient.ID+"/studies/"+study.ID+"/measurements", map[string]interface{}{
		"description": "walk",
		"timestamp":   "2024-03-01T10:00:00Z",
		"steps":       1200,
	})
	assert.Equal(t, assignment.ID, measurement.AssignmentID)

	status, resp = s.do(http.MethodGet, "/studies/"+study.ID+"/measurements", nil)
	require.Equal(t, http.StatusOK, status)
	measurements := list(t, resp)
	require.Len(t, measurements, 1)
	assert.Equal(t, 1200, measurements[0].Steps)

	status, _ = s.do(http.MethodDelete, "/doctors/"+doctor.ID+"/assignedInStudies/"+study.ID+"/patients/"+patient.ID, nil)
	assert.Equal(t, http.StatusOK, status)

	status, resp = s.do(http.MethodGet, "/studies/"+study.ID+"/measurements", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, list(t, resp))
}

func TestRouter_ErrorStatuses(t *testing.T) {
	s := newTestServer(t)
	patient := s.create("/patients", map[string]interface{}{"username": "patient-1", "firstname": "F1", "lastname": "L1"})
	study := s.create("/studies", map[string]interface{}{"name": "study-1"})

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{
			name:   "duplicate username",
			method: http.MethodPost,
			path:   "/patients",
			body:   map[string]interface{}{"username": "patient-1", "firstname": "F", "lastname": "L"},
			status: http.StatusConflict,
			code:   "username_exists",
		},
		{
			name:   "stale version",
			method: http.MethodPut,
			path:   "/patients/" + patient.ID,
			body:   map[string]interface{}{"version": 3, "username": "patient-1", "firstname": "F", "lastname": "L"},
			status: http.StatusConflict,
			code:   "version_conflict",
		},
		{
			name:   "unknown order field",
			method: http.MethodGet,
			path:   "/patients?orderBy=weight",
			status: http.StatusUnprocessableEntity,
			code:   "invalid_order_field",
		},
		{
			name:   "page beyond addressable range",
			method: http.MethodGet,
			path:   "/patients?page=2305843009213693952&size=4",
			status: http.StatusUnprocessableEntity,
			code:   "invalid_page",
		},
		{
			name:   "measurement without assignment",
			method: http.MethodPost,
			path:   "/patients/" + patient.ID + "/studies/" + study.ID + "/measurements",
			body:   map[string]interface{}{"timestamp": "2024-03-01T10:00:00Z", "steps": 1},
			status: http.StatusNotFound,
			code:   "assignment_not_found",
		},
		{
			name:   "missing study",
			method: http.MethodGet,
			path:   "/studies/00000000-0000-4000-8000-000000000000",
			status: http.StatusNotFound,
			code:   "study_not_found",
		},
		{
			name:   "bad study date",
			method: http.MethodPost,
			path:   "/studies",
			body:   map[string]interface{}{"name": "study-2", "startdate": "tomorrow"},
			status: http.StatusBadRequest,
			code:   "validation_failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := s.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestRouter_UpdateReturnsNextVersion(t *testing.T) {
	s := newTestServer(t)
	doctor := s.create("/doctors", map[string]interface{}{"username": "doctor-1", "firstname": "F1", "lastname": "L1"})

	status, resp := s.do(http.MethodPut, "/doctors/"+doctor.ID, map[string]interface{}{
		"version": 0, "username": "doctor-1", "firstname": "F2", "lastname": "L2",
	})
	require.Equal(t, http.StatusOK, status)

	var updated entityBody
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	assert.Equal(t, 1, updated.Version)

	status, _ = s.do(http.MethodDelete, "/doctors/"+doctor.ID, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.do(http.MethodDelete, "/doctors/"+doctor.ID, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRouter_AuditTrail(t *testing.T) {
	s := newTestServer(t)
	s.create("/patients", map[string]interface{}{"username": "patient-1", "firstname": "F1", "lastname": "L1"})

	status, resp := s.do(http.MethodGet, "/audit-logs?size=10", nil)
	require.Equal(t, http.StatusOK, status)

	var logs []struct {
		ID     int64  `json:"id"`
		Actor  string `json:"actor"`
		Action string `json:"action"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "api", logs[0].Actor)
	assert.Equal(t, "patient.create", logs[0].Action)

	status, _ = s.do(http.MethodGet, "/audit-logs/999", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(http.MethodGet, "/audit-logs?size=0", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestRouter_RequiresAccessToken(t *testing.T) {
	store := new(MockTokenStore)
	router, jwtService := newTestRouter(t, store)
	h := router.Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, tokenID, err := jwtService.GenerateAccessToken("api")
	require.NoError(t, err)
	store.On("Exists", mock.Anything, jwt.AccessToken, "api", tokenID).Return(false, nil)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://example.org", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_AnswersPreflight(t *testing.T) {
	server := newTestServer(t)

	tests := []string{"/api/v1/patients", "/api/v1/patients/5f1c9a52-0b7e-4a4b-9d6a-0f6f2b1c3d4e", "/api/v1/auth/token"}
	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, path, nil)
			req.Header.Set("Origin", "https://example.org")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rec := httptest.NewRecorder()
			server.handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "https://example.org", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
		})
	}
}

func TestRouter_UnmatchedRouteCarriesCORSHeaders(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nowhere", nil)
	rec := httptest.NewRecorder()
	server.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "https://example.org", rec.Header().Get("Access-Control-Allow-Origin"))
}
