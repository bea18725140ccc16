package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-analytics-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hr-analytics-go/internal/repository/memory"
	analyticsService "github.com/cmlabs-hris/hr-analytics-go/internal/service/analytics"
	authService "github.com/cmlabs-hris/hr-analytics-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/hr-analytics-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/hr-analytics-go/internal/service/employee"
	sessionService "github.com/cmlabs-hris/hr-analytics-go/internal/service/session"
	uploadService "github.com/cmlabs-hris/hr-analytics-go/internal/service/upload"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
}

type testServer struct {
	router  *chi.Mux
	store   *memory.DocumentStore
	session *sessionService.SessionImpl
	hub     *sse.Hub
}

func seedTree() map[string]any {
	return map[string]any{
		"Overtime": map[string]any{
			"Sales": map[string]any{
				"StoreA": map[string]any{
					"2025-07-01": map[string]any{"OT_Hours": 8.0, "OT_Amount": "$120.00"},
					"2025-07-02": map[string]any{"OT_Hours": 7.5, "OT_Amount": "$100.00"},
				},
			},
		},
		"Payment": map[string]any{
			"Sales": map[string]any{
				"StoreA": map[string]any{
					"E1": map[string]any{"Name": "Emma", "2025-07-01": map[string]any{"Payment": "$1,000.00"}},
				},
			},
		},
		"Absenteeism": map[string]any{
			"Sales": map[string]any{
				"StoreA": map[string]any{
					"E1": map[string]any{"Name": "Emma", "2025-07-01": map[string]any{"Absenteeism": 4.0}},
				},
			},
		},
		"LocationMap": map[string]any{
			"Sales": []any{"StoreA", "StoreB"},
		},
	}
}

func hash(t *testing.T, password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newTestServer(t *testing.T, authEnabled bool, maxFileSize int64) *testServer {
	t.Helper()
	ctx := context.Background()

	store := memory.NewDocumentStore(seedTree())
	hub := sse.NewHub()
	sess := sessionService.NewSession(store, sessionService.WithHub(hub))
	require.NoError(t, sess.Refresh(ctx))
	t.Cleanup(sess.Close)

	jwtService := jwt.NewJWTService(handlerTestSecret, time.Hour)
	var accounts []auth.Account
	if authEnabled {
		accounts = []auth.Account{
			{Username: "admin", PasswordHash: hash(t, "admin-pass"), IsAdmin: true},
			{Username: "viewer", PasswordHash: hash(t, "viewer-pass")},
		}
	}
	authSvc := authService.NewAuthService(jwtService, accounts...)

	archive, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	analytics := analyticsService.NewAnalyticsService(sess, analyticsService.WithBudgetMonth("2025-07"))
	handlers := Handlers{
		Auth:      NewAuthHandler(authSvc),
		Status:    NewStatusHandler(sess),
		Analytics: NewAnalyticsHandler(analytics),
		Dashboard: NewDashboardHandler(dashboardService.NewDashboardService(analytics)),
		Upload:    NewUploadHandler(uploadService.NewUploadService(store, archive, sess), hub, maxFileSize),
		Employee:  NewEmployeeHandler(employeeService.NewEmployeeService(sess, store, sess)),
		Stream:    NewStreamHandler(jwtService, hub, sess, authSvc.Enabled()),
	}

	router := NewRouter(RouterConfig{
		AppName:        "hr-analytics-test",
		AllowedOrigins: []string{"*"},
		AuthEnabled:    authSvc.Enabled(),
	}, jwtService, handlers)

	return &testServer{router: router, store: store, session: sess, hub: hub}
}

func (s *testServer) do(t *testing.T, method, path string, body []byte, header map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/login", body, map[string]string{"Content-Type": "application/json"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var token auth.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &token))
	require.NotEmpty(t, token.AccessToken)
	return token.AccessToken
}

func multipartBody(t *testing.T, fields map[string]string, filename, content string) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func TestAnalytics_Metrics(t *testing.T) {
	s := newTestServer(t, false, 1<<20)

	tests := []struct {
		name   string
		query  string
		hours  float64
		amount float64
	}{
		{"month", "?period=2025-07", 15.5, 220},
		{"day", "?period=2025-07-02", 7.5, 100},
		{"overall by default", "", 15.5, 220},
		{"unknown department", "?period=2025-07&department=HR", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodGet, "/api/v1/analytics/metrics"+tt.query, nil, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, env.Success)

			var got struct {
				TotalOvertime       float64 `json:"totalOvertime"`
				TotalOvertimeAmount float64 `json:"totalOvertimeAmount"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &got))
			assert.InDelta(t, tt.hours, got.TotalOvertime, 0.001)
			assert.InDelta(t, tt.amount, got.TotalOvertimeAmount, 0.001)
		})
	}
}

func TestAnalytics_TrendDatesAndCount(t *testing.T) {
	s := newTestServer(t, false, 1<<20)

	rec, env := s.do(t, http.MethodGet, "/api/v1/analytics/trend?dates=2025-07-02,%202025-07-01", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var trend []struct {
		Date     string  `json:"date"`
		Overtime float64 `json:"overtime"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &trend))
	require.Len(t, trend, 2)
	assert.Equal(t, "2025-07-02", trend[0].Date)
	assert.InDelta(t, 7.5, trend[0].Overtime, 0.001)
	assert.Equal(t, "2025-07-01", trend[1].Date)

	rec, env = s.do(t, http.MethodGet, "/api/v1/analytics/employees/count?department=Sales", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var count struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &count))
	assert.Equal(t, 1, count.Count)

	rec, env = s.do(t, http.MethodGet, "/api/v1/analytics/dates", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "2025-07")
}

func TestDashboard_Get(t *testing.T) {
	s := newTestServer(t, false, 1<<20)

	rec, env := s.do(t, http.MethodGet, "/api/v1/dashboard?period=2025-07&department=Sales", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Period        string  `json:"period"`
		Department    string  `json:"department"`
		EmployeeCount int     `json:"employeeCount"`
		Ratio         float64 `json:"overtimeToPaymentRatio"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "2025-07", got.Period)
	assert.Equal(t, "Sales", got.Department)
	assert.Equal(t, 1, got.EmployeeCount)
	assert.InDelta(t, 22.0, got.Ratio, 0.001)
}

func TestAuth_GatesRoutes(t *testing.T) {
	s := newTestServer(t, true, 1<<20)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/analytics/metrics", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	admin := s.login(t, "admin", "admin-pass")
	viewer := s.login(t, "viewer", "viewer-pass")

	rec, _ = s.do(t, http.MethodGet, "/api/v1/analytics/metrics", nil, bearer(viewer))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := s.do(t, http.MethodGet, "/api/v1/employees", nil, bearer(viewer))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/employees", nil, bearer(admin))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/logout", nil, bearer(viewer))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/analytics/metrics", nil, bearer(viewer))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_Login(t *testing.T) {
	s := newTestServer(t, true, 1<<20)
	jsonHeader := map[string]string{"Content-Type": "application/json"}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed", `{`, http.StatusBadRequest, "BAD_REQUEST"},
		{"missing fields", `{}`, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"wrong password", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unknown user", `{"username":"ghost","password":"nope"}`, http.StatusUnauthorized, "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodPost, "/api/v1/auth/login", []byte(tt.body), jsonHeader)
			assert.Equal(t, tt.wantStatus, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestAuth_LoginDisabled(t *testing.T) {
	s := newTestServer(t, false, 1<<20)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/auth/login", []byte(`{"username":"admin","password":"x"}`), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env := s.do(t, http.MethodGet, "/api/v1/auth/sse-token", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var token auth.SSETokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &token))
	assert.NotEmpty(t, token.Token)
	assert.Equal(t, 300, token.ExpiresIn)
}

func TestUpload_MergesAndRefreshes(t *testing.T) {
	s := newTestServer(t, false, 1<<20)

	csv := "Department,Location,Date,OT_Hours,OT_Amount\nSales,StoreA,2025-07-03,2,$50.00\n"
	body, contentType := multipartBody(t, map[string]string{"type": "Overtime", "date": "2025-07-03"}, "ot.csv", csv)

	rec, env := s.do(t, http.MethodPost, "/api/v1/uploads", body, map[string]string{"Content-Type": contentType})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Upload merged", env.Message)

	rec, env = s.do(t, http.MethodGet, "/api/v1/analytics/metrics?period=2025-07", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		TotalOvertime float64 `json:"totalOvertime"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.InDelta(t, 17.5, got.TotalOvertime, 0.001)
}

func TestUpload_DryRunWritesNothing(t *testing.T) {
	s := newTestServer(t, false, 1<<20)

	csv := "Department,Location,Date,OT_Hours,OT_Amount\nSales,StoreA,2025-07-03,2,$50.00\n"
	body, contentType := multipartBody(t, map[string]string{"type": "Overtime", "date": "2025-07-03", "dry_run": "true"}, "ot.csv", csv)

	rec, env := s.do(t, http.MethodPost, "/api/v1/uploads", body, map[string]string{"Content-Type": contentType})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(env.Data), "Sales/StoreA/2025-07-03")

	tree, err := s.store.Fetch(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, tree["Overtime"].(map[string]any)["Sales"].(map[string]any)["StoreA"], "2025-07-03")
}

func TestUpload_Rejects(t *testing.T) {
	s := newTestServer(t, false, 256)

	tests := []struct {
		name       string
		fields     map[string]string
		filename   string
		content    string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing fields",
			fields:     map[string]string{},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "bad flag",
			fields:     map[string]string{"type": "Overtime", "date": "2025-07-03", "dry_run": "maybe"},
			filename:   "ot.csv",
			content:    "Department\n",
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "legacy excel",
			fields:     map[string]string{"type": "Overtime", "date": "2025-07-03"},
			filename:   "ot.xls",
			content:    "binary",
			wantStatus: http.StatusUnsupportedMediaType,
			wantCode:   "UNSUPPORTED_MEDIA_TYPE",
		},
		{
			name:       "too large",
			fields:     map[string]string{"type": "Overtime", "date": "2025-07-03"},
			filename:   "ot.csv",
			content:    strings.Repeat("x", 512),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   "PAYLOAD_TOO_LARGE",
		},
		{
			name:       "no usable rows",
			fields:     map[string]string{"type": "Overtime", "date": "2025-07-03"},
			filename:   "ot.csv",
			content:    "Department,Location\n,StoreA\n",
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "EMPTY_FILE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.fields, tt.filename, tt.content)
			rec, env := s.do(t, http.MethodPost, "/api/v1/uploads", body, map[string]string{"Content-Type": contentType})
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestUpload_Templates(t *testing.T) {
	s := newTestServer(t, false, 1<<20)

	rec, env := s.do(t, http.MethodGet, "/api/v1/uploads/templates", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 5)
	assert.Empty(t, list[0].Content)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/uploads/templates/Overtime", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Overtime_Template.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Department,"))

	rec, env = s.do(t, http.MethodGet, "/api/v1/uploads/templates/Budget", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestEmployees_ListAndReassign(t *testing.T) {
	s := newTestServer(t, false, 1<<20)

	rec, env := s.do(t, http.MethodGet, "/api/v1/employees?search=emma", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []struct {
		ID       string `json:"id"`
		Location string `json:"location"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "E1", list[0].ID)

	rec, _ = s.do(t, http.MethodPut, "/api/v1/employees/E1/assignment", []byte(`{"department":"Sales","location":"StoreB"}`), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = s.do(t, http.MethodGet, "/api/v1/employees", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "StoreB", list[0].Location)

	rec, env = s.do(t, http.MethodPut, "/api/v1/employees/E1/assignment", []byte(`{"department":"Sales","location":"Nowhere"}`), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "location")

	rec, _ = s.do(t, http.MethodPut, "/api/v1/employees/E9/assignment", []byte(`{"department":"Sales","location":"StoreA"}`), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/api/v1/employees/E1/assignment", []byte(`{"department":"Sa/les","location":"StoreA"}`), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestStatus(t *testing.T) {
	s := newTestServer(t, false, 1<<20)

	rec, env := s.do(t, http.MethodGet, "/api/v1/status", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status struct {
		Loaded  bool   `json:"loaded"`
		Version uint64 `json:"version"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.True(t, status.Loaded)
	assert.Equal(t, uint64(1), status.Version)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/status/refresh", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStream_RequiresTokenWhenAuthEnabled(t *testing.T) {
	s := newTestServer(t, true, 1<<20)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/stream", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/stream?token=garbage", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// An access token is not an SSE token.
	access := s.login(t, "viewer", "viewer-pass")
	rec, _ = s.do(t, http.MethodGet, "/api/v1/stream?token="+access, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStream_PushesDocumentUpdates(t *testing.T) {
	s := newTestServer(t, false, 1<<20)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	next := func(event string) string {
		for lines.Scan() {
			if lines.Text() != "event: "+event {
				continue
			}
			require.True(t, lines.Scan())
			return strings.TrimPrefix(lines.Text(), "data: ")
		}
		t.Fatalf("stream ended before %s: %v", event, lines.Err())
		return ""
	}

	assert.Contains(t, next("connected"), `"version":1`)

	require.NoError(t, s.store.Patch(ctx, "Overtime", map[string]any{
		"Sales/StoreA/2025-07-04": map[string]any{"OT_Hours": 1.0, "OT_Amount": "$10.00"},
	}))
	require.NoError(t, s.session.Refresh(ctx))

	assert.Contains(t, next(sse.EventDocumentUpdated), `"version":2`)
}
