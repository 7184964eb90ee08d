package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ticket-desk/internal/api/dto"
	"github.com/spec-kit/ticket-desk/internal/app"
	"github.com/spec-kit/ticket-desk/internal/clock"
	"github.com/spec-kit/ticket-desk/internal/config"
	"github.com/spec-kit/ticket-desk/internal/observability"
	"github.com/spec-kit/ticket-desk/internal/persistence"
)

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type testServer struct {
	t       *testing.T
	app     *fiber.App
	metrics *observability.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Driver = config.DriverMemory
	cfg.Auth.BcryptCost = bcrypt.MinCost

	a := app.New(cfg, persistence.NewMemoryStore(), clock.NewFake(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)), nil)
	metrics := observability.NewMetrics()
	return &testServer{t: t, app: NewServer(a, metrics), metrics: metrics}
}

func (s *testServer) do(method, path, token string, body any) (int, []byte) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp.StatusCode, out
}

func (s *testServer) signup(name, email string) string {
	s.t.Helper()
	status, _ := s.do(fiber.MethodPost, "/auth/register", "", dto.UserRegisterRequest{
		Name: name, Email: email, Password: "secret123",
	})
	require.Equal(s.t, fiber.StatusCreated, status)

	status, raw := s.do(fiber.MethodPost, "/auth/login", "", dto.UserLoginRequest{Email: email, Password: "secret123"})
	require.Equal(s.t, fiber.StatusOK, status)
	var resp struct {
		Data struct {
			Auth dto.AuthResponse `json:"auth"`
		} `json:"data"`
	}
	require.NoError(s.t, json.Unmarshal(raw, &resp))
	return resp.Data.Auth.Token
}

func decodeError(t *testing.T, raw []byte) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func decodeTicket(t *testing.T, raw []byte) dto.TicketDetailResponse {
	t.Helper()
	var resp struct {
		Data dto.TicketDetailResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &resp))
	return resp.Data
}

var printerTicket = dto.CreateTicketRequest{
	Title:       "Printer jam",
	Category:    "hardware",
	Description: "Paper stuck in tray 2 since morning",
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(fiber.MethodGet, "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, raw := s.do(fiber.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(raw), `"memory":"ok"`)
}

func TestRegisterConflictAndValidation(t *testing.T) {
	s := newTestServer(t)
	s.signup("Ana Souza", "ana@corp.com")

	status, raw := s.do(fiber.MethodPost, "/auth/register", "", dto.UserRegisterRequest{
		Name: "Ana Again", Email: "ANA@corp.com", Password: "secret123",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", decodeError(t, raw).Error.Code)

	status, raw = s.do(fiber.MethodPost, "/auth/register", "", dto.UserRegisterRequest{
		Name: "Bo", Email: "bo@corp.com", Password: "123",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "password", decodeError(t, raw).Error.Details["field"])

	status, raw = s.do(fiber.MethodPost, "/auth/login", "", dto.UserLoginRequest{Email: "ana@corp.com", Password: "wrong-one"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, raw).Error.Code)
}

func TestTicketsRequireToken(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(fiber.MethodGet, "/tickets", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = s.do(fiber.MethodGet, "/tickets", "not-a-jwt", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestTicketLifecycle(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("Ana Souza", "ana@corp.com")
	admin := s.signup("Help Desk", "suporte@corp.com")

	status, raw := s.do(fiber.MethodPost, "/tickets", user, printerTicket)
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	created := decodeTicket(t, raw)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "open", string(created.Status))
	assert.Equal(t, "medium", string(created.Priority), "default priority applies")
	assert.Empty(t, created.Comments)

	status, raw = s.do(fiber.MethodPost, "/tickets/1/comments", admin, dto.AddCommentRequest{Text: "Checked, replacing fuser"})
	require.Equal(t, fiber.StatusCreated, status)
	commented := decodeTicket(t, raw)
	require.Len(t, commented.Comments, 1)
	assert.Equal(t, "Help Desk", commented.Comments[0].Author)

	status, raw = s.do(fiber.MethodPatch, "/tickets/1/status", user, dto.UpdateStatusRequest{Status: "resolved"})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", decodeError(t, raw).Error.Code)

	status, raw = s.do(fiber.MethodPatch, "/tickets/1/status", admin, dto.UpdateStatusRequest{Status: "in_progress"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "in-progress", string(decodeTicket(t, raw).Status))

	status, raw = s.do(fiber.MethodGet, "/tickets/1", user, nil)
	require.Equal(t, fiber.StatusOK, status)
	got := decodeTicket(t, raw)
	assert.Equal(t, "in-progress", string(got.Status))
	assert.Len(t, got.Comments, 1)
}

func TestTicketErrors(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("Ana Souza", "ana@corp.com")

	bad := printerTicket
	bad.Title = "Jam"
	status, raw := s.do(fiber.MethodPost, "/tickets", user, bad)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "title", decodeError(t, raw).Error.Details["field"])

	bad = printerTicket
	bad.Category = "furniture"
	status, raw = s.do(fiber.MethodPost, "/tickets", user, bad)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "category", decodeError(t, raw).Error.Details["field"])

	status, raw = s.do(fiber.MethodGet, "/tickets/999", user, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decodeError(t, raw).Error.Code)

	status, _ = s.do(fiber.MethodGet, "/tickets/abc", user, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, raw = s.do(fiber.MethodPost, "/tickets/999/comments", user, dto.AddCommentRequest{Text: "hello"})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decodeError(t, raw).Error.Code)

	status, raw = s.do(fiber.MethodGet, "/no-such-route", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decodeError(t, raw).Error.Code)

	status, _ = s.do(fiber.MethodGet, "/tickets/998", user, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	errs := s.metrics.Snapshot().Errors
	assert.Equal(t, int64(2), errs["/tickets/:id|GET|NOT_FOUND"])
	assert.Zero(t, errs["/tickets/999|GET|NOT_FOUND"])
}

func TestSettingsDrivePriorityDefault(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("Ana Souza", "ana@corp.com")

	high := "high"
	status, raw := s.do(fiber.MethodPut, "/settings", user, dto.UpdateSettingsRequest{DefaultPriority: &high})
	require.Equal(t, fiber.StatusOK, status, string(raw))

	status, raw = s.do(fiber.MethodPost, "/tickets", user, printerTicket)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "high", string(decodeTicket(t, raw).Priority))

	explicit := printerTicket
	explicit.Priority = "low"
	status, raw = s.do(fiber.MethodPost, "/tickets", user, explicit)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "low", string(decodeTicket(t, raw).Priority))

	huge := "huge"
	status, raw = s.do(fiber.MethodPut, "/settings", user, dto.UpdateSettingsRequest{FontSize: &huge})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "fontSize", decodeError(t, raw).Error.Details["field"])
}

func TestListFilterAndStats(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("Ana Souza", "ana@corp.com")
	admin := s.signup("Help Desk", "tecnico@corp.com")

	network := printerTicket
	network.Title = "VPN drops"
	network.Category = "network"
	network.Priority = "high"
	for _, req := range []dto.CreateTicketRequest{printerTicket, network} {
		status, _ := s.do(fiber.MethodPost, "/tickets", user, req)
		require.Equal(t, fiber.StatusCreated, status)
	}
	status, _ := s.do(fiber.MethodPatch, "/tickets/2/status", admin, dto.UpdateStatusRequest{Status: "pending"})
	require.Equal(t, fiber.StatusOK, status)

	status, raw := s.do(fiber.MethodGet, "/tickets?priority=high", user, nil)
	require.Equal(t, fiber.StatusOK, status)
	var list struct {
		Data []dto.TicketSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "VPN drops", list.Data[0].Title)

	status, raw = s.do(fiber.MethodGet, "/tickets?search=printer", user, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, int64(1), list.Data[0].ID)

	status, _ = s.do(fiber.MethodGet, "/tickets?status=closed", user, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, raw = s.do(fiber.MethodGet, "/dashboard/stats?year=2024", user, nil)
	require.Equal(t, fiber.StatusOK, status)
	var stats struct {
		Data dto.StatsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &stats))
	assert.Equal(t, dto.StatsResponse{Year: 2024, Total: 2, Open: 1, Pending: 1, Technicians: 1}, stats.Data)

	status, raw = s.do(fiber.MethodGet, "/dashboard/stats?year=2023", user, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &stats))
	assert.Equal(t, 0, stats.Data.Total)
}

func TestChangePasswordAndMetrics(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("Ana Souza", "ana@corp.com")

	status, _ := s.do(fiber.MethodPost, "/auth/password/change", user, dto.ChangePasswordRequest{
		CurrentPassword: "secret123", NewPassword: "another456",
	})
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = s.do(fiber.MethodPost, "/auth/login", "", dto.UserLoginRequest{Email: "ana@corp.com", Password: "another456"})
	assert.Equal(t, fiber.StatusOK, status)

	snap := s.metrics.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/auth/login|POST|200"])
	assert.Equal(t, int64(1), snap.Requests["/auth/password/change|POST|204"])
}
