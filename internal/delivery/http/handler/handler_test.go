package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/price-tracker/internal/delivery/http/handler"
	"github.com/user/price-tracker/internal/delivery/http/router"
	"github.com/user/price-tracker/internal/entity"
	"github.com/user/price-tracker/internal/scrape"
	"github.com/user/price-tracker/internal/usecase"
	"github.com/user/price-tracker/pkg/utils"
)

type fakeTracker struct {
	snap *entity.ProductSnapshot
	err  error
}

func (f *fakeTracker) Track(context.Context, string) (*entity.ProductSnapshot, error) {
	return f.snap, f.err
}

var sessions = map[string]*entity.Session{
	"user-token":  {Token: "user-token", UserID: "u1", Email: "a@rediffmail.com"},
	"admin-token": {Token: "admin-token", UserID: "admin", Email: "superoffer@mail.com", IsAdmin: true},
}

type fakeAuth struct {
	registerErr error
	loggedOut   []string
}

func (f *fakeAuth) Register(_ context.Context, email, _ string) (*entity.User, *entity.Session, error) {
	if f.registerErr != nil {
		return nil, nil, f.registerErr
	}
	return &entity.User{ID: "u1", Email: email, PasswordHash: "hash"}, sessions["user-token"], nil
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*entity.User, *entity.Session, error) {
	if password != "pw" {
		return nil, nil, usecase.ErrInvalidCredentials
	}
	return &entity.User{ID: "u1", Email: email, PasswordHash: "hash"}, sessions["user-token"], nil
}

func (f *fakeAuth) Logout(_ context.Context, s *entity.Session) error {
	f.loggedOut = append(f.loggedOut, s.Token)
	return nil
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*entity.Session, error) {
	if s, ok := sessions[token]; ok {
		return s, nil
	}
	return nil, usecase.ErrUnauthenticated
}

func (f *fakeAuth) Profile(_ context.Context, s *entity.Session, userID string) (*entity.User, error) {
	if !s.CanAccessUser(userID) {
		return nil, usecase.ErrForbidden
	}
	return &entity.User{ID: userID, Email: "a@rediffmail.com", PasswordHash: "hash"}, nil
}

func (f *fakeAuth) UpdateBankDetails(_ context.Context, s *entity.Session, userID string, bank entity.BankDetails) (*entity.User, error) {
	if !s.CanAccessUser(userID) {
		return nil, usecase.ErrForbidden
	}
	return &entity.User{ID: userID, Email: "a@rediffmail.com", Bank: bank}, nil
}

func (f *fakeAuth) ListUsers(context.Context, *entity.Session) ([]*entity.User, error) {
	return []*entity.User{{ID: "u1", Email: "a@rediffmail.com"}, {ID: "admin", Email: "superoffer@mail.com"}}, nil
}

func (f *fakeAuth) IsAdmin(u *entity.User) bool {
	return u.IsAdmin || u.Email == "superoffer@mail.com"
}

type fakeOrders struct {
	created []usecase.CreateOrderInput
}

func (f *fakeOrders) Create(_ context.Context, s *entity.Session, in usecase.CreateOrderInput) (*entity.Order, error) {
	if in.Title == "" {
		return nil, &usecase.ValidationError{Field: "title", Message: "title is required"}
	}
	f.created = append(f.created, in)
	return &entity.Order{ID: "o1", UserID: s.UserID, Title: in.Title, Price: in.Price, URL: in.URL, Status: entity.OrderPending}, nil
}

func (f *fakeOrders) ListForUser(_ context.Context, s *entity.Session, userID string) ([]*entity.Order, error) {
	if !s.CanAccessUser(userID) {
		return nil, usecase.ErrForbidden
	}
	return []*entity.Order{{ID: "o1", UserID: userID, Status: entity.OrderPending}}, nil
}

func (f *fakeOrders) ListAll(context.Context, *entity.Session) ([]*entity.Order, error) {
	return []*entity.Order{{ID: "o1", UserID: "u1", UserEmail: "a@rediffmail.com", Status: entity.OrderSuccess}}, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, _ *entity.Session, id string, status entity.OrderStatus) (*entity.Order, error) {
	if !status.Valid() {
		return nil, &usecase.ValidationError{Field: "status", Message: "unknown status"}
	}
	if id != "o1" {
		return nil, usecase.ErrOrderNotFound
	}
	return &entity.Order{ID: id, Status: status}, nil
}

func (f *fakeOrders) Summary(context.Context, *entity.Session) (entity.OrderSummary, error) {
	return entity.OrderSummary{Pending: 2, Success: 1}, nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type testServer struct {
	tracker *fakeTracker
	auth    *fakeAuth
	orders  *fakeOrders
	handler http.Handler
}

func newTestServer(checks map[string]handler.Pinger) *testServer {
	ts := &testServer{tracker: &fakeTracker{}, auth: &fakeAuth{}, orders: &fakeOrders{}}
	h := handler.NewHandler(ts.tracker, ts.auth, ts.orders, checks, zap.NewNop())
	ts.handler = router.New(h, ts.auth, router.Options{AllowedOrigins: []string{"http://localhost:3000"}}, zap.NewNop())
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandleTrack_Success(t *testing.T) {
	ts := newTestServer(nil)
	ts.tracker.snap = &entity.ProductSnapshot{
		Price:      "12,999",
		Title:      "Great Phone",
		CapturedAt: time.Date(2026, 10, 19, 14, 5, 9, 0, time.UTC),
	}

	rec := ts.do(t, http.MethodPost, "/api/track", "", map[string]string{"url": "https://www.flipkart.com/x"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "12,999", body["price"])
	assert.Equal(t, "Great Phone", body["title"])
	assert.Contains(t, body, "image")
	assert.Nil(t, body["image"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "2:05:09 PM", body["timestamp"])
	assert.NotContains(t, body, "canonicalUrl")
}

func TestHandleTrack_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"fetch failed", &scrape.StatusError{URL: "u", StatusCode: 503}, http.StatusBadGateway, scrape.ErrFetchFailed.Error()},
		{"price not found", scrape.ErrPriceNotFound, http.StatusUnprocessableEntity, scrape.ErrPriceNotFound.Error()},
		{"unexpected", scrape.Unexpected(errors.New("boom")), http.StatusInternalServerError, scrape.ErrUnexpected.Error()},
		{"invalid url", scrape.Unexpected(utils.ErrInvalidURL), http.StatusBadRequest, scrape.ErrUnexpected.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(nil)
			ts.tracker.err = tt.err

			rec := ts.do(t, http.MethodPost, "/api/track", "", map[string]string{"url": "https://www.flipkart.com/x"})
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, map[string]any{"error": tt.message}, decodeBody(t, rec))
		})
	}
}

func TestHandleTrack_BadRequest(t *testing.T) {
	ts := newTestServer(nil)

	rec := ts.do(t, http.MethodPost, "/api/track", "", map[string]string{"url": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/track", bytes.NewBufferString("{not json"))
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(map[string]handler.Pinger{"postgres": pinger{}, "redis": pinger{}})
	rec := ts.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["redis"])

	ts = newTestServer(map[string]handler.Pinger{"postgres": pinger{}, "redis": pinger{err: errors.New("down")}})
	rec = ts.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", decodeBody(t, rec)["redis"])
}

func TestAuthRoutes(t *testing.T) {
	ts := newTestServer(nil)

	rec := ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "a@rediffmail.com", "password": "pw"})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "user-token", body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "u1", user["id"])
	assert.NotContains(t, user, "PasswordHash")
	assert.NotContains(t, rec.Body.String(), "hash")

	ts.auth.registerErr = usecase.ErrEmailTaken
	rec = ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "a@rediffmail.com", "password": "pw"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@rediffmail.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decodeBody(t, rec)["error"])

	rec = ts.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/auth/logout", "user-token", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"user-token"}, ts.auth.loggedOut)
}

func TestProfileRoutes(t *testing.T) {
	ts := newTestServer(nil)

	rec := ts.do(t, http.MethodGet, "/api/auth/profile/u1", "user-token", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/auth/profile/someone-else", "user-token", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/auth/profile/u1", "user-token", map[string]any{
		"bankDetails": map[string]string{"bankName": "HDFC", "upiId": "a@okhdfc"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	bank := decodeBody(t, rec)["bankDetails"].(map[string]any)
	assert.Equal(t, "HDFC", bank["bankName"])
	assert.Equal(t, "a@okhdfc", bank["upiId"])

	rec = ts.do(t, http.MethodPut, "/api/auth/profile/u1", "user-token", map[string]string{"bankName": "SBI"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SBI", decodeBody(t, rec)["bankDetails"].(map[string]any)["bankName"])
}

func TestAdminRoutes(t *testing.T) {
	ts := newTestServer(nil)

	for _, path := range []string{"/api/auth/users", "/api/auth/orders-all"} {
		rec := ts.do(t, http.MethodGet, path, "user-token", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)

		rec = ts.do(t, http.MethodGet, path, "admin-token", nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := ts.do(t, http.MethodGet, "/api/auth/orders-all", "admin-token", nil)
	var orders []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "a@rediffmail.com", orders[0]["userEmail"])

	rec = ts.do(t, http.MethodPut, "/api/orders/o1/status", "user-token", map[string]string{"status": "Success"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/orders/o1/status", "admin-token", map[string]string{"status": "Success"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Success", decodeBody(t, rec)["status"])

	rec = ts.do(t, http.MethodPut, "/api/orders/o1/status", "admin-token", map[string]string{"status": "Shipped"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/orders/o9/status", "admin-token", map[string]string{"status": "Failed"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderRoutes(t *testing.T) {
	ts := newTestServer(nil)

	rec := ts.do(t, http.MethodPost, "/api/orders", "", map[string]string{"title": "Phone"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/orders", "user-token", map[string]any{
		"title": "Great Phone", "price": "12,999", "url": "https://www.flipkart.com/x", "image": nil,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Pending", body["status"])
	assert.Equal(t, "u1", body["userId"])
	require.Len(t, ts.orders.created, 1)
	assert.Nil(t, ts.orders.created[0].Image)

	rec = ts.do(t, http.MethodPost, "/api/orders", "user-token", map[string]string{"price": "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title is required", decodeBody(t, rec)["error"])

	rec = ts.do(t, http.MethodGet, "/api/orders/u1", "user-token", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/orders/u2", "user-token", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/dashboard", "user-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"pending": 2.0, "success": 1.0, "failed": 0.0, "total": 3.0}, decodeBody(t, rec))
}
