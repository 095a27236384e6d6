package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-auction-backend/internal/apperr"
	"go-auction-backend/internal/core/auth"
	"go-auction-backend/internal/domain"
	"go-auction-backend/internal/service"
	"go-auction-backend/internal/transport/http/middleware"
)

type stubService struct {
	user    *domain.User
	token   string
	err     error
	entries []domain.LeaderboardEntry

	gotInput service.RegisterInput
	gotImage *service.ImageUpload
	gotEmail string
	gotPass  string
}

func (s *stubService) Register(_ context.Context, in service.RegisterInput, image *service.ImageUpload) (*domain.User, string, error) {
	s.gotInput = in
	s.gotImage = image
	return s.user, s.token, s.err
}

func (s *stubService) Login(_ context.Context, email, password string) (*domain.User, string, error) {
	s.gotEmail = email
	s.gotPass = password
	return s.user, s.token, s.err
}

func (s *stubService) Leaderboard(_ context.Context) ([]domain.LeaderboardEntry, error) {
	return s.entries, s.err
}

func testEngine(svc AuthService) (*gin.Engine, *UserHandler) {
	gin.SetMode(gin.TestMode)
	issuer := &auth.TokenIssuer{Secret: []byte("test-secret"), Issuer: "auction-api"}
	h := NewUserHandler(svc, issuer)

	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
	r.GET("/leaderboard", h.Leaderboard)
	r.GET("/me", func(c *gin.Context) {
		// stand-in for AuthJWT: the user is already resolved
		c.Set(middleware.KeyCurrentUser, &domain.User{ID: "u1", Email: "alice@example.com"})
		h.Profile(c)
	})
	return r, h
}

func multipartRegister(t *testing.T, fields map[string]string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if withFile {
		part, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Disposition": {`form-data; name="profileImage"; filename="avatar.png"`},
			"Content-Type":        {"image/png"},
		})
		require.NoError(t, err)
		_, err = part.Write([]byte("fake png bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

func TestRegisterEndpoint(t *testing.T) {
	svc := &stubService{
		user:  &domain.User{ID: "u1", Email: "alice@example.com", Role: domain.RoleBidder},
		token: "issued-token",
	}
	r, _ := testEngine(svc)

	fields := map[string]string{
		"userName": "alice",
		"email":    "alice@example.com",
		"password": "s3cret-pass",
		"phone":    "03001234567",
		"address":  "12 Main St",
		"role":     "Bidder",
	}
	buf, contentType := multipartRegister(t, fields, true)

	req := httptest.NewRequest(http.MethodPost, "/register", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User registered successfully.", body["message"])
	assert.Equal(t, "issued-token", body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "Bidder", user["role"])
	_, hasHash := user["PasswordHash"]
	assert.False(t, hasHash, "password hash never serializes")

	// form fields and file reach the service as-is
	assert.Equal(t, "alice", svc.gotInput.UserName)
	require.NotNil(t, svc.gotImage)
	assert.Equal(t, "image/png", svc.gotImage.ContentType)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "issued-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestRegisterEndpointValidationError(t *testing.T) {
	svc := &stubService{err: apperr.Validation("Profile image is required.")}
	r, _ := testEngine(svc)

	fields := map[string]string{"userName": "alice"}
	buf, contentType := multipartRegister(t, fields, false)

	req := httptest.NewRequest(http.MethodPost, "/register", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Profile image is required.", body["message"])
	assert.Nil(t, sessionCookie(rec))
	assert.Nil(t, svc.gotImage)
}

func TestRegisterEndpointUnreadableUpload(t *testing.T) {
	orig := openUpload
	openUpload = func(_ *multipart.FileHeader) (multipart.File, error) {
		return nil, assert.AnError
	}
	t.Cleanup(func() { openUpload = orig })

	svc := &stubService{}
	r, _ := testEngine(svc)

	buf, contentType := multipartRegister(t, map[string]string{"userName": "alice"}, true)
	req := httptest.NewRequest(http.MethodPost, "/register", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Could not read the uploaded profile image.", body["message"],
		"a submitted but unreadable file is not a missing file")
	assert.Nil(t, svc.gotImage, "the service never runs for an unreadable upload")
}

func TestRegisterEndpointUpstreamError(t *testing.T) {
	svc := &stubService{err: apperr.Upstream("Failed to upload profile image.", assert.AnError)}
	r, _ := testEngine(svc)

	buf, contentType := multipartRegister(t, map[string]string{}, true)
	req := httptest.NewRequest(http.MethodPost, "/register", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Failed to upload profile image.", body["message"])
}

func TestLoginEndpoint(t *testing.T) {
	svc := &stubService{
		user:  &domain.User{ID: "u1", Email: "alice@example.com"},
		token: "issued-token",
	}
	r, _ := testEngine(svc)

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"alice@example.com","password":"s3cret-pass"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Login successful.", body["message"])
	assert.Equal(t, "issued-token", body["token"])
	assert.Equal(t, "alice@example.com", svc.gotEmail)
	assert.Equal(t, "s3cret-pass", svc.gotPass)
	require.NotNil(t, sessionCookie(rec))
}

func TestLoginEndpointInvalidCredentials(t *testing.T) {
	svc := &stubService{err: apperr.InvalidCredentials()}
	r, _ := testEngine(svc)

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"alice@example.com","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid credentials.", body["message"])
}

func TestLogoutEndpoint(t *testing.T) {
	r, _ := testEngine(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Logout successful.", body["message"])

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.False(t, cookie.Expires.After(time.Now()), "logout cookie must already be expired")
}

func TestProfileEndpoint(t *testing.T) {
	r, _ := testEngine(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
}

func TestLeaderboardEndpoint(t *testing.T) {
	svc := &stubService{entries: []domain.LeaderboardEntry{
		{UserName: "carol", MoneySpent: 900},
		{UserName: "bob", MoneySpent: 450},
	}}
	r, _ := testEngine(svc)

	req := httptest.NewRequest(http.MethodGet, "/leaderboard", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	rows := body["leaderboard"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "carol", first["userName"])
	assert.Equal(t, 900.0, first["moneySpent"])
}

func TestLeaderboardEndpointEmpty(t *testing.T) {
	r, _ := testEngine(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/leaderboard", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, []any{}, body["leaderboard"])
}
