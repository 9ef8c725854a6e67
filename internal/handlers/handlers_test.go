package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	portsrepo "github.com/SscSPs/vidtube_backend/internal/core/ports/repositories"
	"github.com/SscSPs/vidtube_backend/internal/core/services"
	"github.com/SscSPs/vidtube_backend/internal/handlers"
	"github.com/SscSPs/vidtube_backend/internal/middleware"
	"github.com/SscSPs/vidtube_backend/internal/platform/config"
	"github.com/SscSPs/vidtube_backend/internal/testing/memstore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

const password = "Str0ng!Pass"

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Errors     []string        `json:"errors"`
	Success    bool            `json:"success"`
}

type HandlersTestSuite struct {
	suite.Suite
	router *gin.Engine
	cfg    *config.Config
	users  *memstore.UserStore
	media  *memstore.MediaStore
}

func (s *HandlersTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *HandlersTestSuite) SetupTest() {
	s.cfg = &config.Config{
		IsProduction:               true,
		AccessTokenSecret:          "handler-access-secret",
		AccessTokenExpiryDuration:  15 * time.Minute,
		RefreshTokenSecret:         "handler-refresh-secret",
		RefreshTokenExpiryDuration: 24 * time.Hour,
		JWTIssuer:                  "vidtube-test",
		CookieSecure:               true,
		CORSOrigins:                []string{"*"},
		BcryptCost:                 bcrypt.MinCost,
		MaxUploadBytes:             1 << 20,
	}
	s.users = memstore.NewUserStore()
	s.media = memstore.NewMediaStore()
	s.router = s.newRouter()
}

func (s *HandlersTestSuite) newRouter(opts ...handlers.RouteOption) *gin.Engine {
	container := services.NewServiceContainer(s.cfg, portsrepo.RepositoryProvider{UserRepo: s.users}, s.media)
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	handlers.RegisterRoutes(r, s.cfg, container, opts...)
	return r
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

// --- helpers ---

func (s *HandlersTestSuite) do(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	var env envelope
	if w.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func jsonRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(method, path string, fields map[string]string, files map[string]string) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	for field, name := range files {
		fw, _ := mw.CreateFormFile(field, name)
		_, _ = fw.Write([]byte("image-bytes"))
	}
	_ = mw.Close()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func registrationFields(username, email string) map[string]string {
	return map[string]string{
		"fullName": "Ana Lima",
		"email":    email,
		"username": username,
		"password": password,
	}
}

func cookieValue(w *httptest.ResponseRecorder, name string) (*http.Cookie, bool) {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

func (s *HandlersTestSuite) registerAndLogin(username string) (accessToken, refreshToken string) {
	w, _ := s.do(multipartRequest(http.MethodPost, "/api/v1/users/register",
		registrationFields(username, username+"@example.com"), map[string]string{"avatar": "a.png"}))
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w, env := s.do(jsonRequest(http.MethodPost, "/api/v1/users/login", map[string]string{"username": username, "password": password}))
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var data struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &data))
	return data.AccessToken, data.RefreshToken
}

func bearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// --- tests ---

func (s *HandlersTestSuite) TestHealth() {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func (s *HandlersTestSuite) TestRegister_Created() {
	w, env := s.do(multipartRequest(http.MethodPost, "/api/v1/users/register",
		registrationFields("ana01", "ana@example.com"),
		map[string]string{"avatar": "a.png", "coverImage": "c.jpg"}))

	s.Equal(http.StatusCreated, w.Code, w.Body.String())
	s.True(env.Success)
	s.Equal(http.StatusCreated, env.StatusCode)
	s.NotContains(string(env.Data), "password")
	s.NotContains(string(env.Data), "refreshToken")

	var user map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &user))
	s.Equal("ana01", user["username"])
	s.NotEmpty(user["_id"])
	s.NotEmpty(user["avatar"])
	s.NotEmpty(user["coverImage"])
}

func (s *HandlersTestSuite) TestRegister_WithoutAvatar() {
	w, env := s.do(multipartRequest(http.MethodPost, "/api/v1/users/register",
		registrationFields("ana01", "ana@example.com"), nil))

	s.Equal(http.StatusBadRequest, w.Code)
	s.False(env.Success)
	s.Equal("Avatar is required", env.Message)
	s.NotNil(env.Errors)
}

func (s *HandlersTestSuite) TestRegister_AvatarTooLarge() {
	s.cfg.MaxUploadBytes = 4
	s.router = s.newRouter()

	w, _ := s.do(multipartRequest(http.MethodPost, "/api/v1/users/register",
		registrationFields("ana01", "ana@example.com"), map[string]string{"avatar": "a.png"}))
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(0, s.users.Len())
}

func (s *HandlersTestSuite) TestLogin_WrongPassword() {
	s.registerAndLogin("ana01")

	w, env := s.do(jsonRequest(http.MethodPost, "/api/v1/users/login", map[string]string{"username": "ana01", "password": "wrong"}))
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("User password is incorrect.", env.Message)
	s.False(env.Success)
	s.Equal([]string{}, env.Errors)
}

func (s *HandlersTestSuite) TestLogin_SetsSecureHttpOnlyCookies() {
	s.registerAndLogin("ana01")

	w, env := s.do(jsonRequest(http.MethodPost, "/api/v1/users/login", map[string]string{"email": "ana01@example.com", "password": password}))
	s.Require().Equal(http.StatusOK, w.Code)
	s.True(env.Success)

	for _, name := range []string{middleware.AccessTokenCookie, middleware.RefreshTokenCookie} {
		c, ok := cookieValue(w, name)
		s.Require().True(ok, name)
		s.True(c.HttpOnly, name)
		s.True(c.Secure, name)
		s.NotEmpty(c.Value, name)
	}
	s.NotContains(string(env.Data), "password")
}

func (s *HandlersTestSuite) TestLogin_InvalidBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w, env := s.do(req)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Invalid request body", env.Message)
}

func (s *HandlersTestSuite) TestRefresh_NoToken() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	w, env := s.do(req)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("unauthorized request", env.Message)
}

func (s *HandlersTestSuite) TestRefresh_CookieAndBody() {
	_, refresh := s.registerAndLogin("ana01")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: refresh})
	w, env := s.do(req)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	rotated, ok := cookieValue(w, middleware.RefreshTokenCookie)
	s.Require().True(ok)
	s.NotEqual(refresh, rotated.Value)
	s.Contains(string(env.Data), rotated.Value)

	// The previous token is now spent.
	w, env = s.do(jsonRequest(http.MethodPost, "/api/v1/users/refresh-token", map[string]string{"refreshToken": refresh}))
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Refresh token is expired or used", env.Message)

	w, _ = s.do(jsonRequest(http.MethodPost, "/api/v1/users/refresh-token", map[string]string{"refreshToken": rotated.Value}))
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlersTestSuite) TestLogout() {
	access, refresh := s.registerAndLogin("ana01")

	w, env := s.do(bearer(httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil), access))
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.True(env.Success)
	s.Equal("User logged out", env.Message)

	c, ok := cookieValue(w, middleware.AccessTokenCookie)
	s.Require().True(ok)
	s.True(c.MaxAge < 0)

	w, _ = s.do(jsonRequest(http.MethodPost, "/api/v1/users/refresh-token", map[string]string{"refreshToken": refresh}))
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestCurrentUser() {
	w, env := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil))
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Unauthorized request", env.Message)

	w, env = s.do(bearer(httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil), "garbage"))
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid access token", env.Message)

	access, _ := s.registerAndLogin("ana01")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: access})
	w, env = s.do(req)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(string(env.Data), `"username":"ana01"`)
	s.NotContains(string(env.Data), "password")
}

func (s *HandlersTestSuite) TestChangePassword_ThenLogin() {
	access, _ := s.registerAndLogin("ana01")
	const newPassword = "N3w!Passw0rd"

	w, env := s.do(bearer(jsonRequest(http.MethodPost, "/api/v1/users/change-password",
		map[string]string{"oldPassword": "Wr0ng!Pass", "newPassword": newPassword}), access))
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid old password", env.Message)

	w, env = s.do(bearer(jsonRequest(http.MethodPost, "/api/v1/users/change-password",
		map[string]string{"oldPassword": password, "newPassword": newPassword}), access))
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("Password changed successfully", env.Message)

	w, _ = s.do(jsonRequest(http.MethodPost, "/api/v1/users/login", map[string]string{"username": "ana01", "password": newPassword}))
	s.Equal(http.StatusOK, w.Code)

	w, _ = s.do(jsonRequest(http.MethodPost, "/api/v1/users/login", map[string]string{"username": "ana01", "password": password}))
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestUpdateAccount() {
	access, _ := s.registerAndLogin("ana01")

	w, env := s.do(bearer(jsonRequest(http.MethodPatch, "/api/v1/users/update-account",
		map[string]string{"fullName": "Ana Maria"}), access))
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("All fields are required", env.Message)

	w, env = s.do(bearer(jsonRequest(http.MethodPatch, "/api/v1/users/update-account",
		map[string]string{"fullName": "Ana Maria", "email": "Maria@Example.com"}), access))
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Contains(string(env.Data), `"email":"maria@example.com"`)
}

func (s *HandlersTestSuite) TestUpdateImages() {
	access, _ := s.registerAndLogin("ana01")

	w, env := s.do(bearer(multipartRequest(http.MethodPatch, "/api/v1/users/avatar", nil, nil), access))
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Avatar file is missing", env.Message)

	w, _ = s.do(bearer(multipartRequest(http.MethodPatch, "/api/v1/users/avatar", nil, map[string]string{"avatar": "new.png"}), access))
	s.Equal(http.StatusOK, w.Code, w.Body.String())

	w, env = s.do(bearer(multipartRequest(http.MethodPatch, "/api/v1/users/cover-image", nil, nil), access))
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Cover image file is missing", env.Message)

	w, env = s.do(bearer(multipartRequest(http.MethodPatch, "/api/v1/users/cover-image", nil, map[string]string{"coverImage": "c.jpg"}), access))
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Contains(string(env.Data), "https://cdn.test/")
}

func (s *HandlersTestSuite) TestAuthRoutesAreRateLimited() {
	l, err := middleware.NewLimiter("2-M", nil)
	s.Require().NoError(err)
	s.router = s.newRouter(handlers.WithAuthLimiter(l))

	body := map[string]string{"username": "ghost", "password": password}
	for i := 0; i < 2; i++ {
		w, _ := s.do(jsonRequest(http.MethodPost, "/api/v1/users/login", body))
		s.Equal(http.StatusNotFound, w.Code)
	}

	w, env := s.do(jsonRequest(http.MethodPost, "/api/v1/users/login", body))
	s.Equal(http.StatusTooManyRequests, w.Code)
	s.Equal("Too many requests. Please try again later.", env.Message)
}
