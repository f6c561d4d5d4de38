package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spockNinja/web-template/internal/domain"
	"github.com/spockNinja/web-template/internal/dto"
	"github.com/spockNinja/web-template/internal/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------- test fakes --------

type fakeUserService struct {
	loginUser  *domain.User
	loginErr   error
	googleUser *domain.User
	googleErr  error
	registered *dto.RegisterRequest
	regErr     error
	checkErr   error
	verifyUser *domain.User
	verifyErr  error
}

func (f *fakeUserService) Login(input dto.LoginRequest) (*domain.User, error) {
	return f.loginUser, f.loginErr
}

func (f *fakeUserService) GoogleLogin(ctx context.Context, input dto.GoogleLoginRequest) (*domain.User, error) {
	return f.googleUser, f.googleErr
}

func (f *fakeUserService) Register(input dto.RegisterRequest) (*domain.User, error) {
	f.registered = &input
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &domain.User{ID: 1, Username: input.Username, Email: input.Email}, nil
}

func (f *fakeUserService) CheckUsername(username string) error { return f.checkErr }
func (f *fakeUserService) CheckEmail(email string) error       { return f.checkErr }

func (f *fakeUserService) Verify(id string) (*domain.User, error) {
	return f.verifyUser, f.verifyErr
}

// -------- helpers --------

func newTestApp(svc *fakeUserService) *fiber.App {
	app := fiber.New()
	h := NewAuthHandler(svc, helper.SetupSession("test-secret"), PageConfig{
		AppName:        "Test App",
		GoogleClientID: "client-123",
		TemplateDir:    "../../../templates",
	})
	h.SetupRoutes(app)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)
	return resp
}

func resultFrom(t *testing.T, resp *http.Response) dto.Result {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var result dto.Result
	require.NoError(t, json.Unmarshal(body, &result), "body: %s", body)
	return result
}

func bodyOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	return nil
}

// -------- tests --------

func TestLoginHandler_Success(t *testing.T) {
	t.Parallel()

	svc := &fakeUserService{loginUser: &domain.User{ID: 7, Username: "alice"}}
	app := newTestApp(svc)

	resp := doRequest(t, app, http.MethodPost, "/login?username=alice&password=pw1")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie, "successful login must set the session cookie")
	assert.NotEmpty(t, cookie.Value)

	result := resultFrom(t, resp)
	assert.True(t, result.Success)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc := &fakeUserService{loginErr: &domain.AuthError{Message: "Login credentials invalid"}}
	app := newTestApp(svc)

	resp := doRequest(t, app, http.MethodPost, "/login?username=alice&password=wrong")

	// advisory failure, still 200
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, sessionCookie(resp), "failed login must not touch the session")

	result := resultFrom(t, resp)
	assert.False(t, result.Success)
	assert.Equal(t, "Login credentials invalid", result.Message)
}

func TestLoginHandler_UnexpectedErrorIsOpaque(t *testing.T) {
	t.Parallel()

	svc := &fakeUserService{loginErr: io.ErrUnexpectedEOF}
	app := newTestApp(svc)

	resp := doRequest(t, app, http.MethodPost, "/login?username=alice&password=pw")

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	result := resultFrom(t, resp)
	assert.False(t, result.Success)
	assert.NotContains(t, result.Message, "EOF")
}

func TestGoogleLoginHandler_Success(t *testing.T) {
	t.Parallel()

	svc := &fakeUserService{googleUser: &domain.User{ID: 3, Username: "Alice Smith"}}
	app := newTestApp(svc)

	resp := doRequest(t, app, http.MethodPost, "/googleLogin?email=a%40x.com&idToken=tok")

	require.NotNil(t, sessionCookie(resp))
	assert.True(t, resultFrom(t, resp).Success)
}

func TestGoogleLoginHandler_IssuerRejected(t *testing.T) {
	t.Parallel()

	svc := &fakeUserService{googleErr: &domain.AuthError{Message: "Auth token does not match google issuer"}}
	app := newTestApp(svc)

	resp := doRequest(t, app, http.MethodPost, "/googleLogin?email=a%40x.com&idToken=tok")

	assert.Nil(t, sessionCookie(resp))
	result := resultFrom(t, resp)
	assert.False(t, result.Success)
	assert.Equal(t, "Auth token does not match google issuer", result.Message)
}

func TestRegisterHandler(t *testing.T) {
	t.Parallel()

	svc := &fakeUserService{}
	app := newTestApp(svc)

	resp := doRequest(t, app, http.MethodPost, "/register?username=alice&email=a%40x.com&password=pw1")

	result := resultFrom(t, resp)
	assert.True(t, result.Success)
	assert.Equal(t, "Please check your email to verify your account.", result.Message)
	assert.Nil(t, sessionCookie(resp), "registration has no session side effect")

	require.NotNil(t, svc.registered)
	assert.Equal(t, "alice", svc.registered.Username)
	assert.Equal(t, "a@x.com", svc.registered.Email)
}

func TestRegisterHandler_Conflict(t *testing.T) {
	t.Parallel()

	svc := &fakeUserService{regErr: &domain.ConflictError{Message: "There is already an account with this username"}}
	app := newTestApp(svc)

	resp := doRequest(t, app, http.MethodPost, "/register?username=alice&email=b%40y.com&password=pw2")

	result := resultFrom(t, resp)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "username")
}

func TestCheckHandlers(t *testing.T) {
	t.Parallel()

	app := newTestApp(&fakeUserService{})
	result := resultFrom(t, doRequest(t, app, http.MethodPost, "/checkUsername?username=bob"))
	assert.True(t, result.Success)

	taken := newTestApp(&fakeUserService{checkErr: &domain.ConflictError{Message: "Username already in use."}})
	result = resultFrom(t, doRequest(t, taken, http.MethodPost, "/checkUsername?username=alice"))
	assert.False(t, result.Success)
	assert.Equal(t, "Username already in use.", result.Message)
}

func TestVerifyHandler_MissingIDIsStructured(t *testing.T) {
	t.Parallel()

	svc := &fakeUserService{verifyErr: &domain.InputError{Message: "User ID missing"}}
	app := newTestApp(svc)

	resp := doRequest(t, app, http.MethodGet, "/verify")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	result := resultFrom(t, resp)
	assert.False(t, result.Success)
	assert.Equal(t, "User ID missing", result.Message)
}

func TestVerifyHandler_Success(t *testing.T) {
	t.Parallel()

	svc := &fakeUserService{verifyUser: &domain.User{ID: 5, Username: "alice", Active: true}}
	app := newTestApp(svc)

	resp := doRequest(t, app, http.MethodGet, "/verify?id=5")

	require.NotNil(t, sessionCookie(resp), "verification logs the user in")
	body := bodyOf(t, resp)
	assert.Contains(t, body, "Your account is now verified!")
	assert.Contains(t, body, "alice")
}

func TestLogoutHandler(t *testing.T) {
	t.Parallel()

	app := newTestApp(&fakeUserService{})

	resp := doRequest(t, app, http.MethodGet, "/logout")

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/?logout=true", resp.Header.Get("Location"))

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

func TestIndex_LoggedOutShowsLoginPage(t *testing.T) {
	t.Parallel()

	app := newTestApp(&fakeUserService{})

	for _, target := range []string{"/", "/dashboard"} {
		resp := doRequest(t, app, http.MethodGet, target)
		body := bodyOf(t, resp)
		assert.Contains(t, body, "client-123", target)
		assert.NotContains(t, body, "Welcome,", target)
	}
}

func TestIndex_LoggedInShowsDashboard(t *testing.T) {
	t.Parallel()

	svc := &fakeUserService{loginUser: &domain.User{ID: 7, Username: "alice"}}
	app := newTestApp(svc)

	login := doRequest(t, app, http.MethodPost, "/login?username=alice&password=pw1")
	cookie := sessionCookie(login)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	resp, err := app.Test(req)
	require.NoError(t, err)

	body := bodyOf(t, resp)
	assert.Contains(t, body, "Welcome, alice")
	assert.True(t, strings.Contains(resp.Header.Get("Content-Type"), "html"))
}

func TestLogout_SubsequentDashboardIsLoggedOut(t *testing.T) {
	t.Parallel()

	svc := &fakeUserService{loginUser: &domain.User{ID: 7, Username: "alice"}}
	app := newTestApp(svc)

	login := doRequest(t, app, http.MethodPost, "/login?username=alice&password=pw1")
	require.NotNil(t, sessionCookie(login))

	// logout clears the cookie; a request without it sees the login page
	logout := doRequest(t, app, http.MethodGet, "/logout")
	cleared := sessionCookie(logout)
	require.NotNil(t, cleared)
	require.Empty(t, cleared.Value)

	resp := doRequest(t, app, http.MethodGet, "/dashboard")
	assert.NotContains(t, bodyOf(t, resp), "Welcome,")
}
