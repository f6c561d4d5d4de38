package handlers

import (
	"bytes"
	"html/template"
	"log"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/spockNinja/web-template/internal/api/rest/middleware"
	"github.com/spockNinja/web-template/internal/domain"
	"github.com/spockNinja/web-template/internal/dto"
	"github.com/spockNinja/web-template/internal/helper"
	"github.com/spockNinja/web-template/internal/helper/utils"
	"github.com/spockNinja/web-template/internal/services"
)

type PageConfig struct {
	AppName        string
	GoogleClientID string
	TemplateDir    string
}

type AuthHandler struct {
	svc     services.UserService
	session helper.Session
	pages   PageConfig
}

func NewAuthHandler(svc services.UserService, session helper.Session, pages PageConfig) *AuthHandler {
	if pages.TemplateDir == "" {
		pages.TemplateDir = "internal/templates"
	}
	return &AuthHandler{svc: svc, session: session, pages: pages}
}

func (h *AuthHandler) SetupRoutes(app *fiber.App) {
	app.Use(middleware.SessionLoader(h.session))

	app.Post("/login", h.Login)
	app.Post("/googleLogin", h.GoogleLogin)
	app.Post("/register", h.Register)
	app.Post("/checkUsername", h.CheckUsername)
	app.Post("/checkEmail", h.CheckEmail)

	app.Get("/verify", h.Verify)
	app.Get("/logout", h.Logout)
	app.Get("/", h.Index)
	app.Get("/dashboard", h.Index)
}

// param reads an input from the query string first, then the form
// body. The frontend has historically sent both.
func param(ctx *fiber.Ctx, key string) string {
	if v := strings.TrimSpace(ctx.Query(key)); v != "" {
		return v
	}
	return strings.TrimSpace(ctx.FormValue(key))
}

// fail converts a service error into the advisory envelope. Errors
// outside the known taxonomy stay server-side.
func fail(ctx *fiber.Ctx, err error) error {
	if msg, ok := domain.UserMessage(err); ok {
		return utils.ResponseResult(ctx, false, msg)
	}
	log.Printf("handler error: %v", err)
	return utils.ResponseServerError(ctx)
}

func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	input := dto.LoginRequest{
		Username: param(ctx, "username"),
		Password: param(ctx, "password"),
	}

	user, err := h.svc.Login(input)
	if err != nil {
		return fail(ctx, err)
	}

	if err := h.session.Issue(ctx, user.Username, user.ID); err != nil {
		log.Printf("session issue error: %v", err)
		return utils.ResponseServerError(ctx)
	}
	return utils.ResponseResult(ctx, true, "")
}

func (h *AuthHandler) GoogleLogin(ctx *fiber.Ctx) error {
	input := dto.GoogleLoginRequest{
		Email:   param(ctx, "email"),
		IDToken: param(ctx, "idToken"),
	}

	user, err := h.svc.GoogleLogin(ctx.Context(), input)
	if err != nil {
		return fail(ctx, err)
	}

	if err := h.session.Issue(ctx, user.Username, user.ID); err != nil {
		log.Printf("session issue error: %v", err)
		return utils.ResponseServerError(ctx)
	}
	return utils.ResponseResult(ctx, true, "")
}

func (h *AuthHandler) Register(ctx *fiber.Ctx) error {
	input := dto.RegisterRequest{
		Username: param(ctx, "username"),
		Email:    param(ctx, "email"),
		Password: param(ctx, "password"),
	}

	if _, err := h.svc.Register(input); err != nil {
		return fail(ctx, err)
	}

	// registration never touches the session; login happens after
	// email verification
	return utils.ResponseResult(ctx, true, "Please check your email to verify your account.")
}

func (h *AuthHandler) CheckUsername(ctx *fiber.Ctx) error {
	if err := h.svc.CheckUsername(param(ctx, "username")); err != nil {
		return fail(ctx, err)
	}
	return utils.ResponseResult(ctx, true, "")
}

func (h *AuthHandler) CheckEmail(ctx *fiber.Ctx) error {
	if err := h.svc.CheckEmail(param(ctx, "email")); err != nil {
		return fail(ctx, err)
	}
	return utils.ResponseResult(ctx, true, "")
}

func (h *AuthHandler) Verify(ctx *fiber.Ctx) error {
	user, err := h.svc.Verify(ctx.Query("id"))
	if err != nil {
		return fail(ctx, err)
	}

	if err := h.session.Issue(ctx, user.Username, user.ID); err != nil {
		log.Printf("session issue error: %v", err)
		return utils.ResponseServerError(ctx)
	}

	return h.renderPage(ctx, "dashboard.html", fiber.Map{
		"AppName":  h.pages.AppName,
		"Username": user.Username,
		"Flash":    "Your account is now verified!",
	})
}

func (h *AuthHandler) Logout(ctx *fiber.Ctx) error {
	h.session.Clear(ctx)
	return ctx.Redirect("/?logout=true")
}

// Index serves the dashboard to logged in users and the login page to
// everyone else, on both / and /dashboard.
func (h *AuthHandler) Index(ctx *fiber.Ctx) error {
	state := middleware.CurrentSession(ctx)

	if state.LoggedIn {
		return h.renderPage(ctx, "dashboard.html", fiber.Map{
			"AppName":  h.pages.AppName,
			"Username": state.Username,
		})
	}

	return h.renderPage(ctx, "index.html", fiber.Map{
		"AppName":        h.pages.AppName,
		"GoogleClientID": h.pages.GoogleClientID,
	})
}

func (h *AuthHandler) renderPage(ctx *fiber.Ctx, name string, data fiber.Map) error {
	tmpl, err := template.ParseFiles(filepath.Join(h.pages.TemplateDir, name))
	if err != nil {
		log.Printf("parse template %s error: %v", name, err)
		return utils.ResponseServerError(ctx)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Printf("render template %s error: %v", name, err)
		return utils.ResponseServerError(ctx)
	}

	ctx.Type("html")
	return ctx.SendString(buf.String())
}
