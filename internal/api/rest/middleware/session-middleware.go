package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spockNinja/web-template/internal/helper"
)

// SessionLoader reads the session cookie once per request and exposes
// the state to handlers via Locals. Requests without a valid session
// continue as logged out.
func SessionLoader(session helper.Session) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Locals("session", session.Read(ctx))
		return ctx.Next()
	}
}

// CurrentSession returns the state stored by SessionLoader.
func CurrentSession(ctx *fiber.Ctx) helper.State {
	state, ok := ctx.Locals("session").(helper.State)
	if !ok {
		return helper.State{}
	}
	return state
}
