package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const sessionCookie = "session"

// State is the per-client session: who is logged in, if anyone.
// A zero State means logged out.
type State struct {
	Username string
	UserID   uint
	LoggedIn bool
}

// Session manages the signed session cookie. The cookie value is an
// HS256 token carrying the username and user id; clearing the cookie
// clears every session field at once.
type Session struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

func SetupSession(secret string) Session {
	return Session{
		Secret: secret,
		TTL:    30 * 24 * time.Hour,
	}
}

// Issue establishes the session for the given user.
func (s Session) Issue(ctx *fiber.Ctx, username string, userID uint) error {
	token, err := s.signToken(username, userID)
	if err != nil {
		return err
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   s.Secure,
		Expires:  time.Now().Add(s.TTL),
	})
	return nil
}

// Read returns the current session state. Missing, malformed, or
// expired cookies all read as logged out.
func (s Session) Read(ctx *fiber.Ctx) State {
	token := strings.TrimSpace(ctx.Cookies(sessionCookie))
	if token == "" {
		return State{}
	}

	state, err := s.parseToken(token)
	if err != nil {
		return State{}
	}
	return state
}

// Clear removes the session cookie unconditionally.
func (s Session) Clear(ctx *fiber.Ctx) {
	ctx.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   s.Secure,
		Expires:  time.Now().Add(-time.Hour),
	})
}

func (s Session) signToken(username string, userID uint) (string, error) {
	if username == "" || userID == 0 {
		return "", errors.New("required inputs are missing to generate token")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"user_id":  userID,
		"iat":      now.Unix(),
		"exp":      now.Add(s.TTL).Unix(),
	})

	tokenStr, err := token.SignedString([]byte(s.Secret))
	if err != nil {
		return "", errors.New("unable to sign the token")
	}

	return tokenStr, nil
}

func (s Session) parseToken(tokenStr string) (State, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.Secret), nil
	})
	if err != nil {
		return State{}, errors.New("token parse error")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return State{}, errors.New("invalid token claims")
	}

	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return State{}, errors.New("missing username claim")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok || userID == 0 {
		return State{}, errors.New("missing user_id claim")
	}

	return State{
		Username: username,
		UserID:   uint(userID),
		LoggedIn: true,
	}, nil
}
