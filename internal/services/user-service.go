package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/spockNinja/web-template/internal/clients/google"
	"github.com/spockNinja/web-template/internal/domain"
	"github.com/spockNinja/web-template/internal/dto"
	"github.com/spockNinja/web-template/internal/interfaces"
	"github.com/spockNinja/web-template/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// googleIssuers are the issuer values accepted on federated login.
var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

const verifyEmailTopic = "user.verify_email"

type UserService interface {
	Register(input dto.RegisterRequest) (*domain.User, error)
	Login(input dto.LoginRequest) (*domain.User, error)
	GoogleLogin(ctx context.Context, input dto.GoogleLoginRequest) (*domain.User, error)
	CheckUsername(username string) error
	CheckEmail(email string) error
	Verify(id string) (*domain.User, error)
}

type userService struct {
	repo     repository.UserRepository
	verifier google.Verifier
	producer interfaces.ProducerHandler

	appURL string
}

func NewUserService(
	repo repository.UserRepository,
	verifier google.Verifier,
	producer interfaces.ProducerHandler,
	appURL string,
) UserService {
	return &userService{
		repo:     repo,
		verifier: verifier,
		producer: producer,
		appURL:   strings.TrimRight(appURL, "/"),
	}
}

// Register creates an inactive account and dispatches the
// verification mail event.
func (u *userService) Register(input dto.RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := input.Password

	if username == "" || email == "" || password == "" {
		return nil, &domain.ValidationError{Message: "You must provide a username, email, and password to register."}
	}

	existing, err := u.repo.FindUsersByUsernameOrEmail(username, email)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		// username match takes priority when both collide
		return nil, conflictFor(existing, username)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}
	hash := string(hashed)

	newUser := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: &hash,
		Active:       false,
	}

	usr, err := u.repo.CreateUser(newUser)
	if errors.Is(err, domain.ErrDuplicate) {
		// lost the race to a concurrent registration; the unique
		// index is the authoritative signal
		taken, lookupErr := u.repo.FindUsersByUsernameOrEmail(username, email)
		if lookupErr == nil && len(taken) > 0 {
			return nil, conflictFor(taken, username)
		}
		return nil, &domain.ConflictError{Message: "There is already an account with this username"}
	}
	if err != nil {
		return nil, err
	}

	u.publishVerifyEmail(usr)

	return usr, nil
}

func conflictFor(existing []domain.User, username string) error {
	for _, match := range existing {
		if match.Username == username {
			return &domain.ConflictError{Message: "There is already an account with this username"}
		}
	}
	return &domain.ConflictError{Message: "There is already an account with this email address"}
}

func (u *userService) publishVerifyEmail(usr *domain.User) {
	if u.producer == nil {
		return
	}

	event := dto.VerifyEmailEvent{
		UserID:   usr.ID,
		Email:    usr.Email,
		Username: usr.Username,
		Link:     fmt.Sprintf("%s/verify?id=%d", u.appURL, usr.ID),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("marshal verify email event error: %v", err)
		return
	}

	if err := u.producer.PublishMessage([]byte(verifyEmailTopic), payload); err != nil {
		log.Printf("publish verify email event error: %v", err)
	}
}

// Login checks the credentials against the stored hash. The hash
// comparison runs before the active check, so a wrong password on an
// unverified account reports invalid credentials.
func (u *userService) Login(input dto.LoginRequest) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	password := input.Password

	if username == "" || password == "" {
		return nil, &domain.ValidationError{Message: "You must provide a username and password"}
	}

	user, err := u.repo.FindUserByUsername(username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.AuthError{Message: "Login credentials invalid"}
	}
	if err != nil {
		return nil, err
	}

	if user.PasswordHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return nil, &domain.AuthError{Message: "Login credentials invalid"}
	}

	if !user.Active {
		return nil, &domain.AuthError{Message: "Please confirm your registration before logging in"}
	}

	return user, nil
}

// GoogleLogin signs a user in from a verified Google ID token,
// creating or linking the account as needed.
func (u *userService) GoogleLogin(ctx context.Context, input dto.GoogleLoginRequest) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	idToken := strings.TrimSpace(input.IDToken)

	if email == "" || idToken == "" {
		return nil, &domain.ValidationError{Message: "Missing email or id token."}
	}

	claims, err := u.verifier.Verify(ctx, idToken)
	if err != nil {
		log.Printf("google token verification error: %v", err)
		return nil, &domain.AuthError{Message: "Google token verification failed"}
	}

	user, err := u.repo.FindUserByEmail(email)
	if errors.Is(err, domain.ErrNotFound) {
		// no matching account: create one and skip email verification,
		// trusting google's ownership check
		username := claims.Name
		if username == "" {
			username = email
		}
		subject := claims.Subject
		user, err = u.repo.CreateUser(&domain.User{
			Username: username,
			Email:    email,
			Active:   true,
			GoogleID: &subject,
		})
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, &domain.ConflictError{Message: "There is already an account with this username"}
		}
	}
	if err != nil {
		return nil, err
	}

	if !issuerAccepted(claims.Issuer) {
		return nil, &domain.AuthError{Message: "Auth token does not match google issuer"}
	}

	if user.GoogleID != nil {
		if *user.GoogleID != claims.Subject {
			return nil, &domain.AuthError{Message: "Google user ID does not match"}
		}
		return user, nil
	}

	// existing password account using google login for the first time
	subject := claims.Subject
	user.GoogleID = &subject
	if err := u.repo.SaveUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

func issuerAccepted(issuer string) bool {
	for _, accepted := range googleIssuers {
		if issuer == accepted {
			return true
		}
	}
	return false
}

func (u *userService) CheckUsername(username string) error {
	username = strings.TrimSpace(username)

	_, err := u.repo.FindUserByUsername(username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return &domain.ConflictError{Message: "Username already in use."}
}

func (u *userService) CheckEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	_, err := u.repo.FindUserByEmail(email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return &domain.ConflictError{Message: "Email already in use. Please sign in or recover your account information"}
}

// Verify activates the account behind a verification link. Anyone
// holding a valid id can verify; that is the trust model of
// email-link verification. Re-verifying is harmless.
func (u *userService) Verify(id string) (*domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &domain.InputError{Message: "User ID missing"}
	}

	userID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return nil, &domain.InputError{Message: "No user found matching ID"}
	}

	user, err := u.repo.FindUserById(uint(userID))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.InputError{Message: "No user found matching ID"}
	}
	if err != nil {
		return nil, err
	}

	user.Active = true
	if err := u.repo.SaveUser(user); err != nil {
		return nil, err
	}

	return user, nil
}
