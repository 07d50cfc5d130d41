package userController

import (
	"context"
	"strings"
	"time"

	"github.com/AbbasAlizada1380/mellat/internal/apperr"
	"github.com/AbbasAlizada1380/mellat/internal/logger"
	. "github.com/AbbasAlizada1380/mellat/internal/models"
	"github.com/AbbasAlizada1380/mellat/internal/repositories"
	"github.com/AbbasAlizada1380/mellat/internal/services"
)

const (
	MSG_CREDENTIALS_REQUIRED = "login and password are required"
	MSG_INVALID_CREDENTIALS  = "Invalid login or password"
)

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type UserController struct {
	userRepo     repositories.UserRepository
	tokenService *services.TokenService
	log          logger.Logger
}

func New(
	userRepo repositories.UserRepository,
	tokenService *services.TokenService,
) *UserController {
	return &UserController{
		userRepo:     userRepo,
		tokenService: tokenService,
		log:          logger.New("UserController"),
	}
}

func (uc *UserController) Login(ctx context.Context, request LoginRequest) (Session, error) {
	log := uc.log.Function("Login")

	login := strings.TrimSpace(request.Login)
	if login == "" || request.Password == "" {
		return Session{}, apperr.Validation(MSG_CREDENTIALS_REQUIRED)
	}

	user, err := uc.userRepo.GetByLogin(ctx, login)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return Session{}, apperr.Unauthorized(MSG_INVALID_CREDENTIALS)
		}
		return Session{}, err
	}

	if !user.CheckPassword(request.Password) {
		log.Warn("Rejected login", "login", login)
		return Session{}, apperr.Unauthorized(MSG_INVALID_CREDENTIALS)
	}

	token, expiresAt, err := uc.tokenService.Issue(*user)
	if err != nil {
		return Session{}, err
	}

	log.Info("User logged in", "userID", user.ID)
	return Session{Token: token, ExpiresAt: expiresAt, User: *user}, nil
}

// GetByID resolves the user a verified token belongs to.
func (uc *UserController) GetByID(ctx context.Context, id uint) (*User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// EnsureAdmin creates the admin account unless a user with that login
// already exists. It reports whether a user was created.
func (uc *UserController) EnsureAdmin(
	ctx context.Context,
	login, password string,
) (*User, bool, error) {
	log := uc.log.Function("EnsureAdmin")

	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, false, apperr.Validation(MSG_CREDENTIALS_REQUIRED)
	}

	existing, err := uc.userRepo.GetByLogin(ctx, login)
	if err == nil {
		return existing, false, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return nil, false, err
	}

	user := &User{Login: login, DisplayName: login, IsAdmin: true}
	if err := user.SetPassword(password); err != nil {
		return nil, false, log.Err("failed to hash password", err)
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, false, err
	}

	log.Info("Admin user created", "login", login)
	return user, true, nil
}
