package repositories

import (
	"context"
	"strings"

	"github.com/AbbasAlizada1380/mellat/internal/apperr"
	"github.com/AbbasAlizada1380/mellat/internal/database"
	"github.com/AbbasAlizada1380/mellat/internal/logger"
	. "github.com/AbbasAlizada1380/mellat/internal/models"
	"github.com/AbbasAlizada1380/mellat/internal/services"

	"gorm.io/gorm"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	Create(ctx context.Context, user *User) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUser(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := r.getDB(ctx).First(&user, id).Error; err != nil {
		return nil, r.notFoundOr("GetByID", err, "id", id)
	}
	return &user, nil
}

// GetByLogin matches the login case-insensitively.
func (r *userRepository) GetByLogin(ctx context.Context, login string) (*User, error) {
	var user User
	err := r.getDB(ctx).
		Where("LOWER(login) = ?", strings.ToLower(strings.TrimSpace(login))).
		First(&user).Error
	if err != nil {
		return nil, r.notFoundOr("GetByLogin", err, "login", login)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	if err := r.getDB(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return apperr.Wrap(apperr.KindConflict, "Login already exists", err)
		}
		return r.log.Function("Create").Err("failed to create user", err, "login", user.Login)
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.getDB(ctx).Model(&User{}).Count(&count).Error; err != nil {
		return 0, r.log.Function("Count").Err("failed to count users", err)
	}
	return count, nil
}

func (r *userRepository) notFoundOr(function string, err error, args ...any) error {
	err = translateError(err, MSG_USER_NOT_FOUND)
	if apperr.Is(err, apperr.KindNotFound) {
		return err
	}
	return r.log.Function(function).Err("failed to get user", err, args...)
}
