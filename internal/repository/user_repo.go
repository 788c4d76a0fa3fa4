package repository

import (
	"context"

	"github.com/vidora/vidora-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByLogin(ctx context.Context, username, email string) (*domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	EmailTakenByOther(ctx context.Context, email string, userID uint64) (bool, error)
	UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a user; a username/email collision returns ErrDuplicate
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// FindByID returns nil, nil when the user does not exist
func (r *userRepository) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uint64) ([]*domain.User, error) {
	var users []*domain.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

// FindByLogin matches either the username or the email
func (r *userRepository) FindByLogin(ctx context.Context, username, email string) (*domain.User, error) {
	switch {
	case username != "" && email != "":
		return r.first(ctx, "username = ? OR email = ?", username, email)
	case username != "":
		return r.first(ctx, "username = ?", username)
	default:
		return r.first(ctx, "email = ?", email)
	}
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) EmailTakenByOther(ctx context.Context, email string, userID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ? AND id <> ?", email, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields).Error
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *userRepository) first(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where(query, args...).Take(&user).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
