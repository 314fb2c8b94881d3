package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fms/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	CountByRole(ctx context.Context, role model.Role) (int64, error)
	CreateSystemAdmin(ctx context.Context, user *model.User, questions []model.SecurityQuestion) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword overwrites the stored hash only.
func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

func (r *userRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}

// CreateSystemAdmin creates the first SYSTEM_ADMIN and its security
// questions inside one transaction. The locked existence scan turns most
// concurrent installs into a clean ErrDuplicatedKey, but locking cannot
// cover a row that does not exist yet, so the real guard is the unique
// index on users.admin_slot: the row claims the slot on insert and a
// second claim fails at the storage level.
func (r *userRepository) CreateSystemAdmin(ctx context.Context, user *model.User, questions []model.SecurityQuestion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("role = ?", model.RoleSystemAdmin).
			First(&existing).Error
		if err == nil {
			return gorm.ErrDuplicatedKey
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		slot := true
		user.AdminSlot = &slot
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].UserID = user.ID
		}
		return tx.Create(&questions).Error
	})
}
