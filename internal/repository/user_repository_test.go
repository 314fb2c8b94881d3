package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"fms/internal/model"
)

func adminWithQuestions() (*model.User, []model.SecurityQuestion) {
	user := &model.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: "hashed",
		Name:         "مدير النظام",
		Role:         model.RoleSystemAdmin,
		IsActive:     true,
	}
	questions := []model.SecurityQuestion{
		{Question: "س1", Answer: "ج1", Position: 0},
		{Question: "س2", Answer: "ج2", Position: 1},
		{Question: "س3", Answer: "ج3", Position: 2},
		{Question: "س4", Answer: "ج4", Position: 3},
		{Question: "س5", Answer: "ج5", Position: 4},
	}
	return user, questions
}

func TestUserRepository_CreateSystemAdmin(t *testing.T) {
	db := newTestDB(t, &model.User{}, &model.SecurityQuestion{})
	userRepo := NewUserRepository(db)
	questionRepo := NewSecurityQuestionRepository(db)
	ctx := context.Background()

	user, questions := adminWithQuestions()
	assert.NoError(t, userRepo.CreateSystemAdmin(ctx, user, questions))
	assert.NotEqual(t, uuid.Nil, user.ID)

	stored, err := questionRepo.ListByUser(ctx, user.ID)
	assert.NoError(t, err)
	assert.Len(t, stored, 5)
	for i, q := range stored {
		assert.Equal(t, user.ID, q.UserID)
		assert.Equal(t, i, q.Position)
	}

	count, err := userRepo.CountByRole(ctx, model.RoleSystemAdmin)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

// Row locking cannot serialize two installs racing before any admin row
// exists, so the unique index on admin_slot must reject the loser even when
// both writers pass the existence scan.
func TestUserRepository_AdminSlotRejectsConcurrentWinnerLoser(t *testing.T) {
	db := newTestDB(t, &model.User{}, &model.SecurityQuestion{})
	repo := NewUserRepository(db)
	ctx := context.Background()

	winner, questions := adminWithQuestions()
	assert.NoError(t, repo.CreateSystemAdmin(ctx, winner, questions))
	assert.NotNil(t, winner.AdminSlot)

	// Simulate the loser's insert landing after the winner's commit but
	// without the scan having seen it.
	slot := true
	loser := &model.User{
		Username:     "admin2",
		Email:        "admin2@example.com",
		PasswordHash: "hashed",
		Name:         "مدير آخر",
		Role:         model.RoleSystemAdmin,
		AdminSlot:    &slot,
		IsActive:     true,
	}
	err := db.WithContext(ctx).Create(loser).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	count, err := repo.CountByRole(ctx, model.RoleSystemAdmin)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_AdminSlotDoesNotCollideForRegularUsers(t *testing.T) {
	db := newTestDB(t, &model.User{})
	repo := NewUserRepository(db)
	ctx := context.Background()

	for _, name := range []string{"viewer1", "viewer2"} {
		err := repo.Create(ctx, &model.User{
			Username:     name,
			Email:        name + "@example.com",
			PasswordHash: "hashed",
			Name:         name,
			Role:         model.RoleViewer,
			IsActive:     true,
		})
		assert.NoError(t, err)
	}
}

func TestUserRepository_CreateSystemAdminRejectsSecond(t *testing.T) {
	db := newTestDB(t, &model.User{}, &model.SecurityQuestion{})
	repo := NewUserRepository(db)
	ctx := context.Background()

	first, questions := adminWithQuestions()
	assert.NoError(t, repo.CreateSystemAdmin(ctx, first, questions))

	second, questions2 := adminWithQuestions()
	second.Username = "admin2"
	second.Email = "admin2@example.com"
	err := repo.CreateSystemAdmin(ctx, second, questions2)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	count, err := repo.CountByRole(ctx, model.RoleSystemAdmin)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_FindByUsernameAndEmail(t *testing.T) {
	db := newTestDB(t, &model.User{})
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &model.User{
		Username:     "accountant",
		Email:        "accountant@example.com",
		PasswordHash: "hashed",
		Name:         "محاسب",
		Role:         model.RoleAccountant,
		IsActive:     true,
	}
	assert.NoError(t, repo.Create(ctx, user))

	byUsername, err := repo.FindByUsername(ctx, "accountant")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)

	byEmail, err := repo.FindByEmail(ctx, "accountant@example.com")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	// Identifier matching is exact and case-sensitive.
	_, err = repo.FindByUsername(ctx, "Accountant")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	db := newTestDB(t, &model.User{})
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &model.User{
		Username:     "accountant",
		Email:        "accountant@example.com",
		PasswordHash: "old-hash",
		Name:         "محاسب",
		Role:         model.RoleAccountant,
		IsActive:     true,
	}
	assert.NoError(t, repo.Create(ctx, user))

	assert.NoError(t, repo.UpdatePassword(ctx, user.ID, "new-hash"))

	reloaded, err := repo.FindByID(ctx, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "new-hash", reloaded.PasswordHash)
}

func TestUserRepository_UpdateLastLogin(t *testing.T) {
	db := newTestDB(t, &model.User{})
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &model.User{
		Username:     "accountant",
		Email:        "accountant@example.com",
		PasswordHash: "hashed",
		Name:         "محاسب",
		Role:         model.RoleAccountant,
		IsActive:     true,
	}
	assert.NoError(t, repo.Create(ctx, user))
	assert.Nil(t, user.LastLogin)

	at := time.Now().Truncate(time.Second)
	assert.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))

	reloaded, err := repo.FindByID(ctx, user.ID)
	assert.NoError(t, err)
	assert.NotNil(t, reloaded.LastLogin)
	assert.WithinDuration(t, at, *reloaded.LastLogin, time.Second)
}
