package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fms/internal/auth"
	apperrors "fms/internal/errors"
	"fms/internal/model"
	"fms/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CreateSystemAdmin(ctx context.Context, user *model.User, questions []model.SecurityQuestion) error {
	args := m.Called(ctx, user, questions)
	return args.Error(0)
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

// MockSecurityQuestionRepository is a mock implementation of SecurityQuestionRepository.
type MockSecurityQuestionRepository struct {
	mock.Mock
}

func (m *MockSecurityQuestionRepository) CreateBatch(ctx context.Context, questions []model.SecurityQuestion) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

func (m *MockSecurityQuestionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.SecurityQuestion, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SecurityQuestion), args.Error(1)
}

func (m *MockSecurityQuestionRepository) ReplaceForUser(ctx context.Context, userID uuid.UUID, questions []model.SecurityQuestion) error {
	args := m.Called(ctx, userID, questions)
	return args.Error(0)
}

var _ repository.SecurityQuestionRepository = (*MockSecurityQuestionRepository)(nil)

// MockActivityLogRepository is a mock implementation of ActivityLogRepository.
type MockActivityLogRepository struct {
	mock.Mock
}

func (m *MockActivityLogRepository) Create(ctx context.Context, entry *model.ActivityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockActivityLogRepository) List(ctx context.Context, limit, offset int) ([]model.ActivityLog, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivityLog), args.Error(1)
}

var _ repository.ActivityLogRepository = (*MockActivityLogRepository)(nil)

type authServiceMocks struct {
	userRepo     *MockUserRepository
	questionRepo *MockSecurityQuestionRepository
	activityRepo *MockActivityLogRepository
}

func newAuthServiceWithMocks() (AuthService, *authServiceMocks) {
	mocks := &authServiceMocks{
		userRepo:     new(MockUserRepository),
		questionRepo: new(MockSecurityQuestionRepository),
		activityRepo: new(MockActivityLogRepository),
	}
	service := NewAuthService(
		mocks.userRepo,
		mocks.questionRepo,
		mocks.activityRepo,
		NewQuestionVerifier(),
		auth.NewJWTService("test-secret"),
	)
	return service, mocks
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func activeUser(t *testing.T, password string) *model.User {
	return &model.User{
		ID:           uuid.New(),
		Username:     "accountant",
		Email:        "accountant@example.com",
		PasswordHash: hashPassword(t, password),
		Name:         "محاسب",
		Role:         model.RoleAccountant,
		IsActive:     true,
	}
}

func installInput() InstallInput {
	return InstallInput{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "password123",
		Name:     "مدير النظام",
		Questions: []QuestionInput{
			{Question: "س1", Answer: "ج1"},
			{Question: "س2", Answer: "ج2"},
			{Question: "س3", Answer: "ج3"},
			{Question: "س4", Answer: "ج4"},
			{Question: "س5", Answer: "ج5"},
		},
	}
}

func TestAuthService_Install(t *testing.T) {
	t.Run("creates the first admin and returns a token", func(t *testing.T) {
		service, mocks := newAuthServiceWithMocks()
		mocks.userRepo.On("CountByRole", mock.Anything, model.RoleSystemAdmin).Return(int64(0), nil)
		mocks.userRepo.On("FindByUsername", mock.Anything, "admin").Return(nil, gorm.ErrRecordNotFound)
		mocks.userRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(nil, gorm.ErrRecordNotFound)
		mocks.userRepo.On("CreateSystemAdmin", mock.Anything, mock.AnythingOfType("*model.User"), mock.AnythingOfType("[]model.SecurityQuestion")).
			Run(func(args mock.Arguments) {
				user := args.Get(1).(*model.User)
				user.ID = uuid.New()

				questions := args.Get(2).([]model.SecurityQuestion)
				assert.Len(t, questions, QuestionCount)
				for i, q := range questions {
					assert.Equal(t, i, q.Position)
				}
			}).Return(nil)
		mocks.activityRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.ActivityLog")).Return(nil)

		token, user, err := service.Install(context.Background(), installInput(), "127.0.0.1", "test-agent")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, model.RoleSystemAdmin, user.Role)
		assert.True(t, user.IsActive)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
		mocks.userRepo.AssertExpectations(t)
	})

	t.Run("rejects a second install", func(t *testing.T) {
		service, mocks := newAuthServiceWithMocks()
		mocks.userRepo.On("CountByRole", mock.Anything, model.RoleSystemAdmin).Return(int64(1), nil)

		_, _, err := service.Install(context.Background(), installInput(), "", "")
		assert.ErrorIs(t, err, apperrors.ErrAdminExists)
	})

	t.Run("maps a losing concurrent install to admin exists", func(t *testing.T) {
		service, mocks := newAuthServiceWithMocks()
		mocks.userRepo.On("CountByRole", mock.Anything, model.RoleSystemAdmin).Return(int64(0), nil)
		mocks.userRepo.On("FindByUsername", mock.Anything, "admin").Return(nil, gorm.ErrRecordNotFound)
		mocks.userRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(nil, gorm.ErrRecordNotFound)
		mocks.userRepo.On("CreateSystemAdmin", mock.Anything, mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

		_, _, err := service.Install(context.Background(), installInput(), "", "")
		assert.ErrorIs(t, err, apperrors.ErrAdminExists)
	})

	t.Run("rejects a short password", func(t *testing.T) {
		service, _ := newAuthServiceWithMocks()
		in := installInput()
		in.Password = "short"

		_, _, err := service.Install(context.Background(), in, "", "")
		assert.ErrorIs(t, err, apperrors.ErrPasswordTooShort)
	})

	t.Run("rejects the wrong number of questions", func(t *testing.T) {
		service, _ := newAuthServiceWithMocks()
		in := installInput()
		in.Questions = in.Questions[:3]

		_, _, err := service.Install(context.Background(), in, "", "")
		assert.ErrorIs(t, err, apperrors.ErrQuestionsRequired)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("succeeds by username and updates last login", func(t *testing.T) {
		service, mocks := newAuthServiceWithMocks()
		user := activeUser(t, "password123")
		mocks.userRepo.On("FindByUsername", mock.Anything, "accountant").Return(user, nil)
		mocks.userRepo.On("UpdateLastLogin", mock.Anything, user.ID, mock.AnythingOfType("time.Time")).Return(nil)
		mocks.activityRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.ActivityLog")).Return(nil)

		token, got, err := service.Login(context.Background(), "accountant", "password123", "127.0.0.1", "test-agent")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, user.ID, got.ID)
		assert.NotNil(t, got.LastLogin)
		mocks.userRepo.AssertExpectations(t)
	})

	t.Run("falls back to email when the username misses", func(t *testing.T) {
		service, mocks := newAuthServiceWithMocks()
		user := activeUser(t, "password123")
		mocks.userRepo.On("FindByUsername", mock.Anything, "accountant@example.com").Return(nil, gorm.ErrRecordNotFound)
		mocks.userRepo.On("FindByEmail", mock.Anything, "accountant@example.com").Return(user, nil)
		mocks.userRepo.On("UpdateLastLogin", mock.Anything, user.ID, mock.AnythingOfType("time.Time")).Return(nil)
		mocks.activityRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.ActivityLog")).Return(nil)

		_, got, err := service.Login(context.Background(), "accountant@example.com", "password123", "", "")

		assert.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("rejects an unknown identifier", func(t *testing.T) {
		service, mocks := newAuthServiceWithMocks()
		mocks.userRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
		mocks.userRepo.On("FindByEmail", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, _, err := service.Login(context.Background(), "ghost", "password123", "", "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		service, mocks := newAuthServiceWithMocks()
		user := activeUser(t, "password123")
		mocks.userRepo.On("FindByUsername", mock.Anything, "accountant").Return(user, nil)

		_, _, err := service.Login(context.Background(), "accountant", "wrong-password", "", "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("rejects an inactive account", func(t *testing.T) {
		service, mocks := newAuthServiceWithMocks()
		user := activeUser(t, "password123")
		user.IsActive = false
		mocks.userRepo.On("FindByUsername", mock.Anything, "accountant").Return(user, nil)

		_, _, err := service.Login(context.Background(), "accountant", "password123", "", "")
		assert.ErrorIs(t, err, apperrors.ErrUserInactive)
	})
}

func TestAuthService_CreateUser(t *testing.T) {
	t.Run("creates a non-admin user", func(t *testing.T) {
		service, mocks := newAuthServiceWithMocks()
		mocks.userRepo.On("FindByUsername", mock.Anything, "viewer").Return(nil, gorm.ErrRecordNotFound)
		mocks.userRepo.On("FindByEmail", mock.Anything, "viewer@example.com").Return(nil, gorm.ErrRecordNotFound)
		mocks.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
		mocks.activityRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.ActivityLog")).Return(nil)

		user, err := service.CreateUser(context.Background(), CreateUserInput{
			Username: "viewer",
			Email:    "viewer@example.com",
			Password: "password123",
			Name:     "مشاهد",
			Role:     model.RoleViewer,
		}, "admin")

		assert.NoError(t, err)
		assert.Equal(t, model.RoleViewer, user.Role)
		assert.True(t, user.IsActive)
	})

	t.Run("rejects creating another system admin", func(t *testing.T) {
		service, _ := newAuthServiceWithMocks()

		_, err := service.CreateUser(context.Background(), CreateUserInput{
			Username: "admin2",
			Email:    "admin2@example.com",
			Password: "password123",
			Role:     model.RoleSystemAdmin,
		}, "admin")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		service, mocks := newAuthServiceWithMocks()
		mocks.userRepo.On("FindByUsername", mock.Anything, "viewer").Return(activeUser(t, "x"), nil)

		_, err := service.CreateUser(context.Background(), CreateUserInput{
			Username: "viewer",
			Email:    "viewer@example.com",
			Password: "password123",
			Role:     model.RoleViewer,
		}, "admin")
		assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		service, mocks := newAuthServiceWithMocks()
		mocks.userRepo.On("FindByUsername", mock.Anything, "viewer").Return(nil, gorm.ErrRecordNotFound)
		mocks.userRepo.On("FindByEmail", mock.Anything, "viewer@example.com").Return(activeUser(t, "x"), nil)

		_, err := service.CreateUser(context.Background(), CreateUserInput{
			Username: "viewer",
			Email:    "viewer@example.com",
			Password: "password123",
			Role:     model.RoleViewer,
		}, "admin")
		assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	})
}

func TestAuthService_QuestionsForUser(t *testing.T) {
	t.Run("returns question texts without answers", func(t *testing.T) {
		service, mocks := newAuthServiceWithMocks()
		user := activeUser(t, "password123")
		mocks.userRepo.On("FindByUsername", mock.Anything, "accountant").Return(user, nil)
		mocks.questionRepo.On("ListByUser", mock.Anything, user.ID).Return([]model.SecurityQuestion{
			{Question: "ما اسم مدينتك؟", Answer: "القاهرة", Position: 0},
			{Question: "ما لونك المفضل؟", Answer: "الأزرق", Position: 1},
		}, nil)

		texts, err := service.QuestionsForUser(context.Background(), "accountant")

		assert.NoError(t, err)
		assert.Equal(t, []string{"ما اسم مدينتك؟", "ما لونك المفضل؟"}, texts)
	})

	t.Run("maps an unknown user", func(t *testing.T) {
		service, mocks := newAuthServiceWithMocks()
		mocks.userRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
		mocks.userRepo.On("FindByEmail", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.QuestionsForUser(context.Background(), "ghost")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestAuthService_VerifyAnswers(t *testing.T) {
	service, mocks := newAuthServiceWithMocks()
	user := activeUser(t, "password123")
	mocks.userRepo.On("FindByUsername", mock.Anything, "accountant").Return(user, nil)
	mocks.questionRepo.On("ListByUser", mock.Anything, user.ID).Return(storedQuestions("a", "b", "c", "d", "e"), nil)

	count, pass, err := service.VerifyAnswers(context.Background(), "accountant", []string{"a", "b", "c", "x", "y"}, RecoveryThreshold)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.True(t, pass)

	count, pass, err = service.VerifyAnswers(context.Background(), "accountant", []string{"a", "b", "c", "x", "y"}, StrictThreshold)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.False(t, pass)
}

func TestAuthService_ResetPassword(t *testing.T) {
	t.Run("replaces the stored hash", func(t *testing.T) {
		service, mocks := newAuthServiceWithMocks()
		user := activeUser(t, "old-password-1")
		var storedHash string
		mocks.userRepo.On("FindByUsername", mock.Anything, "accountant").Return(user, nil)
		mocks.userRepo.On("UpdatePassword", mock.Anything, user.ID, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				storedHash = args.String(2)
			}).Return(nil)
		mocks.activityRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.ActivityLog")).Return(nil)

		err := service.ResetPassword(context.Background(), "accountant", "new-password-1", "127.0.0.1", "test-agent")

		assert.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("new-password-1")))
		assert.Error(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("old-password-1")))
	})

	t.Run("rejects a short password before touching the user", func(t *testing.T) {
		service, _ := newAuthServiceWithMocks()

		err := service.ResetPassword(context.Background(), "accountant", "short", "", "")
		assert.ErrorIs(t, err, apperrors.ErrPasswordTooShort)
	})

	t.Run("maps an unknown user", func(t *testing.T) {
		service, mocks := newAuthServiceWithMocks()
		mocks.userRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
		mocks.userRepo.On("FindByEmail", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

		err := service.ResetPassword(context.Background(), "ghost", "new-password-1", "", "")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestAuthService_FindByID(t *testing.T) {
	service, mocks := newAuthServiceWithMocks()
	user := activeUser(t, "password123")
	mocks.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	got, err := service.FindByID(context.Background(), user.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, user.Username, got.Username)

	_, err = service.FindByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
