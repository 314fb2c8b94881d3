package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fms/internal/auth"
	"fms/internal/errors"
	"fms/internal/model"
	"fms/internal/repository"
)

const (
	bcryptCost        = 10
	minPasswordLength = 8
)

// QuestionInput is one security question/answer pair supplied at install.
type QuestionInput struct {
	Question string
	Answer   string
}

// InstallInput carries the first-admin installation payload.
type InstallInput struct {
	Username  string
	Email     string
	Password  string
	Name      string
	Questions []QuestionInput
}

// CreateUserInput carries an admin-created user payload.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Name     string
	Role     model.Role
}

// AuthService handles authentication, installation and account recovery.
type AuthService interface {
	AdminExists(ctx context.Context) (bool, error)
	Install(ctx context.Context, in InstallInput, ip, userAgent string) (string, *model.User, error)
	Login(ctx context.Context, username, password, ip, userAgent string) (string, *model.User, error)
	CreateUser(ctx context.Context, in CreateUserInput, actor string) (*model.User, error)
	QuestionsForUser(ctx context.Context, username string) ([]string, error)
	VerifyAnswers(ctx context.Context, username string, answers []string, threshold int) (int, bool, error)
	ResetPassword(ctx context.Context, username, newPassword, ip, userAgent string) error
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type authService struct {
	userRepo     repository.UserRepository
	questionRepo repository.SecurityQuestionRepository
	activityRepo repository.ActivityLogRepository
	verifier     *QuestionVerifier
	jwtService   *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	questionRepo repository.SecurityQuestionRepository,
	activityRepo repository.ActivityLogRepository,
	verifier *QuestionVerifier,
	jwtService *auth.JWTService,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		questionRepo: questionRepo,
		activityRepo: activityRepo,
		verifier:     verifier,
		jwtService:   jwtService,
	}
}

// AdminExists reports whether a SYSTEM_ADMIN has been installed.
func (s *authService) AdminExists(ctx context.Context) (bool, error) {
	count, err := s.userRepo.CountByRole(ctx, model.RoleSystemAdmin)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	return count > 0, nil
}

// Install creates the one SYSTEM_ADMIN together with its five security
// questions and returns a signed token. The repository runs the existence
// check and the insert in one transaction, so concurrent installs cannot
// both succeed.
func (s *authService) Install(ctx context.Context, in InstallInput, ip, userAgent string) (string, *model.User, error) {
	if len(in.Password) < minPasswordLength {
		return "", nil, errors.ErrPasswordTooShort
	}
	if len(in.Questions) != QuestionCount {
		return "", nil, errors.ErrQuestionsRequired
	}

	exists, err := s.AdminExists(ctx)
	if err != nil {
		return "", nil, err
	}
	if exists {
		return "", nil, errors.ErrAdminExists
	}

	if err := s.checkUnique(ctx, in.Username, in.Email); err != nil {
		return "", nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashed),
		Name:         in.Name,
		Role:         model.RoleSystemAdmin,
		IsActive:     true,
	}

	questions := make([]model.SecurityQuestion, 0, QuestionCount)
	for i, q := range in.Questions {
		questions = append(questions, model.SecurityQuestion{
			Question: q.Question,
			Answer:   q.Answer,
			Position: i,
		})
	}

	if err := s.userRepo.CreateSystemAdmin(ctx, user, questions); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return "", nil, errors.ErrAdminExists
		}
		return "", nil, fmt.Errorf("create system admin: %w", err)
	}

	token, err := s.jwtService.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.logActivity(ctx, user, model.ActionInstall, "تثبيت النظام وإنشاء مدير النظام", ip, userAgent)
	return token, user, nil
}

// Login authenticates by username or email and returns a signed token.
func (s *authService) Login(ctx context.Context, username, password, ip, userAgent string) (string, *model.User, error) {
	user, err := s.findByIdentifier(ctx, username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil, errors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !user.IsActive {
		return "", nil, errors.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errors.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return "", nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &now

	token, err := s.jwtService.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.logActivity(ctx, user, model.ActionLogin, "تسجيل دخول ناجح", ip, userAgent)
	return token, user, nil
}

// CreateUser creates a non-admin user on behalf of an administrator.
func (s *authService) CreateUser(ctx context.Context, in CreateUserInput, actor string) (*model.User, error) {
	if len(in.Password) < minPasswordLength {
		return nil, errors.ErrPasswordTooShort
	}
	if !in.Role.Valid() || in.Role == model.RoleSystemAdmin {
		return nil, errors.ErrForbidden
	}

	if err := s.checkUnique(ctx, in.Username, in.Email); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashed),
		Name:         in.Name,
		Role:         in.Role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logActivity(ctx, user, model.ActionCreate, "إنشاء مستخدم جديد بواسطة "+actor, "", "")
	return user, nil
}

// QuestionsForUser returns the user's security question texts only, in
// position order. Answers are never returned.
func (s *authService) QuestionsForUser(ctx context.Context, username string) ([]string, error) {
	user, err := s.findByIdentifier(ctx, username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	questions, err := s.questionRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	texts := make([]string, 0, len(questions))
	for _, q := range questions {
		texts = append(texts, q.Question)
	}
	return texts, nil
}

// VerifyAnswers scores the submitted answers against the user's stored
// questions for the given threshold. There is no attempt limit or backoff;
// callers may retry without bound.
func (s *authService) VerifyAnswers(ctx context.Context, username string, answers []string, threshold int) (int, bool, error) {
	user, err := s.findByIdentifier(ctx, username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, false, errors.ErrUserNotFound
		}
		return 0, false, fmt.Errorf("find user: %w", err)
	}

	questions, err := s.questionRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return 0, false, fmt.Errorf("list questions: %w", err)
	}

	correct, pass := s.verifier.Verify(questions, answers, threshold)
	return correct, pass, nil
}

// ResetPassword overwrites the stored hash for the named user. Knowing the
// username is the only gate on this path; no answer verification happens
// here.
func (s *authService) ResetPassword(ctx context.Context, username, newPassword, ip, userAgent string) error {
	if len(newPassword) < minPasswordLength {
		return errors.ErrPasswordTooShort
	}

	user, err := s.findByIdentifier(ctx, username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logActivity(ctx, user, model.ActionPasswordReset, "إعادة تعيين كلمة المرور", ip, userAgent)
	return nil
}

// FindByID loads a user by its UUID string, for the /me endpoint.
func (s *authService) FindByID(ctx context.Context, id string) (*model.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.ErrUserNotFound
	}
	user, err := s.userRepo.FindByID(ctx, uid)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// findByIdentifier resolves a username first, then falls back to email.
// Matching is exact and case-sensitive.
func (s *authService) findByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return s.userRepo.FindByEmail(ctx, identifier)
}

func (s *authService) checkUnique(ctx context.Context, username, email string) error {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return errors.ErrUsernameTaken
	} else if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check username: %w", err)
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return errors.ErrEmailTaken
	} else if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check email: %w", err)
	}
	return nil
}

// logActivity appends to the audit trail best-effort; a logging failure
// never blocks the authentication path.
func (s *authService) logActivity(ctx context.Context, user *model.User, action, description, ip, userAgent string) {
	_ = s.activityRepo.Create(ctx, &model.ActivityLog{
		UserID:      user.ID,
		Action:      action,
		Description: description,
		IP:          ip,
		UserAgent:   userAgent,
	})
}
