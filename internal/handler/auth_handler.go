package handler

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"fms/internal/auth"
	"fms/internal/errors"
	"fms/internal/model"
	"fms/internal/service"
)

// AuthHandler handles authentication and account recovery endpoints.
type AuthHandler struct {
	authService    service.AuthService
	captchaService service.CaptchaService
	staticCaptcha  *service.StaticCaptchaValidator
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(
	authService service.AuthService,
	captchaService service.CaptchaService,
	staticCaptcha *service.StaticCaptchaValidator,
) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		captchaService: captchaService,
		staticCaptcha:  staticCaptcha,
	}
}

// SecurityQuestionInput is one question/answer pair in the install payload.
type SecurityQuestionInput struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// InstallRequest represents the first-admin installation request.
type InstallRequest struct {
	Username          string                  `json:"username" validate:"required,min=3,max=100"`
	Email             string                  `json:"email" validate:"required,email"`
	Password          string                  `json:"password" validate:"required,min=8"`
	Name              string                  `json:"name" validate:"required"`
	SecurityQuestions []SecurityQuestionInput `json:"securityQuestions" validate:"required,len=5,dive"`
}

// LoginRequest represents a login request. Captcha is the static literal.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Captcha  string `json:"captcha" validate:"required"`
}

// ForgotUsernameRequest starts recovery with the static captcha.
type ForgotUsernameRequest struct {
	Username string `json:"username" validate:"required"`
	Captcha  string `json:"captcha" validate:"required"`
}

// ForgotAnswersRequest submits recovery answers (3-of-5 policy).
type ForgotAnswersRequest struct {
	Username        string   `json:"username" validate:"required"`
	SecurityAnswers []string `json:"securityAnswers" validate:"required"`
}

// VerifyAnswersRequest submits answers for the stricter 4-of-5 policy.
type VerifyAnswersRequest struct {
	Username string   `json:"username" validate:"required"`
	Answers  []string `json:"answers" validate:"required,len=5"`
}

// ResetPasswordRequest overwrites a user's password by username.
type ResetPasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// UserQuestionsRequest fetches question texts gated by the real captcha.
type UserQuestionsRequest struct {
	Username      string `json:"username" validate:"required"`
	CaptchaToken  string `json:"captchaToken" validate:"required"`
	CaptchaAnswer string `json:"captchaAnswer" validate:"required"`
}

// AuthResponse carries a token and its user.
type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// CaptchaResponse describes a fresh captcha session.
type CaptchaResponse struct {
	SessionID string    `json:"sessionId"`
	Question  string    `json:"question"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AnswersResponse reports a recovery scoring result.
type AnswersResponse struct {
	Success         bool `json:"success"`
	CorrectAnswers  int  `json:"correctAnswers"`
	RequiredAnswers int  `json:"requiredAnswers"`
}

// AdminExists godoc
// @Summary Report whether a system admin is installed
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /auth/admin-exists [get]
func (h *AuthHandler) AdminExists(c echo.Context) error {
	exists, err := h.authService.AdminExists(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"exists": exists})
}

// Captcha godoc
// @Summary Create an arithmetic captcha session
// @Tags auth
// @Produce json
// @Success 200 {object} CaptchaResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/captcha [get]
func (h *AuthHandler) Captcha(c echo.Context) error {
	session, err := h.captchaService.Create(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, CaptchaResponse{
		SessionID: session.SessionID,
		Question:  session.Question,
		ExpiresAt: session.ExpiresAt,
	})
}

// Login godoc
// @Summary Authenticate and receive a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	if err := h.staticCaptcha.Validate(req.Captcha); err != nil {
		return domainError(err)
	}

	token, user, err := h.authService.Login(
		c.Request().Context(), req.Username, req.Password, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// Install godoc
// @Summary Install the first system admin
// @Tags auth
// @Accept json
// @Produce json
// @Param request body InstallRequest true "Installation data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /auth/install [post]
func (h *AuthHandler) Install(c echo.Context) error {
	var req InstallRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	questions := make([]service.QuestionInput, 0, len(req.SecurityQuestions))
	for _, q := range req.SecurityQuestions {
		questions = append(questions, service.QuestionInput{Question: q.Question, Answer: q.Answer})
	}

	token, user, err := h.authService.Install(c.Request().Context(), service.InstallInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		Questions: questions,
	}, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, AuthResponse{Token: token, User: user})
}

// ForgotPasswordUsername godoc
// @Summary Look up a user's security questions (static captcha)
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotUsernameRequest true "Username and captcha"
// @Success 200 {object} map[string][]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/forgot-password/username [post]
func (h *AuthHandler) ForgotPasswordUsername(c echo.Context) error {
	var req ForgotUsernameRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	if err := h.staticCaptcha.Validate(req.Captcha); err != nil {
		return domainError(err)
	}

	questions, err := h.authService.QuestionsForUser(c.Request().Context(), req.Username)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"securityQuestions": questions})
}

// ForgotPasswordAnswers godoc
// @Summary Score recovery answers against the 3-of-5 policy
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotAnswersRequest true "Username and ordered answers"
// @Success 200 {object} AnswersResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/forgot-password/security-questions [post]
func (h *AuthHandler) ForgotPasswordAnswers(c echo.Context) error {
	var req ForgotAnswersRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}
	return h.scoreAnswers(c, req.Username, req.SecurityAnswers, service.RecoveryThreshold)
}

// VerifyAnswers godoc
// @Summary Score recovery answers against the 4-of-5 policy
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyAnswersRequest true "Username and five ordered answers"
// @Success 200 {object} AnswersResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/verify-answers [post]
func (h *AuthHandler) VerifyAnswers(c echo.Context) error {
	var req VerifyAnswersRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}
	return h.scoreAnswers(c, req.Username, req.Answers, service.StrictThreshold)
}

// ResetPassword godoc
// @Summary Reset a user's password by username
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Username and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	err := h.authService.ResetPassword(
		c.Request().Context(), req.Username, req.NewPassword, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "تم تغيير كلمة المرور بنجاح"})
}

// UserQuestions godoc
// @Summary Look up a user's security questions (session captcha)
// @Tags auth
// @Accept json
// @Produce json
// @Param request body UserQuestionsRequest true "Username and captcha session"
// @Success 200 {object} map[string][]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/user-questions [post]
func (h *AuthHandler) UserQuestions(c echo.Context) error {
	var req UserQuestionsRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	if err := h.captchaService.Verify(c.Request().Context(), req.CaptchaToken, req.CaptchaAnswer); err != nil {
		return domainError(err)
	}

	questions, err := h.authService.QuestionsForUser(c.Request().Context(), req.Username)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"securityQuestions": questions})
}

// Me godoc
// @Summary Return the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return domainError(errors.ErrUnauthorized)
	}
	user, err := h.authService.FindByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) scoreAnswers(c echo.Context, username string, answers []string, threshold int) error {
	correct, pass, err := h.authService.VerifyAnswers(c.Request().Context(), username, answers, threshold)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, AnswersResponse{
		Success:         pass,
		CorrectAnswers:  correct,
		RequiredAnswers: threshold,
	})
}

// ClaimsFrom extracts verified JWT claims set by the echo-jwt middleware.
func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, false
	}
	claims, ok := token.Claims.(*auth.Claims)
	return claims, ok
}
