package errors

import (
	"errors"
	"net/http"
)

// Domain errors. The Arabic messages are part of the API contract and are
// returned verbatim to clients.
var (
	// ErrUnauthorized is returned when a request carries no valid token.
	ErrUnauthorized = errors.New("غير مصرح بالوصول")
	// ErrForbidden is returned when the caller's role is insufficient.
	ErrForbidden = errors.New("لا تملك الصلاحية الكافية")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("اسم المستخدم أو كلمة المرور غير صحيحة")
	// ErrUserInactive is returned when the account is disabled.
	ErrUserInactive = errors.New("الحساب غير مفعل")
	// ErrUserNotFound is returned when no user matches the given identifier.
	ErrUserNotFound = errors.New("المستخدم غير موجود")
	// ErrAdminExists is returned when the install flow runs a second time.
	ErrAdminExists = errors.New("يوجد مدير نظام بالفعل")
	// ErrUsernameTaken is returned on duplicate username.
	ErrUsernameTaken = errors.New("اسم المستخدم مستخدم بالفعل")
	// ErrEmailTaken is returned on duplicate email.
	ErrEmailTaken = errors.New("البريد الإلكتروني مستخدم بالفعل")
	// ErrCaptchaInvalid is returned when a captcha session is missing, used or expired.
	ErrCaptchaInvalid = errors.New("جلسة التحقق غير صالحة أو منتهية")
	// ErrCaptchaMismatch is returned when the captcha answer is wrong.
	ErrCaptchaMismatch = errors.New("إجابة رمز التحقق غير صحيحة")
	// ErrPasswordTooShort is returned when a new password is under 8 characters.
	ErrPasswordTooShort = errors.New("كلمة المرور يجب أن تكون 8 أحرف على الأقل")
	// ErrQuestionsRequired is returned when the install payload does not carry 5 questions.
	ErrQuestionsRequired = errors.New("يجب توفير 5 أسئلة أمان")
	// ErrEntityNotFound is returned when an entity is not found.
	ErrEntityNotFound = errors.New("الجهة غير موجودة")
	// ErrRevenueNotFound is returned when a revenue category is not found.
	ErrRevenueNotFound = errors.New("بند الإيراد غير موجود")
	// ErrRecordNotFound is returned when a business record is not found.
	ErrRecordNotFound = errors.New("السجل غير موجود")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrUnauthorized:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	case ErrForbidden:
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case ErrInvalidCredentials:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case ErrUserInactive:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "USER_INACTIVE")
	case ErrUserNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case ErrAdminExists:
		return NewHTTPError(http.StatusForbidden, err.Error(), "ADMIN_EXISTS")
	case ErrUsernameTaken:
		return NewHTTPError(http.StatusConflict, err.Error(), "USERNAME_TAKEN")
	case ErrEmailTaken:
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case ErrCaptchaInvalid:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CAPTCHA_INVALID")
	case ErrCaptchaMismatch:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CAPTCHA_MISMATCH")
	case ErrPasswordTooShort:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PASSWORD_TOO_SHORT")
	case ErrQuestionsRequired:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "QUESTIONS_REQUIRED")
	case ErrEntityNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "ENTITY_NOT_FOUND")
	case ErrRevenueNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "REVENUE_NOT_FOUND")
	case ErrRecordNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "RECORD_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "خطأ داخلي في الخادم", "INTERNAL_ERROR")
	}
}
