package api

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // client | freelancer
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest представляет запрос на обновление пары токенов
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse представляет ответ с токенами доступа
type TokenResponse struct {
	AccessToken  string `json:"access_token"`  // JWT access token
	RefreshToken string `json:"refresh_token"` // refresh token
}

// AuthResponse is returned by GET /user/auth.
type AuthResponse struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	ID    int    `json:"id"`
}

// MessageResponse представляет ответ с текстовым сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorKind is the structured discriminator of an error body.
// Servers that predate it only send the message; clients then fall back to
// matching the message text.
type ErrorKind string

const (
	KindTokenExpired    ErrorKind = "token_expired"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindBanned          ErrorKind = "banned"
	KindForbidden       ErrorKind = "forbidden"
	KindValidation      ErrorKind = "validation"
	KindRateLimited     ErrorKind = "rate_limited"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error         string    `json:"error"`                    // описание ошибки
	Kind          ErrorKind `json:"kind,omitempty"`           // тип ошибки
	MissingFields []string  `json:"missing_fields,omitempty"` // незаполненные поля формы
}
