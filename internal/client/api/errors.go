package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/iudanet/freelancehub/pkg/api"
)

// Ошибки сессионного клиента
var (
	// ErrNoRefreshToken - refresh token не сохранен, запрос на /refresh не отправлялся
	ErrNoRefreshToken = errors.New("no refresh token")
	// ErrMalformedTokens - ответ /refresh или /login без access token
	ErrMalformedTokens = errors.New("malformed token response")
	// ErrSessionExpired - access token истек и обновить его не удалось
	ErrSessionExpired = errors.New("session expired")
	// ErrUnauthorized - сервер отклонил сессию, нужен повторный вход
	ErrUnauthorized = errors.New("unauthorized")
	// ErrBanned - аккаунт заблокирован
	ErrBanned = errors.New("account is banned")
	// ErrForbidden - недостаточно прав
	ErrForbidden = errors.New("access denied")
)

// APIError is a non-2xx response from the marketplace API.
type APIError struct {
	Kind          api.ErrorKind
	Message       string
	RequestID     string
	MissingFields []string
	Status        int
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Kind != "" {
		return fmt.Sprintf("server error (%d, %s): %s", e.Status, e.Kind, msg)
	}
	return fmt.Sprintf("server error (%d): %s", e.Status, msg)
}

// IsKind reports whether err carries an *APIError of the given kind.
func IsKind(err error, kind api.ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// decodeAPIError разбирает тело ошибки. Если сервер не прислал kind,
// он восстанавливается по тексту сообщения.
func decodeAPIError(status int, body []byte, requestID string) *APIError {
	apiErr := &APIError{Status: status, RequestID: requestID}

	var payload api.ErrorResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
	} else {
		apiErr.Message = payload.Error
		apiErr.Kind = payload.Kind
		apiErr.MissingFields = payload.MissingFields
	}

	if apiErr.Kind == "" {
		apiErr.Kind = kindFromMessage(status, apiErr.Message)
	}
	return apiErr
}

// kindFromMessage - совместимость с серверами без поля kind
func kindFromMessage(status int, message string) api.ErrorKind {
	msg := strings.ToLower(message)

	switch status {
	case http.StatusUnauthorized:
		switch {
		case strings.Contains(msg, "missing access token"):
			return api.KindUnauthenticated
		case strings.Contains(msg, "access token"):
			return api.KindTokenExpired
		default:
			return api.KindUnauthenticated
		}
	case http.StatusForbidden:
		if strings.Contains(msg, "banned") {
			return api.KindBanned
		}
		return api.KindForbidden
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return api.KindValidation
	}
	return ""
}
