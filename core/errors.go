package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	CredentialsErrorBadInput              = "CREDENTIALS_BAD_INPUT"
	CredentialsErrorSourceNotFound        = "CREDENTIALS_SOURCE_NOT_FOUND"
	CredentialsErrorMaterializationFailed = "CREDENTIALS_MATERIALIZATION_FAILED"
	CredentialsErrorInternal              = "CREDENTIALS_INTERNAL_ERROR"
)

// credentialsErrorMapper produces the envelope used by the service surface
// (construction, validation, query handlers). Resolution-path materialization
// errors are deliberately NOT mapped or wrapped; spec'd behavior is to
// surface the source's error as-is.
func credentialsErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureCredentialsErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "source") && (strings.Contains(msg, "not registered") || strings.Contains(msg, "not found")):
		return newCredentialsError(err.Error(), goerrors.CategoryNotFound, CredentialsErrorSourceNotFound)
	case strings.Contains(msg, "materialize"), strings.Contains(msg, "refresh"):
		return newCredentialsError(err.Error(), goerrors.CategoryOperation, CredentialsErrorMaterializationFailed)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "unknown access mode"):
		return newCredentialsError(err.Error(), goerrors.CategoryBadInput, CredentialsErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureCredentialsErrorEnvelope(mapped)
}

func newCredentialsError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureCredentialsErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureCredentialsErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = credentialsHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultCredentialsTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultCredentialsTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return CredentialsErrorBadInput
	case goerrors.CategoryNotFound:
		return CredentialsErrorSourceNotFound
	case goerrors.CategoryOperation:
		return CredentialsErrorMaterializationFailed
	default:
		return CredentialsErrorInternal
	}
}

func credentialsHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
