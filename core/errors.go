package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorTimeout              = "EASYJOB_TIMEOUT"
	ErrorNetworkUnreachable   = "EASYJOB_NETWORK_UNREACHABLE"
	ErrorRequestCanceled      = "EASYJOB_REQUEST_CANCELED"
	ErrorHTTP                 = "EASYJOB_HTTP_ERROR"
	ErrorAuthenticationFailed = "EASYJOB_AUTHENTICATION_FAILED"
	ErrorLoginFailed          = "EASYJOB_LOGIN_FAILED"
	ErrorRefreshFailed        = "EASYJOB_REFRESH_FAILED"
	ErrorNoRefreshToken       = "EASYJOB_NO_REFRESH_TOKEN"
	ErrorBadInput             = "EASYJOB_BAD_INPUT"
	ErrorDecodeFailed         = "EASYJOB_DECODE_FAILED"
	ErrorResponseTooLarge     = "EASYJOB_RESPONSE_TOO_LARGE"
	ErrorInternal             = "EASYJOB_INTERNAL_ERROR"
)

// StatusClientClosedRequest is reported when the caller canceled the request.
const StatusClientClosedRequest = 499

var (
	ErrNoRefreshToken = errors.New("core: no refresh token available")
	ErrRefreshFailed  = errors.New("core: token refresh failed")
	ErrLoginFailed    = errors.New("core: login failed")
	ErrAuthFailed     = errors.New("core: authentication failed")
)

// HTTPError carries a non-2xx response. It is the source of the rich error
// returned by Request, so errors.As reaches it through the envelope.
type HTTPError struct {
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error"
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

func newHTTPError(method string, path string, status int, body []byte) error {
	source := &HTTPError{Status: status, Body: append([]byte(nil), body...)}
	category := categoryForStatus(status)
	err := goerrors.Wrap(source, category, source.Error()).
		WithCode(status).
		WithTextCode(ErrorHTTP)
	err.WithMetadata(map[string]any{
		"method":      method,
		"path":        path,
		"status_code": status,
	})
	return err
}

func newAuthenticationFailed(source error, metadata map[string]any) error {
	if source == nil {
		source = ErrAuthFailed
	}
	err := wrapCause(source, goerrors.CategoryAuth, "Authentication failed").
		WithCode(http.StatusUnauthorized).
		WithTextCode(ErrorAuthenticationFailed)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func newAuthError(source error, textCode string, code int, message string) error {
	return wrapCause(source, goerrors.CategoryAuth, message).
		WithCode(code).
		WithTextCode(textCode)
}

// wrapCause keeps source, and every code and sentinel under it, behind
// Unwrap. goerrors.Wrap collapses onto a rich error found in source.
func wrapCause(source error, category goerrors.Category, message string) *goerrors.Error {
	err := goerrors.New(message, category)
	err.Source = source
	return err
}

func badInputError(message string) error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorBadInput)
}

func decodeError(source error, message string) error {
	if source == nil {
		return goerrors.New(message, goerrors.CategoryExternal).
			WithCode(http.StatusBadGateway).
			WithTextCode(ErrorDecodeFailed)
	}
	return wrapCause(source, goerrors.CategoryExternal, message).
		WithCode(http.StatusBadGateway).
		WithTextCode(ErrorDecodeFailed)
}

func internalError(source error, message string) error {
	if source == nil {
		return goerrors.New(message, goerrors.CategoryInternal).
			WithCode(http.StatusInternalServerError).
			WithTextCode(ErrorInternal)
	}
	return wrapCause(source, goerrors.CategoryInternal, message).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ErrorInternal)
}

// NewTimeoutError reports a request that received no response within its
// time bound.
func NewTimeoutError(source error) error {
	return wrapCause(orDefault(source, context.DeadlineExceeded), goerrors.CategoryExternal,
		"Request timeout: server is taking too long to respond").
		WithCode(http.StatusGatewayTimeout).
		WithTextCode(ErrorTimeout)
}

// NewNetworkUnreachableError reports a request that could not reach the server.
func NewNetworkUnreachableError(source error) error {
	return wrapCause(orDefault(source, errNetwork), goerrors.CategoryExternal,
		"Network error: unable to connect to server").
		WithCode(http.StatusServiceUnavailable).
		WithTextCode(ErrorNetworkUnreachable)
}

// NewCanceledError reports a request abandoned because the caller canceled it.
func NewCanceledError(source error) error {
	return wrapCause(orDefault(source, context.Canceled), goerrors.CategoryOperation,
		"Request canceled").
		WithCode(StatusClientClosedRequest).
		WithTextCode(ErrorRequestCanceled)
}

var errNetwork = errors.New("core: network unreachable")

func orDefault(err error, fallback error) error {
	if err == nil {
		return fallback
	}
	return err
}

// classifyTransportError keeps errors a transport already tagged with a text
// code and sorts the rest into timeout, canceled, or unreachable.
func classifyTransportError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if textCodeOf(err) != "" {
		return err
	}
	if errors.Is(err, context.Canceled) || (ctx != nil && errors.Is(ctx.Err(), context.Canceled)) {
		return NewCanceledError(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(err)
	}
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return NewTimeoutError(err)
	}
	return NewNetworkUnreachableError(err)
}

func categoryForStatus(status int) goerrors.Category {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return goerrors.CategoryValidation
	case status == http.StatusUnauthorized:
		return goerrors.CategoryAuth
	case status == http.StatusForbidden:
		return goerrors.CategoryAuthz
	case status == http.StatusNotFound:
		return goerrors.CategoryNotFound
	case status == http.StatusConflict:
		return goerrors.CategoryConflict
	case status == http.StatusTooManyRequests:
		return goerrors.CategoryRateLimit
	case status >= 500:
		return goerrors.CategoryExternal
	default:
		return goerrors.CategoryBadInput
	}
}

func textCodeOf(err error) string {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return strings.TrimSpace(richErr.TextCode)
	}
	return ""
}

// hasTextCode walks the whole chain, including joined errors, so taxonomy
// codes are still found underneath an AuthenticationFailed envelope.
func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	if richErr, ok := err.(*goerrors.Error); ok && strings.TrimSpace(richErr.TextCode) == code {
		return true
	}
	switch wrapped := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range wrapped.Unwrap() {
			if hasTextCode(inner, code) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return hasTextCode(wrapped.Unwrap(), code)
	}
	return false
}

func IsTimeout(err error) bool {
	return textCodeOf(err) == ErrorTimeout
}

func IsNetworkUnreachable(err error) bool {
	return textCodeOf(err) == ErrorNetworkUnreachable
}

func IsCanceled(err error) bool {
	return textCodeOf(err) == ErrorRequestCanceled
}

func IsAuthenticationFailed(err error) bool {
	return textCodeOf(err) == ErrorAuthenticationFailed
}

// IsTransient reports failures worth retrying later: timeouts and
// connectivity problems, including ones hidden under an auth failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return hasTextCode(err, ErrorTimeout) || hasTextCode(err, ErrorNetworkUnreachable)
}

// HTTPStatus returns the response status carried by err, or 0.
func HTTPStatus(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		return httpErr.Status
	}
	return 0
}

func IsNotFound(err error) bool {
	return HTTPStatus(err) == http.StatusNotFound
}

// FieldErrors decodes a validation body such as {"email": ["already taken"]}
// into field messages. Non-field keys like "detail" are returned as well.
func FieldErrors(err error) map[string][]string {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr == nil || len(httpErr.Body) == 0 {
		return nil
	}
	var raw map[string]json.RawMessage
	if json.Unmarshal(httpErr.Body, &raw) != nil {
		return nil
	}
	out := make(map[string][]string, len(raw))
	for field, value := range raw {
		var many []string
		if json.Unmarshal(value, &many) == nil {
			out[field] = many
			continue
		}
		var one string
		if json.Unmarshal(value, &one) == nil {
			out[field] = []string{one}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ErrorDetail picks the most useful human message from a response body,
// preferring "detail", then "message", then the first field error.
func ErrorDetail(err error) string {
	fields := FieldErrors(err)
	for _, key := range []string{"detail", "message"} {
		if values := fields[key]; len(values) > 0 {
			return values[0]
		}
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values := fields[key]; len(values) > 0 {
			return key + ": " + values[0]
		}
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
