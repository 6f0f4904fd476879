package httperr

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// debugMode controls whether internal errors expose their cause and a
// stack trace. Set once at startup from the environment; production
// keeps the stable message only.
var debugMode bool

func SetDebug(v bool) {
	debugMode = v
}

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuth
)

// BusinessError is a domain failure carried up from usecases and
// repositories. Handlers hand it to Respond, which maps Kind to an
// HTTP status.
type BusinessError struct {
	Code   string
	Kind   Kind
	Fields []string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrValidation(fields ...string) error {
	return BusinessError{Code: "missing_required_fields", Kind: KindValidation, Fields: fields}
}

func ErrNotFound(code string) error {
	return BusinessError{Code: code, Kind: KindNotFound}
}

func ErrConflict(code string) error {
	return BusinessError{Code: code, Kind: KindConflict}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

func statusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as a JSON error response. Business errors keep
// their code and status class; anything else becomes a 500 that only
// exposes its cause and stack outside production.
func Respond(c *gin.Context, err error, messages map[string]string) {
	var be BusinessError
	if errors.As(err, &be) {
		msg := messages[be.Code]
		if msg == "" {
			msg = be.Code
		}
		c.JSON(statusFor(be.Kind), HTTPError{
			Code:          be.Code,
			Message:       msg,
			MissingFields: be.Fields,
		})
		return
	}

	resp := HTTPError{
		Code:    "internal_error",
		Message: "Something went wrong.",
	}
	if debugMode {
		resp.Message = err.Error()
		resp.Stack = string(debug.Stack())
	}
	c.JSON(http.StatusInternalServerError, resp)
}
