package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"campus-quiz-service/internal/domain"
)

// errorEnvelope is the error shape clients of the original API parse.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

func newErrorEnvelope(status int, message, field string) errorEnvelope {
	return errorEnvelope{Error: errorBody{Status: status, Message: message, Field: field}}
}

// errorHandler folds every error reaching echo into the taxonomy: validation
// and not-found map to 400 (the reference used 400, not 404, for missing
// resources), conflicts to 409, credential failures to 401, everything else
// to a generic 500 with the cause logged, never leaked.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		verr *domain.ValidationError
		nerr *domain.NotFoundError
		cerr *domain.ConflictError
		herr *echo.HTTPError
	)

	var env errorEnvelope
	switch {
	case errors.As(err, &verr):
		env = newErrorEnvelope(http.StatusBadRequest, verr.Message, verr.Field)
	case errors.As(err, &nerr):
		env = newErrorEnvelope(http.StatusBadRequest, nerr.Error(), nerr.Resource)
	case errors.As(err, &cerr):
		env = newErrorEnvelope(http.StatusConflict, cerr.Message, cerr.Field)
	case errors.Is(err, domain.ErrMissingCredential),
		errors.Is(err, domain.ErrMalformedCredential),
		errors.Is(err, domain.ErrInvalidCredential):
		env = newErrorEnvelope(http.StatusUnauthorized, err.Error(), "USER_KEY")
	case errors.As(err, &herr):
		msg := http.StatusText(herr.Code)
		if s, ok := herr.Message.(string); ok {
			msg = s
		}
		env = newErrorEnvelope(herr.Code, msg, "")
	default:
		log.Printf("internal error: %v", err)
		env = newErrorEnvelope(http.StatusInternalServerError, "Internal Server Error", "")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(env.Error.Status)
		return
	}
	if err := c.JSON(env.Error.Status, env); err != nil {
		log.Printf("write error response: %v", err)
	}
}
