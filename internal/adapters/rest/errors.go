package rest

import (
	"ReferralHub/internal/core/domain"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validator report fields by their JSON names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON decodes the body into dst and writes a 400 on failure.
func (s *Server) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		s.writeError(c, bindingError(err))
		return false
	}
	return true
}

// bindingError converts gin/validator failures into the domain's
// ValidationError so every 400 has the same shape.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := &domain.ValidationError{}
		for _, fe := range verrs {
			out.Add(fieldPath(fe.Namespace()), fieldMessage(fe))
		}
		return out
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, errAmountNotNumber):
		return domain.NewValidationError("amount", "Must be a number")
	case errors.As(err, &typeErr):
		return domain.NewValidationError(typeErr.Field, "Invalid value")
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return domain.NewValidationError("body", "Malformed JSON body")
	}
	return domain.NewValidationError("body", "Invalid request body")
}

// fieldPath drops the top-level struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "uuid":
		return "Must be a valid ID"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "max":
		return fmt.Sprintf("Cannot exceed %s characters", fe.Param())
	}
	return "Invalid value"
}

// writeError maps domain errors onto HTTP statuses. Anything unrecognised
// is logged and reported as a generic 500.
func (s *Server) writeError(c *gin.Context, err error) {
	var (
		verr         *domain.ValidationError
		insufficient *domain.InsufficientBalanceError
	)

	switch {
	case errors.As(err, &verr):
		resp := errorResponse{Message: "Validation failed"}
		for _, f := range verr.Fields {
			resp.Errors = append(resp.Errors, fieldErrorResponse{Field: f.Field, Message: f.Message})
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, resp)
	case errors.As(err, &insufficient):
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Message: insufficient.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: "Authentication required"})
	case errors.Is(err, domain.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{Message: "Access denied. Admin only."})
	case errors.Is(err, domain.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Message: "Resource not found"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.AbortWithStatusJSON(http.StatusConflict, errorResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		c.AbortWithStatusJSON(http.StatusConflict, errorResponse{Message: "Resource already exists"})
	default:
		s.log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Message: "Server error"})
	}
}
