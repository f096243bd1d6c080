// Package handler exposes the teacher and student operations over HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/duccv/student-service/internal/apperror"
	"github.com/duccv/student-service/internal/constant"
	"github.com/duccv/student-service/internal/middleware"
	"github.com/duccv/student-service/internal/model/response"
	"github.com/duccv/student-service/internal/service"
	"github.com/duccv/student-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the teacher and student routes.
type Handler struct {
	auth             *service.AuthService
	students         *service.StudentService
	tokens           middleware.TokenVerifier
	validationStatus int
}

// New builds a Handler. validationStatus is the status returned when a
// student record fails field validation.
func New(
	auth *service.AuthService,
	students *service.StudentService,
	tokens middleware.TokenVerifier,
	validationStatus int,
) *Handler {
	if validationStatus == 0 {
		validationStatus = http.StatusUnauthorized
	}
	return &Handler{
		auth:             auth,
		students:         students,
		tokens:           tokens,
		validationStatus: validationStatus,
	}
}

// notFound is the status and body used when a lookup misses on a given route.
type notFound struct {
	status int
	body   response.ResponseData
}

var (
	teacherNotFound = notFound{http.StatusUnauthorized, constant.TEACHER_NOT_FOUND}
	studentNotFound = notFound{http.StatusNotFound, constant.STUDENT_NOT_FOUND}
)

// writeError translates a service error into the response for this route.
func (h *Handler) writeError(c *gin.Context, err error, nf notFound, conflict response.ResponseData) {
	if ve, ok := apperror.AsValidation(err); ok {
		body := constant.INVALID_INPUT
		body.Errors = ve.Errors
		c.AbortWithStatusJSON(h.validationStatus, body)
		return
	}

	switch {
	case errors.Is(err, apperror.ErrNotFound):
		c.AbortWithStatusJSON(nf.status, nf.body)
	case errors.Is(err, apperror.ErrWrongPassword):
		c.AbortWithStatusJSON(http.StatusUnauthorized, constant.WRONG_PASSWORD)
	case errors.Is(err, apperror.ErrInvalidToken):
		c.AbortWithStatusJSON(http.StatusUnauthorized, constant.INVALID_TOKEN)
	case errors.Is(err, apperror.ErrConflict):
		c.AbortWithStatusJSON(http.StatusConflict, conflict)
	default:
		logger.WithUser(logger.FromContext(c.Request.Context()), middleware.Username(c)).
			Error("Unexpected error",
				zap.String("path", c.FullPath()),
				zap.Error(err))
		c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, constant.INTERNAL_SERVER_ERROR)
	}
}

// Ping godoc
//
//	@Summary	Liveness probe
//	@Tags		Health
//	@Produce	plain
//	@Success	200	{string}	string	"pong"
//	@Router		/ping [get]
func (h *Handler) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong\n")
}
