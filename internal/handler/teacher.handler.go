package handler

import (
	"net/http"

	"github.com/duccv/student-service/internal/constant"
	"github.com/duccv/student-service/internal/middleware"
	"github.com/duccv/student-service/internal/model/request"
	"github.com/duccv/student-service/internal/model/response"
	"github.com/duccv/student-service/internal/validation"
	"github.com/gin-gonic/gin"
)

// RegisterTeacher godoc
//
//	@Summary		Register a teacher
//	@Description	Creates the account and logs it in.
//	@Tags			Teacher
//	@Accept			json
//	@Produce		json
//	@Param			body	body		request.Credentials	true	"Credentials"
//	@Success		200		{object}	response.TeacherTokenResponse
//	@Failure		400		{object}	response.ResponseData
//	@Failure		409		{object}	response.ResponseData
//	@Router			/teacher/register [post]
func (h *Handler) RegisterTeacher(c *gin.Context) {
	body := validation.Body[request.Credentials](c)

	session, err := h.auth.Register(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		h.writeError(c, err, teacherNotFound, constant.TEACHER_EXISTS)
		return
	}
	c.JSON(http.StatusOK, response.TeacherTokenResponse{
		JWT:     session.Token,
		Teacher: session.Teacher.View(),
	})
}

// Login godoc
//
//	@Summary	Log a teacher in
//	@Tags		Teacher
//	@Accept		json
//	@Produce	json
//	@Param		body	body		request.Credentials	true	"Credentials"
//	@Success	200		{object}	response.TokenResponse
//	@Failure	400		{object}	response.ResponseData
//	@Failure	401		{object}	response.ResponseData
//	@Router		/teacher/login [post]
func (h *Handler) Login(c *gin.Context) {
	body := validation.Body[request.Credentials](c)

	session, err := h.auth.Login(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		h.writeError(c, err, teacherNotFound, constant.TEACHER_EXISTS)
		return
	}
	c.JSON(http.StatusOK, response.TokenResponse{JWT: session.Token})
}

// Me godoc
//
//	@Summary	Current teacher
//	@Tags		Teacher
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	response.TeacherResponse
//	@Failure	401	{object}	response.ResponseData
//	@Router		/teacher/me [get]
func (h *Handler) Me(c *gin.Context) {
	teacher, err := h.auth.Me(c.Request.Context(), middleware.Username(c))
	if err != nil {
		h.writeError(c, err, teacherNotFound, constant.TEACHER_EXISTS)
		return
	}
	c.JSON(http.StatusOK, response.TeacherResponse{Teacher: teacher.View()})
}

// Refresh godoc
//
//	@Summary		Renew a token
//	@Description	Issues a new one-hour token for the bearer. The presented token is not revoked.
//	@Tags			Teacher
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.TeacherTokenResponse
//	@Failure		401	{object}	response.ResponseData
//	@Router			/teacher/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	session, err := h.auth.Refresh(c.Request.Context(), middleware.BearerToken(c))
	if err != nil {
		h.writeError(c, err, teacherNotFound, constant.TEACHER_EXISTS)
		return
	}
	c.JSON(http.StatusOK, response.TeacherTokenResponse{
		JWT:     session.Token,
		Teacher: session.Teacher.View(),
	})
}
