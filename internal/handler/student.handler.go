package handler

import (
	"net/http"

	"github.com/duccv/student-service/internal/constant"
	"github.com/duccv/student-service/internal/model/request"
	"github.com/duccv/student-service/internal/validation"
	"github.com/duccv/student-service/util"
	"github.com/gin-gonic/gin"
)

// ListStudents godoc
//
//	@Summary		List students
//	@Description	Returns every student ordered by nim. Honours If-None-Match.
//	@Tags			Student
//	@Produce		json
//	@Security		BearerAuth
//	@Param			If-None-Match	header		string	false	"ETag of a previous response"
//	@Success		200				{array}		model.Student
//	@Success		304
//	@Failure		401				{object}	response.ResponseData
//	@Router			/students [get]
func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err, studentNotFound, constant.STUDENT_EXISTS)
		return
	}

	etag := util.GenerateETag(students)
	c.Header("ETag", etag)
	if util.MatchETag(c.GetHeader("If-None-Match"), etag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, students)
}

// CreateStudent godoc
//
//	@Summary	Create a student
//	@Tags		Student
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		request.CreateStudent	true	"Student"
//	@Success	200		{object}	model.Student
//	@Failure	400		{object}	response.ResponseData
//	@Failure	401		{object}	response.ResponseData	"Invalid token, or invalid input with field errors"
//	@Failure	409		{object}	response.ResponseData
//	@Router		/student [post]
func (h *Handler) CreateStudent(c *gin.Context) {
	body := validation.Body[request.CreateStudent](c)

	student, err := h.students.Create(c.Request.Context(), body.ToModel())
	if err != nil {
		h.writeError(c, err, studentNotFound, constant.STUDENT_EXISTS)
		return
	}
	c.JSON(http.StatusOK, student)
}

// GetStudent godoc
//
//	@Summary	Get a student
//	@Tags		Student
//	@Produce	json
//	@Security	BearerAuth
//	@Param		nim	path		string	true	"Student NIM"
//	@Success	200	{object}	model.Student
//	@Failure	401	{object}	response.ResponseData
//	@Failure	404	{object}	response.ResponseData
//	@Router		/student/{nim} [get]
func (h *Handler) GetStudent(c *gin.Context) {
	params := validation.Params[request.StudentParams](c)

	student, err := h.students.Get(c.Request.Context(), params.Nim)
	if err != nil {
		h.writeError(c, err, studentNotFound, constant.STUDENT_EXISTS)
		return
	}
	c.JSON(http.StatusOK, student)
}

// UpdateStudent godoc
//
//	@Summary		Update a student
//	@Description	Replaces every field except nim.
//	@Tags			Student
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			nim		path		string					true	"Student NIM"
//	@Param			body	body		request.UpdateStudent	true	"Student fields"
//	@Success		200		{object}	model.Student
//	@Failure		400		{object}	response.ResponseData
//	@Failure		401		{object}	response.ResponseData
//	@Failure		404		{object}	response.ResponseData
//	@Router			/student/{nim} [put]
func (h *Handler) UpdateStudent(c *gin.Context) {
	params := validation.Params[request.StudentParams](c)
	body := validation.Body[request.UpdateStudent](c)

	student, err := h.students.Update(c.Request.Context(), params.Nim, body.ToModel())
	if err != nil {
		h.writeError(c, err, studentNotFound, constant.STUDENT_EXISTS)
		return
	}
	c.JSON(http.StatusOK, student)
}

// DeleteStudent godoc
//
//	@Summary	Delete a student
//	@Tags		Student
//	@Produce	json
//	@Security	BearerAuth
//	@Param		nim	path		string	true	"Student NIM"
//	@Success	200	{object}	model.Student	"The deleted record"
//	@Failure	401	{object}	response.ResponseData
//	@Failure	404	{object}	response.ResponseData
//	@Router		/student/{nim} [delete]
func (h *Handler) DeleteStudent(c *gin.Context) {
	params := validation.Params[request.StudentParams](c)

	student, err := h.students.Delete(c.Request.Context(), params.Nim)
	if err != nil {
		h.writeError(c, err, studentNotFound, constant.STUDENT_EXISTS)
		return
	}
	c.JSON(http.StatusOK, student)
}
