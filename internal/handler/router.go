package handler

import (
	"github.com/duccv/student-service/internal/middleware"
	"github.com/duccv/student-service/internal/model/request"
	"github.com/duccv/student-service/internal/validation"
	"github.com/gin-gonic/gin"
)

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	auth := middleware.NewJWTAuthMiddleware(h.tokens).Authenticate()

	r.GET("/ping", h.Ping)

	teacher := r.Group("/teacher")
	{
		teacher.POST("/register", validation.Validate[request.Credentials, any, any](), h.RegisterTeacher)
		teacher.POST("/login", validation.Validate[request.Credentials, any, any](), h.Login)
		teacher.GET("/me", auth, h.Me)
		teacher.POST("/refresh", auth, h.Refresh)
	}

	r.GET("/students", auth, h.ListStudents)

	student := r.Group("/student", auth)
	{
		student.POST("", validation.Validate[request.CreateStudent, any, any](), h.CreateStudent)
		student.GET("/:nim", validation.Validate[any, request.StudentParams, any](), h.GetStudent)
		student.PUT("/:nim",
			validation.Validate[request.UpdateStudent, request.StudentParams, any](), h.UpdateStudent)
		student.DELETE("/:nim", validation.Validate[any, request.StudentParams, any](), h.DeleteStudent)
	}
}
