package constant

import (
	"github.com/duccv/student-service/internal/model/response"
)

var INVALID_REQUEST = response.ResponseData{
	Message: "Invalid request payload",
}

var UNAUTHORIZED = response.ResponseData{
	Message: "Unauthorized",
}

var INVALID_TOKEN = response.ResponseData{
	Message: "Invalid token",
}

var TEACHER_NOT_FOUND = response.ResponseData{
	Message: "Teacher not found",
}

var WRONG_PASSWORD = response.ResponseData{
	Message: "Wrong password",
}

var STUDENT_NOT_FOUND = response.ResponseData{
	Message: "Student not found",
}

var TEACHER_EXISTS = response.ResponseData{
	Message: "Teacher already exists",
}

var STUDENT_EXISTS = response.ResponseData{
	Message: "Student already exists",
}

var INVALID_INPUT = response.ResponseData{
	Message: "Invalid input",
}

var INTERNAL_SERVER_ERROR = response.ResponseData{
	Message: "Internal server error",
}
