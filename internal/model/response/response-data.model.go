package response

import "github.com/duccv/student-service/internal/model"

// ResponseData is the error body: {"message": ...} with optional detail.
type ResponseData struct {
	Message string                        `json:"message"`
	Error   string                        `json:"error,omitempty"`
	Errors  map[model.StudentField]string `json:"errors,omitempty"`
}

type TokenResponse struct {
	JWT string `json:"jwt"`
}

type TeacherTokenResponse struct {
	JWT     string            `json:"jwt"`
	Teacher model.TeacherView `json:"teacher"`
}

type TeacherResponse struct {
	Teacher model.TeacherView `json:"teacher"`
}
