package request

// Credentials is the body of /teacher/register and /teacher/login.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
