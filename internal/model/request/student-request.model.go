package request

import "github.com/duccv/student-service/internal/model"

// CreateStudent is the body of POST /student. Pointers make presence, not content, the schema check;
// content rules are applied by the student validator.
type CreateStudent struct {
	Name    *string `json:"name"    validate:"required"`
	Email   *string `json:"email"   validate:"required"`
	Address *string `json:"address" validate:"required"`
	Nim     *string `json:"nim"     validate:"required"`
	Nisn    *string `json:"nisn"    validate:"required"`
	Phone   *string `json:"phone"   validate:"required"`
}

func (r CreateStudent) ToModel() model.Student {
	return model.Student{
		Nim:     *r.Nim,
		Nisn:    *r.Nisn,
		Name:    *r.Name,
		Email:   *r.Email,
		Address: *r.Address,
		Phone:   *r.Phone,
	}
}

// UpdateStudent is the body of PUT /student/:nim.
type UpdateStudent struct {
	Name    *string `json:"name"    validate:"required"`
	Email   *string `json:"email"   validate:"required"`
	Address *string `json:"address" validate:"required"`
	Nisn    *string `json:"nisn"    validate:"required"`
	Phone   *string `json:"phone"   validate:"required"`
}

func (r UpdateStudent) ToModel() model.StudentUpdate {
	return model.StudentUpdate{
		Nisn:    *r.Nisn,
		Name:    *r.Name,
		Email:   *r.Email,
		Address: *r.Address,
		Phone:   *r.Phone,
	}
}

// StudentParams binds the :nim path segment.
type StudentParams struct {
	Nim string `uri:"nim" validate:"required"`
}
