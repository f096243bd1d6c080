package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/duccv/student-service/internal/model"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
	nimPattern   = regexp.MustCompile(`^[0-9]{20}$`)
	nisnPattern  = regexp.MustCompile(`^[0-9]{10}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10,12}$`)
)

// studentRules orders tags so the first failing one decides the message: blank before malformed.
type studentRules struct {
	Name    string `json:"name"    validate:"notblank"`
	Email   string `json:"email"   validate:"notblank,emailaddr"`
	Address string `json:"address" validate:"notblank"`
	Nim     string `json:"nim"     validate:"notblank,nim"`
	Nisn    string `json:"nisn"    validate:"notblank,nisn"`
	Phone   string `json:"phone"   validate:"notblank,phone"`
}

var messages = map[model.StudentField]map[string]string{
	model.FieldName: {
		"notblank": "Name must not be empty",
	},
	model.FieldEmail: {
		"notblank":  "Email must not be empty",
		"emailaddr": "Email must be a valid email address",
	},
	model.FieldAddress: {
		"notblank": "Address must not be empty",
	},
	model.FieldNim: {
		"notblank": "NIM must not be empty",
		"nim":      "NIM must be a valid NIM address",
	},
	model.FieldNisn: {
		"notblank": "NISN must not be empty",
		"nisn":     "NISN must be a valid NISN address",
	},
	model.FieldPhone: {
		"notblank": "Phone must not be empty",
		"phone":    "Phone must be a valid phone number",
	},
}

func patternRule(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterValidation("emailaddr", patternRule(emailPattern))
	v.RegisterValidation("nim", patternRule(nimPattern))
	v.RegisterValidation("nisn", patternRule(nisnPattern))
	v.RegisterValidation("phone", patternRule(phonePattern))
	return v
}

// Result is the outcome of ValidateStudent.
type Result struct {
	Valid  bool
	Errors map[model.StudentField]string
}

// ValidateStudent checks every field of s independently and collects all failures.
func ValidateStudent(s model.Student) Result {
	errs := make(map[model.StudentField]string)

	err := validate.Struct(studentRules{
		Name:    s.Name,
		Email:   s.Email,
		Address: s.Address,
		Nim:     s.Nim,
		Nisn:    s.Nisn,
		Phone:   s.Phone,
	})
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			field := model.StudentField(fe.Field())
			errs[field] = messages[field][fe.Tag()]
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}
