package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const (
	MaxEmailLength    = 254
	MinPasswordLength = 6
	MaxPasswordLength = 30
	MinNameLength     = 2
	MaxNameLength     = 30

	// bcrypt ignores input past 72 bytes
	MaxLoginPasswordLength = 72

	// bcrypt refuses to hash more than this many bytes
	MaxPasswordBytes = 72
)

// login form input
type LoginInput struct {
	Email    string `json:"email" validate:"required,max=254,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// registration form input
type RegisterInput struct {
	Name      string `json:"name" validate:"required,min=2,max=30"`
	Email     string `json:"email" validate:"required,max=254,email"`
	Password  string `json:"password" validate:"required,min=6,max=30"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// report json names so messages key on the form field
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			return name
		})
	})

	return validate
}

// checks the login form and returns field messages, empty when valid
func ValidateLogin(in *LoginInput) map[string]string {
	in.Email = strings.TrimSpace(in.Email)

	fields := check(in)
	checkPasswordBytes(fields, in.Password)

	return fields
}

// checks the registration form and returns field messages, empty when valid
func ValidateRegister(in *RegisterInput) map[string]string {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	fields := check(in)
	checkPasswordBytes(fields, in.Password)

	return fields
}

// rune limits pass multibyte passwords that bcrypt would reject
func checkPasswordBytes(fields map[string]string, password string) {
	if _, failed := fields["password"]; failed {
		return
	}

	if len(password) > MaxPasswordBytes {
		fields["password"] = fmt.Sprintf("Password must be at most %d bytes", MaxPasswordBytes)
	}
}

func check(in any) map[string]string {
	fields := map[string]string{}

	err := instance().Struct(in)
	if err == nil {
		return fields
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["form"] = "Form is invalid"
		return fields
	}

	for _, fe := range verrs {
		// first failing rule per field wins
		if _, seen := fields[fe.Field()]; seen {
			continue
		}

		fields[fe.Field()] = message(fe)
	}

	return fields
}

var labels = map[string]string{
	"name":      "Name",
	"email":     "Email",
	"password":  "Password",
	"password2": "Confirm password",
}

func message(fe validator.FieldError) string {
	label := labels[fe.Field()]

	switch fe.Tag() {
	case "required":
		return label + " field is required"
	case "email":
		return "Email is not formatted correctly"
	case "min", "max":
		return lengthMessage(fe.StructNamespace(), label)
	case "eqfield":
		return "Passwords must match"
	default:
		return label + " is invalid"
	}
}

func lengthMessage(namespace, label string) string {
	switch namespace {
	case "RegisterInput.Name":
		return fmt.Sprintf("%s must be between %d and %d characters", label, MinNameLength, MaxNameLength)
	case "RegisterInput.Password":
		return fmt.Sprintf("%s must be between %d and %d characters", label, MinPasswordLength, MaxPasswordLength)
	case "LoginInput.Password":
		return fmt.Sprintf("%s must be at most %d characters", label, MaxLoginPasswordLength)
	case "LoginInput.Email", "RegisterInput.Email":
		return fmt.Sprintf("%s must be at most %d characters", label, MaxEmailLength)
	default:
		return label + " has an invalid length"
	}
}
