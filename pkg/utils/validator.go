package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	phonePattern = regexp.MustCompile(`^\+?[0-9]{6,15}$`)
)

var (
	genders    = []string{"MALE", "FEMALE", "OTHER"}
	tokenTypes = []string{"ACCESS", "REFRESH", "API", "RESET_PASSWORD", "EMAIL_VERIFICATION"}
	otpTypes   = []string{
		"REGISTRATION", "LOGIN", "EMAIL_VERIFICATION",
		"PHONE_VERIFICATION", "PASSWORD_RESET", "TRANSACTION",
	}
)

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("phone", validatePhone)
	_ = validate.RegisterValidation("gender", oneOf(genders))
	_ = validate.RegisterValidation("token_type", oneOf(tokenTypes))
	_ = validate.RegisterValidation("otp_type", oneOf(otpTypes))
}

// ValidateStruct runs the struct-tag validations on s.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, a := range allowed {
			if value == a {
				return true
			}
		}
		return false
	}
}
