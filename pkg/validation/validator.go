package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	mobileRe   = regexp.MustCompile(`^[0-9]{10}$`)
	emailCheck = validator.New()
)

// IsMobile reports whether s is exactly ten ASCII digits.
func IsMobile(s string) bool {
	return mobileRe.MatchString(s)
}

// IsEmail reports whether s is a well-formed address with no line breaks.
// Quoted local parts may fold lines, which must never reach a mail header.
func IsEmail(s string) bool {
	if strings.ContainsAny(s, "\r\n") {
		return false
	}
	return emailCheck.Var(s, "required,email") == nil
}

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the mobile rule and alias tags.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register installs tag name resolution and custom rules on v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return IsMobile(fl.Field().String())
	})
	_ = v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	v.RegisterAlias("otp", "len=6,numeric")
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

// Summary picks the message used at the top level of a 400 envelope.
func Summary(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				return "All fields required"
			}
		}
		fe := verrs[0]
		return fe.Field() + " " + formatFieldError(fe)
	}
	return "Invalid payload"
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return "is required"
	case "email", "mailbox":
		return "must be a valid email"
	case "mobile":
		return "must be exactly 10 digits"
	case "otp":
		return "must be a 6-digit code"
	case "url":
		return "must be a valid URL"
	case "numeric":
		return "must be numeric"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		return "must be at least " + param + " characters long"
	case "max":
		return "must be at most " + param + " characters long"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", fe.Tag(), param)
		}
		return fmt.Sprintf("validation failed for '%s'", fe.Tag())
	}
}
