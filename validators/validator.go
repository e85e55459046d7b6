package validators

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var mobileRegex = regexp.MustCompile(`^\+\d{1,3}-\d{10}$`)

const passwordSymbols = "@$!%*?&"

// CustomValidator adapts go-playground/validator to echo's Validator interface
// and registers the domain rules used by registration.
type CustomValidator struct {
	validate *validator.Validate
}

// NewValidator builds the validator with the custom password and mobile rules.
func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("strongpassword", validPassword)
	_ = v.RegisterValidation("mobile", validMobile)
	return &CustomValidator{validate: v}
}

// Validate implements echo.Validator, translating failures into 400 responses.
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// validPassword requires length >= 8 plus at least one lowercase letter, one
// uppercase letter, one digit and one symbol from the fixed punctuation set.
func validPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}

// validMobile matches +<country code>-<10 digits>.
func validMobile(fl validator.FieldLevel) bool {
	return mobileRegex.MatchString(fl.Field().String())
}
