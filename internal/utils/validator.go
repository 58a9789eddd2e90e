package utils

import (
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/truemail-rb/truemail-go"
)

// specialCharacters are the characters accepted as the special character of a password.
const specialCharacters = "!@#$%^&*"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Validator struct {
	Validate    *validator.Validate
	VerifyEmail func(email string) bool
}

var (
	instance      *Validator
	once          sync.Once
	configuration *truemail.Configuration
)

func GetValidator() *Validator {
	once.Do(func() {
		// The regex validation type keeps truemail off the network.
		configuration, _ = truemail.NewConfiguration(truemail.ConfigurationAttr{
			VerifierEmail:         "noreply@code-atlas.dev",
			ValidationTypeDefault: "regex",
		})

		instance = &Validator{
			Validate:    validator.New(validator.WithRequiredStructEnabled()),
			VerifyEmail: validateEmail,
		}

		registerCustomValidators(instance.Validate)
	})

	return instance
}

func validateEmail(email string) bool {
	if !emailPattern.MatchString(email) {
		return false
	}
	if configuration == nil {
		return true
	}
	return truemail.IsValid(email, configuration)
}

func registerCustomValidators(v *validator.Validate) {
	err := v.RegisterValidation("password_validation", passwordValidation)
	if err != nil {
		return
	}
}

// passwordValidation requires an ASCII upper case letter, an ASCII lower case letter, an ASCII digit and one of the
// special characters.
func passwordValidation(fl validator.FieldLevel) bool {
	var upperLetter, lowerLetter, number, specialChar bool

	value := fl.Field().String()
	for _, r := range value {
		switch {
		case 'A' <= r && r <= 'Z':
			upperLetter = true
		case 'a' <= r && r <= 'z':
			lowerLetter = true
		case '0' <= r && r <= '9':
			number = true
		case strings.ContainsRune(specialCharacters, r):
			specialChar = true
		}
	}

	return upperLetter && lowerLetter && number && specialChar
}
