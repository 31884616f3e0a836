package userservice

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sushihentaime/blogapi/internal/common"
)

var (
	EmailRX = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

const (
	MinPasswordLength = 6
	// MaxPasswordLength is the longest input bcrypt accepts.
	MaxPasswordLength = 72
	MaxNameLength     = 100
)

func validateName(v *common.Validator, name, field string) {
	v.Check(strings.TrimSpace(name) != "", field, "must be provided")
	v.Check(utf8.RuneCountInString(name) <= MaxNameLength, field, "must not be more than 100 characters long")
}

func validateEmail(v *common.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(EmailRX.MatchString(email), "email", "must be a valid email address")
}

func validatePassword(v *common.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(utf8.RuneCountInString(password) >= MinPasswordLength, "password", "must be at least 6 characters long")
	v.Check(len(password) <= MaxPasswordLength, "password", "must not be more than 72 bytes long")
}

// normalizeEmail is applied before an email is stored or looked up.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
