// Nickname rules. A nickname is the only identity a session has; its
// case-folded form is the registry key.

package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hmZa-Sfyn/custom-irc-server/errors"
)

// MaxNicknameLength bounds display names on the wire and in the registry.
const MaxNicknameLength = 24

var validate = newNicknameValidator()

func newNicknameValidator() *validator.Validate {
	v := validator.New()
	// Per-character whitelist: ASCII letters, digits, underscore, hyphen.
	_ = v.RegisterValidation("nickchars", func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			switch {
			case r >= 'a' && r <= 'z':
			case r >= 'A' && r <= 'Z':
			case r >= '0' && r <= '9':
			case r == '_' || r == '-':
			default:
				return false
			}
		}
		return true
	})
	return v
}

// ValidateNickname checks length bounds and the character whitelist.
// Every character must be an ASCII alphanumeric, '_' or '-'.
func ValidateNickname(nick string) error {
	if err := validate.Var(nick, "required,max=24"); err != nil {
		return errors.ErrNicknameLength
	}
	if err := validate.Var(nick, "nickchars"); err != nil {
		return errors.ErrNicknameCharset
	}
	return nil
}

// NicknameKey case-folds a nickname into its registry key form.
// Two sessions may never share a key.
func NicknameKey(nick string) string {
	return strings.ToLower(nick)
}
