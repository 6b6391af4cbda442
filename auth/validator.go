package auth

import (
	"fmt"
	"slices"
	"social-lab/errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New()

// Registration is the only accepted shape for a new account.
type Registration struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

var registrationFields = []string{"username", "password"}

// ParseRegistration rejects any key other than username and password before
// checking that both are present. The username is trimmed.
func ParseRegistration(fields map[string]string) (Registration, error) {
	if unknown := lo.Without(lo.Keys(fields), registrationFields...); len(unknown) > 0 {
		slices.Sort(unknown)
		return Registration{}, fmt.Errorf("%w: %s", errors.ErrUnknownField, strings.Join(unknown, ", "))
	}
	reg := Registration{
		Username: strings.TrimSpace(fields["username"]),
		Password: fields["password"],
	}
	if err := validate.Struct(reg); err != nil {
		return Registration{}, err
	}
	return reg, nil
}

// ValidatePassword applies the same rule as registration to a replacement password.
func ValidatePassword(password string) error {
	return validate.Var(password, "required")
}
