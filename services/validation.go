package services

import (
	"fmt"
	"social-lab/domain"
	"social-lab/errors"
	"social-lab/repositories"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// messageRule counts runes, matching domain.MaxMessageLength.
var messageRule = fmt.Sprintf("min=1,max=%d", domain.MaxMessageLength)

// validateMessage trims text and checks its length.
func validateMessage(text string) (string, error) {
	content := strings.TrimSpace(text)
	if err := validate.Var(content, messageRule); err != nil {
		return "", errors.NewArgumentError(
			fmt.Sprintf("message must be 1 to %d characters", domain.MaxMessageLength),
			errors.ErrInvalidMessage)
	}
	return content, nil
}

// validateID rejects malformed ids before the repository is touched.
func validateID(codec repositories.IdCodec, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || !codec.IsValid(id) {
		return "", errors.NewArgumentError(fmt.Sprintf("malformed id %q", id), errors.ErrInvalidID)
	}
	return id, nil
}

// fromRepository keeps the two error kinds apart: a username conflict is the
// caller's problem, anything else the backend's.
func fromRepository(op string, err error) error {
	if errors.Is(err, errors.ErrUserAlreadyExists) {
		return errors.NewArgumentError("username is already taken", err)
	}
	return errors.NewDatabaseError(op, err)
}
