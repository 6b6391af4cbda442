package badgerdb

import (
	"fmt"
	"social-lab/errors"
	"social-lab/repositories"

	"github.com/google/uuid"
)

// UUIDCodec validates the UUIDv7 ids this backend hands out.
type UUIDCodec struct{}

func (UUIDCodec) IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (UUIDCodec) Parse(id string) (repositories.OpaqueID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidID, err)
	}
	return parsed, nil
}

// newID is time ordered, so a prefix scan follows insertion order.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// canonical maps the accepted uuid spellings (braces, urn, upper case) to one key.
func canonical(id string) string {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return parsed.String()
}
