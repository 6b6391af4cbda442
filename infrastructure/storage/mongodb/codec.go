package mongodb

import (
	"fmt"
	"social-lab/errors"
	"social-lab/repositories"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ObjectIDCodec accepts the 24 character hex form of an ObjectID.
type ObjectIDCodec struct{}

func (ObjectIDCodec) IsValid(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}

func (ObjectIDCodec) Parse(id string) (repositories.OpaqueID, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return hexID(oid), nil
}

// hexID prints as bare hex; bson.ObjectID.String wraps it in ObjectID("...").
type hexID bson.ObjectID

func (h hexID) String() string {
	return bson.ObjectID(h).Hex()
}

func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("%w: %v", errors.ErrInvalidID, err)
	}
	return oid, nil
}

func parseIDs(ids []string) ([]bson.ObjectID, error) {
	oids := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := parseID(id)
		if err != nil {
			return nil, err
		}
		oids = append(oids, oid)
	}
	return oids, nil
}
