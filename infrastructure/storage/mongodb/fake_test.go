package mongodb

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"social-lab/errors"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// fakeSource hands out in-memory collections that understand the handful of
// filters the repositories build: equality, $in and $regex.
type fakeSource struct {
	mu     sync.Mutex
	closed bool
	colls  map[string]*fakeCollection
}

func newFakeSource() *fakeSource {
	return &fakeSource{colls: make(map[string]*fakeCollection)}
}

func (s *fakeSource) collection(name string) (collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.ErrNotConnected
	}
	coll, ok := s.colls[name]
	if !ok {
		coll = &fakeCollection{}
		s.colls[name] = coll
	}
	return coll, nil
}

func (s *fakeSource) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

type fakeCollection struct {
	mu     sync.Mutex
	docs   []bson.M
	unique []string
}

// toM round-trips through BSON so stored values have the driver's decoded types.
func toM(document any) (bson.M, error) {
	raw, err := bson.Marshal(document)
	if err != nil {
		return nil, err
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeInto(doc bson.M, val any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, val)
}

func (c *fakeCollection) InsertOne(_ context.Context, document any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, err := toM(document)
	if err != nil {
		return err
	}
	for _, field := range c.unique {
		for _, existing := range c.docs {
			if existing[field] == doc[field] {
				return mongo.WriteException{WriteErrors: []mongo.WriteError{{
					Code:    11000,
					Message: fmt.Sprintf("E11000 duplicate key error: %s", field),
				}}}
			}
		}
	}
	c.docs = append(c.docs, doc)
	return nil
}

func (c *fakeCollection) UpdateOne(_ context.Context, filter, update any) (*mongo.UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := update.(bson.M)["$set"].(bson.M)
	if !ok {
		return nil, fmt.Errorf("unsupported update %v", update)
	}
	for _, doc := range c.docs {
		if !matches(doc, filter.(bson.M)) {
			continue
		}
		var modified int64
		for k, v := range set {
			if doc[k] != v {
				doc[k] = v
				modified = 1
			}
		}
		return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: modified}, nil
	}
	return &mongo.UpdateResult{}, nil
}

func (c *fakeCollection) FindOne(_ context.Context, filter any) singleResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, doc := range c.docs {
		if matches(doc, filter.(bson.M)) {
			return fakeSingleResult{doc: doc}
		}
	}
	return fakeSingleResult{err: mongo.ErrNoDocuments}
}

// FindAll ignores sort: documents are already kept in insertion order.
func (c *fakeCollection) FindAll(_ context.Context, filter any, _ bson.D, results any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := reflect.ValueOf(results).Elem()
	for _, doc := range c.docs {
		if !matches(doc, filter.(bson.M)) {
			continue
		}
		elem := reflect.New(out.Type().Elem())
		if err := decodeInto(doc, elem.Interface()); err != nil {
			return err
		}
		out.Set(reflect.Append(out, elem.Elem()))
	}
	return nil
}

// CreateIndex treats every index as unique; the repositories create no other kind.
func (c *fakeCollection) CreateIndex(_ context.Context, model mongo.IndexModel) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range model.Keys.(bson.D) {
		c.unique = append(c.unique, key.Key)
	}
	return nil
}

func (c *fakeCollection) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

type fakeSingleResult struct {
	doc bson.M
	err error
}

func (r fakeSingleResult) Decode(val any) error {
	if r.err != nil {
		return r.err
	}
	return decodeInto(r.doc, val)
}

func matches(doc, filter bson.M) bool {
	for key, cond := range filter {
		value := doc[key]
		op, isOp := cond.(bson.M)
		if !isOp {
			if value != cond {
				return false
			}
			continue
		}
		if in, ok := op["$in"]; ok && !contains(in, value) {
			return false
		}
		if pattern, ok := op["$regex"].(string); ok {
			if opts, _ := op["$options"].(string); strings.Contains(opts, "i") {
				pattern = "(?i)" + pattern
			}
			s, _ := value.(string)
			if !regexp.MustCompile(pattern).MatchString(s) {
				return false
			}
		}
	}
	return true
}

func contains(list, value any) bool {
	rv := reflect.ValueOf(list)
	for i := 0; i < rv.Len(); i++ {
		if rv.Index(i).Interface() == value {
			return true
		}
	}
	return false
}
