package domain

// User is an account as persisted. Password holds whatever the caller stored,
// hashing happens upstream.
type User struct {
	ID       string
	Username string
	Password string
	Token    string
}

// Lookup selects a single user. Exactly one field must be set.
type Lookup struct {
	ID       string
	Username string
}
