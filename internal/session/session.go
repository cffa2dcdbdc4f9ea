// Package session provides the read-only accessor through which containers
// learn the connected user's identity, and the signed-cookie manager the
// router uses to carry that identity between requests.
package session

// User is the authenticated identity.
type User struct {
	Type  string `json:"type"` // "Employee", ...
	Email string `json:"email"`
}

// Accessor is a read-only provider of the current user. User returns nil
// when nobody is connected.
type Accessor interface {
	User() *User
}

// Static is an Accessor over a fixed user. The router wraps each request's
// validated identity in one; tests use it directly.
type Static struct {
	Current *User
}

// User returns the fixed user, nil when not connected.
func (s Static) User() *User {
	return s.Current
}
