package domain

// User is the identity referenced by threads and messages.
// The messaging core only reads users; account lifecycle lives in the auth layer.
type User struct {
	ID       string
	Username string
	Email    string
}
