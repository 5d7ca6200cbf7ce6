package model

// Principal is the authenticated identity resolved by the identity provider.
// Users are not owned by this system; bookings reference them by id only.
type Principal struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
