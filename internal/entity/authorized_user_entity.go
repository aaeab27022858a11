package entity

// AuthorizedUser is a single admin registry entry. Presence of the chat id
// in the registry is the sole authorization predicate for admin operations.
//
// JSON field names match the persisted registry file format.
type AuthorizedUser struct {
	ChatID    string `json:"-"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	AuthDate  int64  `json:"auth_date"` // unix seconds
}
