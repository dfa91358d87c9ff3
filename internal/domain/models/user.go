package models

// User is owned by the auth subsystem. The transaction core never treats
// origin/destination user ids as references into this table.
type User struct {
	ID          string `json:"id"`
	PassportID  string `json:"passportId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Avatar      string `json:"avatar,omitempty"`
}
