package model

// Role identifies which side of the marketplace an account belongs to.
type Role string

const (
	RoleClinic   Role = "clinic"
	RoleProvider Role = "provider"
)

// User is the authenticated account identity returned by the marketplace
// API and rehydrated from the credential vault between runs.
type User struct {
	// ID is the account's unique identifier in the marketplace.
	ID string `json:"id"`

	// FirstName and LastName are the account holder's display names.
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	// Email is the login identifier.
	Email string `json:"email"`

	// Role is either "clinic" or "provider".
	Role Role `json:"role"`

	// ProfilePicture is a URL reference to the account's avatar, if set.
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// DisplayName returns the user's full name for headers and lists.
func (u User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Initials returns up to two letters used for the compact avatar badge.
func (u User) Initials() string {
	var out []rune
	if u.FirstName != "" {
		out = append(out, []rune(u.FirstName)[0])
	}
	if u.LastName != "" {
		out = append(out, []rune(u.LastName)[0])
	}
	return string(out)
}
