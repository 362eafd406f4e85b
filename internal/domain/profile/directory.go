package profile

import "strings"

// MinSearchLength is the query length a directory search must exceed.
const MinSearchLength = 2

// Directory is the read-only set of discoverable identities.
type Directory struct {
	users []User
}

// NewDirectory creates a directory over users.
func NewDirectory(users []User) *Directory {
	return &Directory{users: append([]User(nil), users...)}
}

// Search matches query against username, display name (case-insensitive), phone and email.
// Queries of MinSearchLength characters or fewer return nothing.
func (d *Directory) Search(query string) []User {
	if len(query) <= MinSearchLength {
		return []User{}
	}
	lowered := strings.ToLower(query)

	results := make([]User, 0)
	for _, u := range d.users {
		switch {
		case strings.Contains(u.Username, query),
			strings.Contains(strings.ToLower(u.DisplayName), lowered),
			u.Phone != "" && strings.Contains(u.Phone, query),
			u.Email != "" && strings.Contains(u.Email, query):
			results = append(results, u)
		}
	}
	return results
}

// Handles returns every username in the directory.
func (d *Directory) Handles() []string {
	handles := make([]string, 0, len(d.users))
	for _, u := range d.users {
		handles = append(handles, u.Username)
	}
	return handles
}
