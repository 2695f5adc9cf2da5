package model

import "slices"

type User struct {
	ID          string   `json:"id"`
	FullName    string   `json:"fullName"`
	Permissions []string `json:"permissions,omitempty"`
}

func (u User) HasPermission(permission string) bool {
	return slices.Contains(u.Permissions, permission)
}

// FindUser returns the user with the given id, if any.
func FindUser(users []User, id string) (User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
