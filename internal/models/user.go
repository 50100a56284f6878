package models

// User is a registered account. Email is the identity key and is compared as-is.
type User struct {
	Name         string `json:"name" redis:"name"`
	Email        string `json:"email" redis:"email"`
	PasswordHash string `json:"-" redis:"password_hash"`
}

// UserProfile is the public view of a user
type UserProfile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Profile returns the public view of the user
func (u *User) Profile() UserProfile {
	return UserProfile{
		Name:  u.Name,
		Email: u.Email,
	}
}
