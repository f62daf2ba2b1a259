package domain

import "strings"

// User is the signed-in account of the mock backend.
type User struct {
	ID    string
	Email string
	Name  string
}

// DemoUser is the only account the mock backend knows.
var DemoUser = User{
	ID:    "user-demo-1",
	Email: "demo@example.com",
	Name:  "Demo User",
}

// DemoPassword is the password of DemoUser.
const DemoPassword = "password123"

// Authenticate checks credentials against the demo account.
func Authenticate(email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, NewValidationError("", "Email and password are required.")
	}
	if strings.ToLower(strings.TrimSpace(email)) != DemoUser.Email || password != DemoPassword {
		return nil, ErrInvalidCredentials
	}
	u := DemoUser
	return &u, nil
}
