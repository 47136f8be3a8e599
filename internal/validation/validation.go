// Package validation checks user-supplied account and player fields.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordLength = 72
	MaxPlayerName     = 40
)

// Error names the field that failed and why
type Error struct {
	Field   string
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return Error{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return Error{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return Error{Field: "password", Message: "password is required"}
	case len(password) < minPasswordLength:
		return Error{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength)}
	case len(password) > maxPasswordLength:
		return Error{Field: "password", Message: fmt.Sprintf("password must be at most %d bytes", maxPasswordLength)}
	}
	return nil
}

// ValidateName checks an account holder's name
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return Error{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(name) < 2 {
		return Error{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// PlayerName trims a display name for the leaderboard and checks it
func PlayerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", Error{Field: "playerName", Message: "player name is required"}
	}
	if utf8.RuneCountInString(name) > MaxPlayerName {
		return "", Error{Field: "playerName", Message: fmt.Sprintf("player name must be at most %d characters", MaxPlayerName)}
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return "", Error{Field: "playerName", Message: "player name contains invalid characters"}
		}
	}
	return name, nil
}
