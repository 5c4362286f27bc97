package validation

import (
	"errors"
	"net/mail"
	"strings"
	"unicode"
)

var (
	ErrInvalidUsername = errors.New("username must be 6-24 characters of letters, numbers, dots and underscores")
	ErrInvalidEmail    = errors.New("email is not a valid address")
	ErrInvalidPassword = errors.New("password must be 8-32 characters of letters, numbers and symbols ~!@$%^&*()_-+={[}]|:',.?/")
)

const passwordSymbols = "~!@$%^&*()_-+={[}]|:',.?/"

// Username checks length and the allowed character set.
func Username(username string) error {
	if len(username) < 6 || len(username) > 24 {
		return ErrInvalidUsername
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' {
			return ErrInvalidUsername
		}
	}
	return nil
}

// Email checks that the address is a bare local-part@domain. RFC 5322
// display-name and comment forms are rejected, otherwise the same mailbox
// could register under several spellings and dodge the uniqueness constraint.
func Email(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

// Password checks length and the allowed character set.
func Password(password string) error {
	if len(password) < 8 || len(password) > 32 {
		return ErrInvalidPassword
	}
	for _, r := range password {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune(passwordSymbols, r) {
			return ErrInvalidPassword
		}
	}
	return nil
}

// Credentials runs all three checks and stops at the first violated rule.
func Credentials(username, email, password string) error {
	if err := Username(username); err != nil {
		return err
	}
	if err := Email(email); err != nil {
		return err
	}
	return Password(password)
}
