package account

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength    = 254
	MaxUsernameLength = 64
	MaxFullNameLength = 120
)

// Role constants
const (
	RoleAdmin   = "admin"
	RoleMember  = "member"
	RoleTrainer = "trainer"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RoleMember, RoleTrainer}

// Lockout policy: five consecutive failures locks the account for 15 minutes.
const (
	MaxFailedLogins = 5
	LockoutDuration = 15 * time.Minute
)

// Domain errors
var (
	ErrEmptyEmail         = errors.New("email cannot be empty")
	ErrInvalidEmail       = errors.New("email must contain '@'")
	ErrEmptyUsername      = errors.New("username cannot be empty")
	ErrUsernameTooLong    = errors.New("username cannot exceed 64 characters")
	ErrEmailTooLong       = errors.New("email cannot exceed 254 characters")
	ErrFullNameTooLong    = errors.New("full name cannot exceed 120 characters")
	ErrInvalidRole        = errors.New("role must be one of: admin, member, trainer")
	ErrEmptyPassword      = errors.New("password cannot be empty")
	ErrWeakPassword       = errors.New("password must be at least 8 characters and contain a letter and a digit")
	ErrWrongPassword      = errors.New("incorrect password")
	ErrAccountDeactivated = errors.New("account is deactivated")
)

// Account holds state for the identity root. Every person entity
// (member, trainer) links back to an Account row by account_id.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	IsActive     bool
	FailedLogins int
	LockedUntil  time.Time
	LastLogin    time.Time
	CreatedAt    time.Time
}

// RememberToken is a long-lived credential allowing session
// re-establishment without a password. Only the hash is persisted.
type RememberToken struct {
	ID        string
	AccountID string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return ErrEmptyUsername
	}
	if len(a.Username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	if strings.TrimSpace(a.Email) == "" {
		return ErrEmptyEmail
	}
	if len(a.Email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !strings.Contains(a.Email, "@") {
		return ErrInvalidEmail
	}
	if len(a.FullName) > MaxFullNameLength {
		return ErrFullNameTooLong
	}
	if !isValidRole(a.Role) {
		return ErrInvalidRole
	}
	return nil
}

// IsValidationError reports whether err is one of the field or password
// policy validation errors this package returns, as opposed to a
// storage failure.
func IsValidationError(err error) bool {
	for _, v := range []error{
		ErrEmptyEmail, ErrInvalidEmail, ErrEmailTooLong,
		ErrEmptyUsername, ErrUsernameTooLong, ErrFullNameTooLong,
		ErrInvalidRole, ErrEmptyPassword, ErrWeakPassword,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// SetPassword hashes and stores a password using bcrypt with cost 12.
// PRE: plaintext satisfies the password policy
// POST: PasswordHash is set to bcrypt hash
func (a *Account) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if !passwordMeetsPolicy(plaintext) {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// bcrypt.CompareHashAndPassword is constant-time.
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked returns true if the account is currently locked out.
// INVARIANT: Account fields are not mutated
func (a *Account) IsLocked() bool {
	if a.LockedUntil.IsZero() {
		return false
	}
	return time.Now().Before(a.LockedUntil)
}

// RecordFailedLogin increments the failed login counter and locks the
// account once MaxFailedLogins is reached.
// POST: FailedLogins incremented; LockedUntil set on the 5th failure
func (a *Account) RecordFailedLogin() {
	a.FailedLogins++
	if a.FailedLogins >= MaxFailedLogins {
		a.LockedUntil = time.Now().Add(LockoutDuration)
	}
}

// ResetFailedLogins clears the failed login counter and lock.
func (a *Account) ResetFailedLogins() {
	a.FailedLogins = 0
	a.LockedUntil = time.Time{}
}

// RecordLogin stamps a successful login.
// POST: LastLogin set, failed-login state cleared
func (a *Account) RecordLogin(now time.Time) {
	a.LastLogin = now
	a.ResetFailedLogins()
}

// Deactivate soft-deletes the account. Deactivated accounts cannot log in.
func (a *Account) Deactivate() {
	a.IsActive = false
}

// Reactivate restores a deactivated account.
func (a *Account) Reactivate() {
	a.IsActive = true
}

// IsAdmin returns true if the account has admin role.
// INVARIANT: Account fields are not mutated
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsExpired returns true if the remember token has expired.
// INVARIANT: Token fields are not mutated
func (t *RememberToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func isValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// passwordMeetsPolicy requires at least 8 characters with one letter and one digit.
func passwordMeetsPolicy(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
