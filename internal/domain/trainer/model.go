package trainer

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrEmptyAccountID  = errors.New("trainer must be linked to an account")
	ErrEmptySpecialty  = errors.New("specialty cannot be empty")
	ErrInvalidYears    = errors.New("years of experience must be between 0 and 60")
	ErrInvalidRating   = errors.New("rating must be between 0 and 5")
	ErrBioTooLong      = errors.New("bio cannot exceed 2000 characters")
)

// Trainer holds the coaching profile attached to a trainer-role account.
// Unlike other entities, trainers are hard-deleted: the trainer row goes
// away while the parent account is merely deactivated.
type Trainer struct {
	ID            string
	AccountID     string
	Specialty     string
	Certification string
	YearsExp      int
	Rating        float64
	Bio           string
}

// Validate checks if the Trainer has valid data.
// PRE: Trainer struct is populated
// POST: Returns nil if valid, error otherwise
func (t *Trainer) Validate() error {
	if t.AccountID == "" {
		return ErrEmptyAccountID
	}
	if strings.TrimSpace(t.Specialty) == "" {
		return ErrEmptySpecialty
	}
	if t.YearsExp < 0 || t.YearsExp > 60 {
		return ErrInvalidYears
	}
	if t.Rating < 0 || t.Rating > 5 {
		return ErrInvalidRating
	}
	if len(t.Bio) > 2000 {
		return ErrBioTooLong
	}
	return nil
}

// IsValidationError reports whether err is one of the field validation
// errors this package returns, as opposed to a storage failure.
func IsValidationError(err error) bool {
	for _, v := range []error{ErrEmptyAccountID, ErrEmptySpecialty, ErrInvalidYears, ErrInvalidRating, ErrBioTooLong} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
