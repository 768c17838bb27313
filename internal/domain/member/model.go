package member

import (
	"errors"
	"strings"
	"time"
)

// Membership plan tiers.
const (
	PlanWarrior  = "Warrior"
	PlanChampion = "Champion"
	PlanLegend   = "Legend"
)

// ValidPlans contains all valid membership plans.
var ValidPlans = []string{PlanWarrior, PlanChampion, PlanLegend}

// Membership status constants
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// PlanMonthlyFee maps each plan to its monthly fee in cents.
var PlanMonthlyFee = map[string]int{
	PlanWarrior:  4900,
	PlanChampion: 7900,
	PlanLegend:   12900,
}

// Domain errors
var (
	ErrEmptyName      = errors.New("name cannot be empty")
	ErrEmptyAccountID = errors.New("member must be linked to an account")
	ErrInvalidAge     = errors.New("age must be between 14 and 100")
	ErrInvalidPlan    = errors.New("plan must be one of: Warrior, Champion, Legend")
	ErrInvalidStatus  = errors.New("status must be one of: active, inactive, suspended")
	ErrEmptyNote      = errors.New("note content cannot be empty")
)

// Member holds the gym membership profile. It links to the identity
// root via AccountID — a real foreign key, not an email string match.
type Member struct {
	ID        string
	AccountID string
	Name      string
	Age       int
	Plan      string
	Contact   string
	Email     string
	Status    string
	JoinDate  time.Time
}

// Note is an admin-authored note attached to a member profile.
type Note struct {
	ID        string
	MemberID  string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}

// Validate checks if the Member has valid data.
// PRE: Member struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if m.AccountID == "" {
		return ErrEmptyAccountID
	}
	if m.Age < 14 || m.Age > 100 {
		return ErrInvalidAge
	}
	if !isValidPlan(m.Plan) {
		return ErrInvalidPlan
	}
	if !isValidStatus(m.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// Deactivate flips the member to inactive. Rows are never physically removed.
func (m *Member) Deactivate() {
	m.Status = StatusInactive
}

// Reactivate restores an inactive or suspended member.
func (m *Member) Reactivate() {
	m.Status = StatusActive
}

// IsActive returns true if the membership is currently active.
// INVARIANT: Member fields are not mutated
func (m *Member) IsActive() bool {
	return m.Status == StatusActive
}

// MonthlyFee returns the member's plan fee in cents, 0 for unknown plans.
// Value receiver so templates can call it on an embedded Member.
func (m Member) MonthlyFee() int {
	return PlanMonthlyFee[m.Plan]
}

// IsValidationError reports whether err is one of the field validation
// errors this package returns, as opposed to a storage failure.
func IsValidationError(err error) bool {
	for _, v := range []error{ErrEmptyName, ErrEmptyAccountID, ErrInvalidAge, ErrInvalidPlan, ErrInvalidStatus, ErrEmptyNote} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

func isValidPlan(plan string) bool {
	for _, p := range ValidPlans {
		if p == plan {
			return true
		}
	}
	return false
}

func isValidStatus(status string) bool {
	return status == StatusActive || status == StatusInactive || status == StatusSuspended
}
