package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/adapters/email"
	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/member"
)

// MemberStoreForRegister defines the store interface needed by RegisterMember.
type MemberStoreForRegister interface {
	GetByEmail(ctx context.Context, email string) (member.Member, error)
	CreateWithAccount(ctx context.Context, acct account.Account, m member.Member) error
}

// AccountStoreForRegister checks identifier uniqueness before creation.
type AccountStoreForRegister interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	GetByUsername(ctx context.Context, username string) (account.Account, error)
}

// RegisterMemberInput carries input for the orchestrator.
type RegisterMemberInput struct {
	Username string
	Email    string
	Password string
	Name     string
	Age      int
	Plan     string
	Contact  string
}

// RegisterMemberDeps holds dependencies for RegisterMember.
type RegisterMemberDeps struct {
	MemberStore  MemberStoreForRegister
	AccountStore AccountStoreForRegister
	Mailer       email.Sender
	Now          func() time.Time
}

var (
	ErrEmailTaken    = errors.New("an account with this email already exists")
	ErrUsernameTaken = errors.New("this username is already taken")
)

// ExecuteRegisterMember creates a member account and profile atomically
// and sends a welcome email.
// PRE: Input fields are provided; password meets policy
// POST: Account and member rows both exist, or neither; member status active
func ExecuteRegisterMember(ctx context.Context, input RegisterMemberInput, deps RegisterMemberDeps) (string, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	if _, err := deps.AccountStore.GetByEmail(ctx, input.Email); err == nil {
		return "", ErrEmailTaken
	}
	if _, err := deps.AccountStore.GetByUsername(ctx, input.Username); err == nil {
		return "", ErrUsernameTaken
	}

	acct := account.Account{
		ID:        uuid.New().String(),
		Username:  input.Username,
		Email:     input.Email,
		FullName:  input.Name,
		Role:      account.RoleMember,
		IsActive:  true,
		CreatedAt: now(),
	}
	if err := acct.Validate(); err != nil {
		return "", err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return "", err
	}

	m := member.Member{
		ID:        uuid.New().String(),
		AccountID: acct.ID,
		Name:      input.Name,
		Age:       input.Age,
		Plan:      input.Plan,
		Contact:   input.Contact,
		Email:     input.Email,
		Status:    member.StatusActive,
		JoinDate:  now(),
	}
	if err := m.Validate(); err != nil {
		return "", err
	}

	if err := deps.MemberStore.CreateWithAccount(ctx, acct, m); err != nil {
		return "", err
	}

	slog.Info("member_registered", "member_id", m.ID, "plan", m.Plan)

	if deps.Mailer != nil {
		msg := email.Message{
			To:      input.Email,
			Subject: "Welcome to GymDesk",
			HTML: fmt.Sprintf("<p>Hi %s,</p><p>Your %s membership is active. See you at the gym!</p>",
				input.Name, input.Plan),
		}
		if err := deps.Mailer.Send(ctx, msg); err != nil {
			// Registration already committed; a failed welcome email is not fatal.
			slog.Warn("welcome_email_failed", "member_id", m.ID, "error", err)
		}
	}

	return m.ID, nil
}
