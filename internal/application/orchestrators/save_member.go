package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/domain/member"
)

// MemberStoreForAdmin defines the store interface for admin member edits.
type MemberStoreForAdmin interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	Save(ctx context.Context, m member.Member) error
	SaveNote(ctx context.Context, note member.Note) error
}

// UpdateMemberInput carries input for editing a member profile.
type UpdateMemberInput struct {
	MemberID string
	Name     string
	Age      int
	Plan     string
	Contact  string
	Status   string
}

// UpdateMemberDeps holds dependencies for member admin orchestrators.
type UpdateMemberDeps struct {
	MemberStore MemberStoreForAdmin
	Now         func() time.Time
}

// ExecuteUpdateMember edits a member profile.
// PRE: MemberID exists; admin-only
// POST: Profile updated; account link and email unchanged
func ExecuteUpdateMember(ctx context.Context, input UpdateMemberInput, deps UpdateMemberDeps) error {
	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return err
	}

	m.Name = input.Name
	m.Age = input.Age
	m.Plan = input.Plan
	m.Contact = input.Contact
	m.Status = input.Status
	if err := m.Validate(); err != nil {
		return err
	}

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return err
	}
	slog.Info("member_updated", "member_id", m.ID, "status", m.Status)
	return nil
}

// ExecuteDeactivateMember soft-deletes a member. The row is kept.
// POST: Member status is inactive
func ExecuteDeactivateMember(ctx context.Context, memberID string, deps UpdateMemberDeps) error {
	m, err := deps.MemberStore.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	m.Deactivate()
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return err
	}
	slog.Info("member_deactivated", "member_id", m.ID)
	return nil
}

// MemberStoreForSelf defines the store interface for member self-service
// profile edits.
type MemberStoreForSelf interface {
	GetByAccountID(ctx context.Context, accountID string) (member.Member, error)
	Save(ctx context.Context, m member.Member) error
}

// UpdateContactInput carries a member's own contact edit.
type UpdateContactInput struct {
	AccountID string
	Contact   string
}

// UpdateContactDeps holds dependencies for ExecuteUpdateContact.
type UpdateContactDeps struct {
	MemberStore MemberStoreForSelf
}

// ExecuteUpdateContact lets a member change their own contact details.
// PRE: AccountID has a member profile
// POST: Only Contact changes; plan, status and identity stay untouched
func ExecuteUpdateContact(ctx context.Context, input UpdateContactInput, deps UpdateContactDeps) error {
	m, err := deps.MemberStore.GetByAccountID(ctx, input.AccountID)
	if err != nil {
		return err
	}

	m.Contact = strings.TrimSpace(input.Contact)
	if err := m.Validate(); err != nil {
		return err
	}

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return err
	}
	slog.Info("member_contact_updated", "member_id", m.ID)
	return nil
}

// AddMemberNoteInput carries input for attaching an admin note.
type AddMemberNoteInput struct {
	MemberID string
	AuthorID string
	Content  string
}

// ExecuteAddMemberNote attaches a note to a member profile.
// PRE: MemberID exists; author is an admin
// POST: Note persisted server-side, visible to all admins
func ExecuteAddMemberNote(ctx context.Context, input AddMemberNoteInput, deps UpdateMemberDeps) (string, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return "", member.ErrEmptyNote
	}
	if _, err := deps.MemberStore.GetByID(ctx, input.MemberID); err != nil {
		return "", err
	}

	note := member.Note{
		ID:        uuid.New().String(),
		MemberID:  input.MemberID,
		AuthorID:  input.AuthorID,
		Content:   content,
		CreatedAt: now(),
	}
	if err := deps.MemberStore.SaveNote(ctx, note); err != nil {
		return "", err
	}
	return note.ID, nil
}
