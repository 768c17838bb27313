package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/trainer"
)

// TrainerStore defines the store interface for trainer orchestrators.
type TrainerStore interface {
	GetByID(ctx context.Context, id string) (trainer.Trainer, error)
	Save(ctx context.Context, t trainer.Trainer) error
	CreateWithAccount(ctx context.Context, acct account.Account, t trainer.Trainer) error
	DeleteWithDeactivate(ctx context.Context, id string) error
}

// CreateTrainerInput carries input for creating a trainer with its account.
type CreateTrainerInput struct {
	Username      string
	Email         string
	Password      string
	FullName      string
	Specialty     string
	Certification string
	YearsExp      int
	Rating        float64
	Bio           string
}

// CreateTrainerDeps holds dependencies for CreateTrainer.
type CreateTrainerDeps struct {
	TrainerStore TrainerStore
	AccountStore AccountStoreForRegister
	Now          func() time.Time
}

// ExecuteCreateTrainer creates a trainer account and profile atomically.
// PRE: Admin-only operation; input validated upstream for presence
// POST: Account (role trainer) and trainer rows both exist, or neither
func ExecuteCreateTrainer(ctx context.Context, input CreateTrainerInput, deps CreateTrainerDeps) (string, error) {
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
		FullName:  input.FullName,
		Role:      account.RoleTrainer,
		IsActive:  true,
		CreatedAt: now(),
	}
	if err := acct.Validate(); err != nil {
		return "", err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return "", err
	}

	t := trainer.Trainer{
		ID:            uuid.New().String(),
		AccountID:     acct.ID,
		Specialty:     input.Specialty,
		Certification: input.Certification,
		YearsExp:      input.YearsExp,
		Rating:        input.Rating,
		Bio:           input.Bio,
	}
	if err := t.Validate(); err != nil {
		return "", err
	}

	if err := deps.TrainerStore.CreateWithAccount(ctx, acct, t); err != nil {
		return "", err
	}

	slog.Info("trainer_created", "trainer_id", t.ID, "specialty", t.Specialty)
	return t.ID, nil
}

// UpdateTrainerInput carries input for editing an existing trainer profile.
type UpdateTrainerInput struct {
	TrainerID     string
	Specialty     string
	Certification string
	YearsExp      int
	Rating        float64
	Bio           string
}

// ExecuteUpdateTrainer edits an existing trainer profile.
// PRE: TrainerID exists
// POST: Profile fields updated; account link unchanged
func ExecuteUpdateTrainer(ctx context.Context, input UpdateTrainerInput, deps CreateTrainerDeps) error {
	t, err := deps.TrainerStore.GetByID(ctx, input.TrainerID)
	if err != nil {
		return err
	}

	t.Specialty = input.Specialty
	t.Certification = input.Certification
	t.YearsExp = input.YearsExp
	t.Rating = input.Rating
	t.Bio = input.Bio
	if err := t.Validate(); err != nil {
		return err
	}

	return deps.TrainerStore.Save(ctx, t)
}

// ExecuteDeleteTrainer removes a trainer and deactivates its account.
// PRE: Admin-only operation
// POST: Trainer row deleted; account deactivated
func ExecuteDeleteTrainer(ctx context.Context, trainerID string, deps CreateTrainerDeps) error {
	if err := deps.TrainerStore.DeleteWithDeactivate(ctx, trainerID); err != nil {
		return err
	}
	slog.Info("trainer_deleted", "trainer_id", trainerID)
	return nil
}
