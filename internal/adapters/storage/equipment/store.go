package equipment

import (
	"context"
	"time"

	domain "gymdesk/internal/domain/equipment"
)

// ListFilter narrows and pages equipment listings. DueBefore, when set,
// restricts results to items whose next maintenance falls before it.
type ListFilter struct {
	Limit     int
	Offset    int
	Status    string
	Search    string
	DueBefore time.Time
	Sort      string
	Dir       string
}

// Store persists Equipment state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Equipment, error)
	Save(ctx context.Context, value domain.Equipment) error
	Count(ctx context.Context, filter ListFilter) (int, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Equipment, error)
}
