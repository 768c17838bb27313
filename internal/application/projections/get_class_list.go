package projections

import (
	"context"
	"time"

	"gymdesk/internal/adapters/storage/gymclass"
	"gymdesk/internal/adapters/storage/trainer"
	"gymdesk/internal/application/listutil"
	accountdomain "gymdesk/internal/domain/account"
	domain "gymdesk/internal/domain/gymclass"
	trainerdomain "gymdesk/internal/domain/trainer"
)

// ClassStore defines the class reads used by projections.
type ClassStore interface {
	GetByID(ctx context.Context, id string) (domain.Class, error)
	Count(ctx context.Context, filter gymclass.ListFilter) (int, error)
	List(ctx context.Context, filter gymclass.ListFilter) ([]domain.Class, error)
}

// TrainerStore defines the trainer reads used by projections.
type TrainerStore interface {
	GetByID(ctx context.Context, id string) (trainerdomain.Trainer, error)
	Count(ctx context.Context, filter trainer.ListFilter) (int, error)
	List(ctx context.Context, filter trainer.ListFilter) ([]trainerdomain.Trainer, error)
}

// AccountStore resolves display names for linked accounts.
type AccountStore interface {
	GetByID(ctx context.Context, id string) (accountdomain.Account, error)
}

// ClassRow is one line of the class list page.
type ClassRow struct {
	ID          string
	Name        string
	TrainerID   string
	TrainerName string
	Schedule    time.Time
	Duration    int
	SeatsLeft   int
	MaxCapacity int
	Enrollment  int
	Location    string
	ClassType   string
	Difficulty  string
	Status      string
	Upcoming    bool
}

// GetClassListResult carries the query result.
type GetClassListResult struct {
	Classes  []ClassRow
	PageInfo listutil.PageInfo
}

// GetClassListDeps holds dependencies for GetClassList.
type GetClassListDeps struct {
	ClassStore   ClassStore
	TrainerStore TrainerStore
	AccountStore AccountStore
	Now          func() time.Time
}

// ClassSortColumns are the sortable columns of the class list.
var ClassSortColumns = []string{"name", "schedule", "type", "difficulty", "status"}

// QueryGetClassList retrieves one page of classes with trainer names.
// PRE: query parsed by listutil
// POST: With the upcoming filter set, every row is active with a future
// schedule and matches the requested class type
func QueryGetClassList(ctx context.Context, query listutil.Query, deps GetClassListDeps) (GetClassListResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	filter := gymclass.ListFilter{
		ClassType:  query.Filters["type"],
		Difficulty: query.Filters["difficulty"],
		TrainerID:  query.Filters["trainer"],
		Search:     query.Search,
		Sort:       query.Sort,
		Dir:        query.Dir,
	}
	if query.Filters["status"] == "upcoming" {
		filter.UpcomingAfter = now()
	} else {
		filter.Status = query.Filters["status"]
	}

	total, err := deps.ClassStore.Count(ctx, filter)
	if err != nil {
		return GetClassListResult{}, err
	}
	pageInfo := listutil.NewPageInfo(query.Page, query.PerPage, total)

	filter.Limit = pageInfo.PerPage
	filter.Offset = pageInfo.Offset()
	classes, err := deps.ClassStore.List(ctx, filter)
	if err != nil {
		return GetClassListResult{}, err
	}

	names := make(map[string]string)
	rows := make([]ClassRow, 0, len(classes))
	for _, c := range classes {
		name, ok := names[c.TrainerID]
		if !ok {
			name = resolveTrainerName(ctx, c.TrainerID, deps)
			names[c.TrainerID] = name
		}
		rows = append(rows, ClassRow{
			ID:          c.ID,
			Name:        c.Name,
			TrainerID:   c.TrainerID,
			TrainerName: name,
			Schedule:    c.Schedule,
			Duration:    c.DurationMinutes,
			SeatsLeft:   c.SeatsLeft(),
			MaxCapacity: c.MaxCapacity,
			Enrollment:  c.CurrentEnrollment,
			Location:    c.Location,
			ClassType:   c.ClassType,
			Difficulty:  c.Difficulty,
			Status:      c.Status,
			Upcoming:    c.IsUpcoming(now()),
		})
	}

	return GetClassListResult{Classes: rows, PageInfo: pageInfo}, nil
}

// resolveTrainerName walks trainer -> account for the display name.
// Deleted trainers render as "Unassigned" rather than failing the page.
func resolveTrainerName(ctx context.Context, trainerID string, deps GetClassListDeps) string {
	t, err := deps.TrainerStore.GetByID(ctx, trainerID)
	if err != nil {
		return "Unassigned"
	}
	acct, err := deps.AccountStore.GetByID(ctx, t.AccountID)
	if err != nil || acct.FullName == "" {
		return "Unassigned"
	}
	return acct.FullName
}
