package projections

import (
	"context"

	"gymdesk/internal/adapters/storage/trainer"
	"gymdesk/internal/application/listutil"
	domain "gymdesk/internal/domain/trainer"
)

// TrainerRow is one line of the trainer list page.
type TrainerRow struct {
	ID              string
	AccountID       string
	Name            string
	Email           string
	Specialty       string
	Certification   string
	YearsExperience int
	Rating          float64
	Bio             string
}

// GetTrainerListResult carries the query result.
type GetTrainerListResult struct {
	Trainers []TrainerRow
	PageInfo listutil.PageInfo
}

// GetTrainerListDeps holds dependencies for GetTrainerList.
type GetTrainerListDeps struct {
	TrainerStore TrainerStore
	AccountStore AccountStore
}

// TrainerSortColumns are the sortable columns of the trainer list.
var TrainerSortColumns = []string{"specialty", "years", "rating"}

// QueryGetTrainerList retrieves one page of trainers with display names.
// POST: PageInfo.Page is clamped; rows match the filter that Count saw
func QueryGetTrainerList(ctx context.Context, query listutil.Query, deps GetTrainerListDeps) (GetTrainerListResult, error) {
	filter := trainer.ListFilter{
		Specialty: query.Filters["specialty"],
		Search:    query.Search,
		Sort:      query.Sort,
		Dir:       query.Dir,
	}

	total, err := deps.TrainerStore.Count(ctx, filter)
	if err != nil {
		return GetTrainerListResult{}, err
	}
	pageInfo := listutil.NewPageInfo(query.Page, query.PerPage, total)

	filter.Limit = pageInfo.PerPage
	filter.Offset = pageInfo.Offset()
	trainers, err := deps.TrainerStore.List(ctx, filter)
	if err != nil {
		return GetTrainerListResult{}, err
	}

	rows := make([]TrainerRow, 0, len(trainers))
	for _, t := range trainers {
		rows = append(rows, trainerRow(ctx, t, deps.AccountStore))
	}

	return GetTrainerListResult{Trainers: rows, PageInfo: pageInfo}, nil
}

// QueryGetTrainerDetail loads one trainer with the linked account name.
func QueryGetTrainerDetail(ctx context.Context, trainerID string, deps GetTrainerListDeps) (TrainerRow, error) {
	t, err := deps.TrainerStore.GetByID(ctx, trainerID)
	if err != nil {
		return TrainerRow{}, err
	}
	return trainerRow(ctx, t, deps.AccountStore), nil
}

func trainerRow(ctx context.Context, t domain.Trainer, accounts AccountStore) TrainerRow {
	row := TrainerRow{
		ID:              t.ID,
		AccountID:       t.AccountID,
		Specialty:       t.Specialty,
		Certification:   t.Certification,
		YearsExperience: t.YearsExp,
		Rating:          t.Rating,
		Bio:             t.Bio,
	}
	if acct, err := accounts.GetByID(ctx, t.AccountID); err == nil {
		row.Name = acct.FullName
		row.Email = acct.Email
	}
	return row
}
