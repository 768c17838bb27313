package projections

import (
	"context"
	"time"

	"gymdesk/internal/adapters/storage/equipment"
	"gymdesk/internal/application/listutil"
	domain "gymdesk/internal/domain/equipment"
)

// EquipmentStore defines the equipment reads used by projections.
type EquipmentStore interface {
	GetByID(ctx context.Context, id string) (domain.Equipment, error)
	Count(ctx context.Context, filter equipment.ListFilter) (int, error)
	List(ctx context.Context, filter equipment.ListFilter) ([]domain.Equipment, error)
}

// EquipmentRow is one line of the equipment list page.
type EquipmentRow struct {
	ID              string
	Name            string
	Brand           string
	PurchaseDate    time.Time
	LastMaintenance time.Time
	NextMaintenance time.Time
	Status          string
	Location        string
	MaintenanceDue  bool
}

// GetEquipmentListResult carries the query result.
type GetEquipmentListResult struct {
	Equipment []EquipmentRow
	DueCount  int
	PageInfo  listutil.PageInfo
}

// GetEquipmentListDeps holds dependencies for GetEquipmentList.
type GetEquipmentListDeps struct {
	EquipmentStore EquipmentStore
	Now            func() time.Time
}

// EquipmentSortColumns are the sortable columns of the equipment list.
var EquipmentSortColumns = []string{"name", "brand", "status", "location", "next_maintenance"}

// QueryGetEquipmentList retrieves one page of equipment with maintenance
// flags. The "due" filter restricts results to items past their next
// maintenance date.
func QueryGetEquipmentList(ctx context.Context, query listutil.Query, deps GetEquipmentListDeps) (GetEquipmentListResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	filter := equipment.ListFilter{
		Search: query.Search,
		Sort:   query.Sort,
		Dir:    query.Dir,
	}
	if query.Filters["status"] == "due" {
		filter.DueBefore = now()
	} else {
		filter.Status = query.Filters["status"]
	}

	total, err := deps.EquipmentStore.Count(ctx, filter)
	if err != nil {
		return GetEquipmentListResult{}, err
	}
	pageInfo := listutil.NewPageInfo(query.Page, query.PerPage, total)

	filter.Limit = pageInfo.PerPage
	filter.Offset = pageInfo.Offset()
	items, err := deps.EquipmentStore.List(ctx, filter)
	if err != nil {
		return GetEquipmentListResult{}, err
	}

	dueCount, err := deps.EquipmentStore.Count(ctx, equipment.ListFilter{DueBefore: now()})
	if err != nil {
		return GetEquipmentListResult{}, err
	}

	rows := make([]EquipmentRow, 0, len(items))
	for _, e := range items {
		rows = append(rows, EquipmentRow{
			ID:              e.ID,
			Name:            e.Name,
			Brand:           e.Brand,
			PurchaseDate:    e.PurchaseDate,
			LastMaintenance: e.LastMaintenance,
			NextMaintenance: e.NextMaintenance,
			Status:          e.Status,
			Location:        e.Location,
			MaintenanceDue:  e.IsMaintenanceDue(now()),
		})
	}

	return GetEquipmentListResult{Equipment: rows, DueCount: dueCount, PageInfo: pageInfo}, nil
}
