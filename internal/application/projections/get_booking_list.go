package projections

import (
	"context"
	"time"

	"gymdesk/internal/adapters/storage/booking"
	"gymdesk/internal/application/listutil"
	domain "gymdesk/internal/domain/booking"
)

// BookingStore defines the booking reads used by projections.
type BookingStore interface {
	GetByID(ctx context.Context, id string) (domain.Booking, error)
	Count(ctx context.Context, filter booking.ListFilter) (int, error)
	List(ctx context.Context, filter booking.ListFilter) ([]domain.Booking, error)
}

// BookingRow is one line of the booking list page.
type BookingRow struct {
	ID         string
	MemberID   string
	MemberName string
	ClassID    string
	ClassName  string
	Schedule   time.Time
	Status     string
	BookedAt   time.Time
	CanCancel  bool
}

// GetBookingListResult carries the query result.
type GetBookingListResult struct {
	Bookings []BookingRow
	PageInfo listutil.PageInfo
}

// GetBookingListDeps holds dependencies for GetBookingList.
type GetBookingListDeps struct {
	BookingStore BookingStore
	MemberStore  MemberStore
	ClassStore   ClassStore
	Now          func() time.Time
}

// BookingSortColumns are the sortable columns of the booking list.
var BookingSortColumns = []string{"booked_at", "status"}

// QueryGetBookingList retrieves one page of bookings with member and
// class names resolved. MemberID, when set, restricts the listing to
// that member's own bookings.
func QueryGetBookingList(ctx context.Context, memberID string, query listutil.Query, deps GetBookingListDeps) (GetBookingListResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	filter := booking.ListFilter{
		MemberID: memberID,
		ClassID:  query.Filters["class"],
		Status:   query.Filters["status"],
		Sort:     query.Sort,
		Dir:      query.Dir,
	}

	total, err := deps.BookingStore.Count(ctx, filter)
	if err != nil {
		return GetBookingListResult{}, err
	}
	pageInfo := listutil.NewPageInfo(query.Page, query.PerPage, total)

	filter.Limit = pageInfo.PerPage
	filter.Offset = pageInfo.Offset()
	bookings, err := deps.BookingStore.List(ctx, filter)
	if err != nil {
		return GetBookingListResult{}, err
	}

	memberNames := make(map[string]string)
	rows := make([]BookingRow, 0, len(bookings))
	for _, b := range bookings {
		row := BookingRow{
			ID:       b.ID,
			MemberID: b.MemberID,
			ClassID:  b.ClassID,
			Status:   b.Status,
			BookedAt: b.BookedAt,
		}
		name, ok := memberNames[b.MemberID]
		if !ok {
			if m, err := deps.MemberStore.GetByID(ctx, b.MemberID); err == nil {
				name = m.Name
			}
			memberNames[b.MemberID] = name
		}
		row.MemberName = name
		if c, err := deps.ClassStore.GetByID(ctx, b.ClassID); err == nil {
			row.ClassName = c.Name
			row.Schedule = c.Schedule
			row.CanCancel = b.IsLive() && now().Before(c.Schedule)
		}
		rows = append(rows, row)
	}

	return GetBookingListResult{Bookings: rows, PageInfo: pageInfo}, nil
}
