package projections

import (
	"context"
	"strconv"
	"time"

	"gymdesk/internal/adapters/storage/member"
	"gymdesk/internal/application/listutil"
	domain "gymdesk/internal/domain/member"
	"gymdesk/internal/domain/report"
)

// MemberStore defines the member reads used by projections.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	GetByAccountID(ctx context.Context, accountID string) (domain.Member, error)
	Count(ctx context.Context, filter member.ListFilter) (int, error)
	List(ctx context.Context, filter member.ListFilter) ([]domain.Member, error)
	ListNotes(ctx context.Context, memberID string) ([]domain.Note, error)
}

// MemberRow is one line of the member list page.
type MemberRow struct {
	ID         string
	Name       string
	Age        int
	Plan       string
	Contact    string
	Email      string
	Status     string
	JoinDate   string
	MonthlyFee int // cents
}

// GetMemberListResult carries the query result.
type GetMemberListResult struct {
	Members  []MemberRow
	PageInfo listutil.PageInfo
}

// GetMemberListDeps holds dependencies for GetMemberList.
type GetMemberListDeps struct {
	MemberStore MemberStore
}

// MemberSortColumns are the sortable columns of the member list.
var MemberSortColumns = []string{"name", "email", "plan", "status", "age", "join_date"}

// QueryGetMemberList retrieves one page of members.
// PRE: query parsed by listutil (page >= 1, per_page allow-listed)
// POST: PageInfo.Page is clamped; rows match the filter that Count saw
func QueryGetMemberList(ctx context.Context, query listutil.Query, deps GetMemberListDeps) (GetMemberListResult, error) {
	filter := member.ListFilter{
		Plan:   query.Filters["plan"],
		Status: query.Filters["status"],
		Search: query.Search,
		Sort:   query.Sort,
		Dir:    query.Dir,
	}

	total, err := deps.MemberStore.Count(ctx, filter)
	if err != nil {
		return GetMemberListResult{}, err
	}
	pageInfo := listutil.NewPageInfo(query.Page, query.PerPage, total)

	filter.Limit = pageInfo.PerPage
	filter.Offset = pageInfo.Offset()
	members, err := deps.MemberStore.List(ctx, filter)
	if err != nil {
		return GetMemberListResult{}, err
	}

	rows := make([]MemberRow, 0, len(members))
	for _, m := range members {
		rows = append(rows, MemberRow{
			ID:         m.ID,
			Name:       m.Name,
			Age:        m.Age,
			Plan:       m.Plan,
			Contact:    m.Contact,
			Email:      m.Email,
			Status:     m.Status,
			JoinDate:   m.JoinDate.Format("2006-01-02"),
			MonthlyFee: m.MonthlyFee(),
		})
	}

	return GetMemberListResult{Members: rows, PageInfo: pageInfo}, nil
}

// exportLimit caps a CSV export at a size SQLite returns comfortably in
// one query.
const exportLimit = 100000

// QueryExportMembers builds the full filtered member list as a CSV-ready
// table, ignoring pagination.
// POST: Row count equals Count for the same filter; rows match the
// header width
func QueryExportMembers(ctx context.Context, query listutil.Query, now time.Time, deps GetMemberListDeps) (report.Table, string, error) {
	filter := member.ListFilter{
		Plan:   query.Filters["plan"],
		Status: query.Filters["status"],
		Search: query.Search,
		Sort:   query.Sort,
		Dir:    query.Dir,
		Limit:  exportLimit,
	}

	members, err := deps.MemberStore.List(ctx, filter)
	if err != nil {
		return report.Table{}, "", err
	}

	table := report.Table{
		Headers: []string{"Name", "Email", "Age", "Plan", "Contact", "Status", "Join date"},
	}
	for _, m := range members {
		table.Rows = append(table.Rows, []string{
			m.Name,
			m.Email,
			strconv.Itoa(m.Age),
			m.Plan,
			m.Contact,
			m.Status,
			m.JoinDate.Format("2006-01-02"),
		})
	}

	return table, report.Filename("members", now), nil
}

// MemberDetail is the admin view of one member with notes.
type MemberDetail struct {
	Member domain.Member
	Notes  []domain.Note
}

// QueryGetMemberDetail loads one member plus admin notes, newest first.
func QueryGetMemberDetail(ctx context.Context, memberID string, deps GetMemberListDeps) (MemberDetail, error) {
	m, err := deps.MemberStore.GetByID(ctx, memberID)
	if err != nil {
		return MemberDetail{}, err
	}
	notes, err := deps.MemberStore.ListNotes(ctx, memberID)
	if err != nil {
		return MemberDetail{}, err
	}
	return MemberDetail{Member: m, Notes: notes}, nil
}
