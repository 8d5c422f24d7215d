package ranking

import (
	"errors"
	"testing"
	"time"

	"github.com/amishk599/crewboard/internal/model"
)

func day(d int) *time.Time {
	t := time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func ids(jobs []model.Job) []int {
	out := make([]int, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortWith(t *testing.T, r *Registry, id StrategyID, jobs []model.Job) []int {
	t.Helper()
	s, err := r.Lookup(id)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", id, err)
	}
	out := append([]model.Job(nil), jobs...)
	s.Sort(out)
	return ids(out)
}

func TestDefault_OpenApplicationsLastRegardlessOfDate(t *testing.T) {
	r := NewRegistry(PriorityTable{})
	for _, tc := range []struct {
		name   string
		dA, dB *time.Time
	}{
		{"open application older", day(1), day(5)},
		{"open application newer", day(9), day(5)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			jobs := []model.Job{
				{ID: 1, ClientID: 1, RefNo: "OR-001", StartDate: tc.dA},
				{ID: 2, ClientID: 1, RefNo: "MHC-002", StartDate: tc.dB},
			}
			got := sortWith(t, r, Default, jobs)
			if !equalIDs(got, []int{2, 1}) {
				t.Errorf("order = %v, want [2 1]", got)
			}
		})
	}
}

func TestDefault_GroupsByClientThenNewestStart(t *testing.T) {
	r := NewRegistry(PriorityTable{})
	jobs := []model.Job{
		{ID: 1, ClientID: 20, StartDate: day(1)},
		{ID: 2, ClientID: 10, StartDate: day(2)},
		{ID: 3, ClientID: 20, StartDate: day(8)},
		{ID: 4, ClientID: 10, StartDate: day(9)},
		{ID: 5, ClientID: 10, RefNo: "OR-5", StartDate: day(20)},
		{ID: 6, ClientID: 5, RefNo: "OR-6", StartDate: day(3)},
	}
	got := sortWith(t, r, Default, jobs)
	// Clients ascending, newest start first, then open applications in
	// the order the first pass left them (client 5 before client 10).
	want := []int{4, 2, 3, 1, 6, 5}
	if !equalIDs(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestDefault_MissingStartDateSortsLastWithinClient(t *testing.T) {
	r := NewRegistry(PriorityTable{})
	jobs := []model.Job{
		{ID: 1, ClientID: 1},
		{ID: 2, ClientID: 1, StartDate: day(2)},
		{ID: 3, ClientID: 1},
	}
	got := sortWith(t, r, Default, jobs)
	if !equalIDs(got, []int{2, 1, 3}) {
		t.Errorf("order = %v, want [2 1 3]", got)
	}
}

func TestPriority_RankedAlwaysBeforeUnranked(t *testing.T) {
	r := NewRegistry(NewPriorityTable(300, 100))
	jobs := []model.Job{
		{ID: 1, ClientID: 999, StartDate: day(28)},
		{ID: 2, ClientID: 100, StartDate: day(1)},
		{ID: 3, ClientID: 555},
		{ID: 4, ClientID: 300},
		{ID: 5, ClientID: 100, StartDate: day(5)},
		{ID: 6, ClientID: 555, StartDate: day(2)},
	}
	got := sortWith(t, r, PriorityRanked, jobs)
	// 300 (rank 0), then 100 newest first, then unranked newest first with
	// the undated job last.
	want := []int{4, 5, 2, 1, 6, 3}
	if !equalIDs(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestPriority_EmptyTableFallsBackToStartDate(t *testing.T) {
	r := NewRegistry(NewPriorityTable())
	jobs := []model.Job{
		{ID: 1, ClientID: 1, StartDate: day(1)},
		{ID: 2, ClientID: 2, StartDate: day(3)},
		{ID: 3, ClientID: 3},
		{ID: 4, ClientID: 4},
	}
	got := sortWith(t, r, PriorityRanked, jobs)
	if !equalIDs(got, []int{2, 1, 3, 4}) {
		t.Errorf("order = %v, want [2 1 3 4]", got)
	}
}

func TestNewest_OpenTitlesLast(t *testing.T) {
	r := NewRegistry(PriorityTable{})
	jobs := []model.Job{
		{ID: 1, Title: "Open Application - Pilots", CreatedOn: day(20)},
		{ID: 2, Title: "A320 Captain", CreatedOn: day(1)},
		{ID: 3, Title: "B737 FO", CreatedOn: day(4)},
	}
	got := sortWith(t, r, Newest, jobs)
	if !equalIDs(got, []int{3, 2, 1}) {
		t.Errorf("order = %v, want [3 2 1]", got)
	}
}

func TestStrategies_AreStable(t *testing.T) {
	r := NewRegistry(NewPriorityTable(1))
	jobs := []model.Job{
		{ID: 10, ClientID: 1},
		{ID: 11, ClientID: 1},
		{ID: 12, ClientID: 1},
	}
	for _, id := range r.IDs() {
		got := sortWith(t, r, id, jobs)
		if !equalIDs(got, []int{10, 11, 12}) {
			t.Errorf("%s: order = %v, want input order", id, got)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    StrategyID
		wantErr bool
	}{
		{"", Default, false},
		{"default", Default, false},
		{" Priority ", PriorityRanked, false},
		{"newest", Newest, false},
		{"alphabetical", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStrategy(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownStrategy) {
			t.Errorf("ParseStrategy(%q) err = %v, want ErrUnknownStrategy", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseStrategy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLookup_UnknownStrategy(t *testing.T) {
	r := NewRegistry(PriorityTable{})
	if _, err := r.Lookup("bogus"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Lookup(bogus) err = %v, want ErrUnknownStrategy", err)
	}
}

func TestPriorityTable_DuplicateKeepsFirstRank(t *testing.T) {
	table := NewPriorityTable(7, 3, 7, 9)
	if r, ok := table.Rank(7); !ok || r != 0 {
		t.Errorf("Rank(7) = %d, %v; want 0, true", r, ok)
	}
	if r, ok := table.Rank(9); !ok || r != 2 {
		t.Errorf("Rank(9) = %d, %v; want 2, true", r, ok)
	}
	if _, ok := table.Rank(4); ok {
		t.Error("Rank(4) should be unranked")
	}
	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}
	clients := table.Clients()
	if len(clients) != 3 || clients[0] != 7 || clients[1] != 3 || clients[2] != 9 {
		t.Errorf("Clients() = %v", clients)
	}
}
