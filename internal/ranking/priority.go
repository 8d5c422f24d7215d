package ranking

// PriorityTable ranks client IDs; a lower rank is shown first. The zero
// value ranks nobody.
type PriorityTable struct {
	ranks map[int]int
	order []int
}

// NewPriorityTable builds a table from client IDs in priority order. A
// repeated ID keeps its first (highest) rank.
func NewPriorityTable(clientIDs ...int) PriorityTable {
	t := PriorityTable{ranks: make(map[int]int, len(clientIDs))}
	for _, id := range clientIDs {
		if _, dup := t.ranks[id]; dup {
			continue
		}
		t.ranks[id] = len(t.order)
		t.order = append(t.order, id)
	}
	return t
}

// Rank returns the rank of clientID and whether it is listed at all.
func (t PriorityTable) Rank(clientID int) (int, bool) {
	r, ok := t.ranks[clientID]
	return r, ok
}

// Clients returns the listed client IDs in priority order.
func (t PriorityTable) Clients() []int {
	out := make([]int, len(t.order))
	copy(out, t.order)
	return out
}

// Len reports how many clients are ranked.
func (t PriorityTable) Len() int {
	return len(t.order)
}
