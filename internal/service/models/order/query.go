package order

// SortMode selects the ordering of a listing query.
type SortMode string

const (
	// SortRecent orders by creation time, newest first. Default.
	SortRecent SortMode = "recent"
	// SortName orders by customer name ascending, newest first within a name.
	SortName SortMode = "name"
)

// MaxListLimit caps how many rows a listing query may return. The admin
// view is bounded on purpose; pagination beyond the cap is not supported.
const MaxListLimit = 200

// QueryOrdersModel represents filter parameters for querying orders.
type QueryOrdersModel struct {
	Sort  SortMode `json:"sort,omitempty"`
	Limit int      `json:"limit,omitempty"`
}

// Normalize clamps the limit to [1, MaxListLimit] and defaults the sort mode.
func (q QueryOrdersModel) Normalize() QueryOrdersModel {
	if q.Sort != SortName {
		q.Sort = SortRecent
	}
	if q.Limit <= 0 || q.Limit > MaxListLimit {
		q.Limit = MaxListLimit
	}
	return q
}
