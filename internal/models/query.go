package models

import "net/url"

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// FilterCriteria maps record fields to substring matches. An empty string
// means no constraint on that field. The Role field is only meaningful for
// the admin user table; other views leave it empty.
type FilterCriteria struct {
	Name    string
	Email   string
	Address string
	Role    string
}

// SortCriteria holds the single active sort key and its direction.
type SortCriteria struct {
	By    string
	Order SortOrder
}

// ListQuery is the full query state of one list view. It is comparable, so
// change detection is plain value equality.
type ListQuery struct {
	Filter FilterCriteria
	Sort   SortCriteria
}

// Values encodes the query as URL parameters. Empty filter fields are
// omitted entirely rather than sent as empty constraints.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.Filter.Name != "" {
		v.Set("name", q.Filter.Name)
	}
	if q.Filter.Email != "" {
		v.Set("email", q.Filter.Email)
	}
	if q.Filter.Address != "" {
		v.Set("address", q.Filter.Address)
	}
	if q.Filter.Role != "" {
		v.Set("role", q.Filter.Role)
	}
	if q.Sort.By != "" {
		v.Set("sort_by", q.Sort.By)
		order := q.Sort.Order
		if order == "" {
			order = SortAsc
		}
		v.Set("order", string(order))
	}
	return v
}
