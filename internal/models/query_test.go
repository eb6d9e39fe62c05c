package models

import "testing"

func TestListQueryValues(t *testing.T) {
	q := ListQuery{
		Filter: FilterCriteria{Name: "cof", Role: "admin"},
		Sort:   SortCriteria{By: "email", Order: SortDesc},
	}
	v := q.Values()
	if v.Get("name") != "cof" || v.Get("role") != "admin" {
		t.Errorf("filter params = %v", v)
	}
	if v.Has("email") || v.Has("address") {
		t.Errorf("empty filter fields encoded: %v", v)
	}
	if v.Get("sort_by") != "email" || v.Get("order") != "desc" {
		t.Errorf("sort params = %v", v)
	}
}

func TestListQueryValuesDefaults(t *testing.T) {
	if got := (ListQuery{}).Values(); len(got) != 0 {
		t.Errorf("zero query encoded params: %v", got)
	}

	v := ListQuery{Sort: SortCriteria{By: "name"}}.Values()
	if v.Get("order") != "asc" {
		t.Errorf("default order = %q, want asc", v.Get("order"))
	}
}
