package stationquery

import (
	"math"
	"testing"
)

func TestParsePage(t *testing.T) {
	cases := []struct {
		name      string
		page      string
		limit     string
		wantPage  int64
		wantLimit int64
	}{
		{name: "defaults", wantPage: 1, wantLimit: 20},
		{name: "explicit", page: "3", limit: "10", wantPage: 3, wantLimit: 10},
		{name: "invalid falls back", page: "x", limit: "y", wantPage: 1, wantLimit: 20},
		{name: "page floored", page: "-4", limit: "10", wantPage: 1, wantLimit: 10},
		{name: "page zero floored", page: "0", wantPage: 1, wantLimit: 20},
		{name: "limit clamped high", limit: "500", wantPage: 1, wantLimit: 100},
		{name: "limit clamped low", limit: "-3", wantPage: 1, wantLimit: 1},
		{name: "zero limit takes default", limit: "0", wantPage: 1, wantLimit: 20},
		{name: "fraction truncated", page: "2.5", limit: "50.5", wantPage: 2, wantLimit: 50},
		{name: "trailing text ignored", page: " 3rd", limit: "10items", wantPage: 3, wantLimit: 10},
		{name: "hex prefix", page: "0x10", wantPage: 16, wantLimit: 20},
		{name: "bare hex prefix is invalid", limit: "0x", wantPage: 1, wantLimit: 20},
		{name: "leading text is invalid", page: "p2", limit: "~5", wantPage: 1, wantLimit: 20},
		{name: "overflow saturates", page: "99999999999999999999", limit: "99999999999999999999", wantPage: math.MaxInt64, wantLimit: 100},
		{name: "no page ceiling", page: "100000", wantPage: 100000, wantLimit: 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParsePage(tc.page, tc.limit)
			if got.Number != tc.wantPage || got.Limit != tc.wantLimit {
				t.Fatalf("got %+v, want page=%d limit=%d", got, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestPageSkip(t *testing.T) {
	if skip := (Page{Number: 1, Limit: 20}).Skip(); skip != 0 {
		t.Fatalf("first page skip = %d", skip)
	}
	if skip := (Page{Number: 4, Limit: 25}).Skip(); skip != 75 {
		t.Fatalf("fourth page skip = %d", skip)
	}
	if skip := (Page{Number: math.MaxInt64, Limit: 100}).Skip(); skip != math.MaxInt64 {
		t.Fatalf("expected saturated skip, got %d", skip)
	}
}

func TestNewPagination(t *testing.T) {
	cases := []struct {
		page       Page
		total      int64
		totalPages int64
		next, prev bool
	}{
		{page: Page{Number: 1, Limit: 20}, total: 0, totalPages: 0},
		{page: Page{Number: 1, Limit: 20}, total: 20, totalPages: 1},
		{page: Page{Number: 1, Limit: 20}, total: 21, totalPages: 2, next: true},
		{page: Page{Number: 2, Limit: 20}, total: 21, totalPages: 2, prev: true},
		{page: Page{Number: 5, Limit: 10}, total: 21, totalPages: 3, prev: true},
	}
	for _, tc := range cases {
		got := NewPagination(tc.page, tc.total)
		if got.TotalPages != tc.totalPages || got.HasNextPage != tc.next || got.HasPrevPage != tc.prev {
			t.Fatalf("page %+v total %d: got %+v", tc.page, tc.total, got)
		}
		if got.TotalCount != tc.total || got.Limit != tc.page.Limit || got.CurrentPage != tc.page.Number {
			t.Fatalf("metadata not echoed: %+v", got)
		}
	}
}
