package stationquery

import (
	"net/url"
	"reflect"
	"testing"
)

func TestComposeEmptyParamsMatchesAll(t *testing.T) {
	filter := Compose(Params{}, "user-1")
	if len(filter) != 0 {
		t.Fatalf("expected empty filter, got %#v", filter)
	}
}

func TestComposeOrderAndTrimming(t *testing.T) {
	params := Params{
		Search:        "  hub ",
		Status:        " Active ",
		PowerOutput:   "150",
		ConnectorType: " CCS",
		Latitude:      "23.3",
		Longitude:     "77.4",
		GetByUserID:   "true",
	}

	got := Compose(params, "user-1")
	want := Filter{
		NameContains{Substring: "hub"},
		StatusEquals{Status: "Active"},
		PowerEquals{KW: 150},
		ConnectorEquals{Connector: "CCS"},
		BoxAround(23.3, 77.4),
		OwnerEquals{UserID: "user-1"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected filter\n got: %#v\nwant: %#v", got, want)
	}
}

func TestComposeBlankSearchIsOmitted(t *testing.T) {
	blank := Compose(Params{Search: "   "}, "u")
	omitted := Compose(Params{}, "u")
	if !reflect.DeepEqual(blank, omitted) {
		t.Fatalf("blank search should equal omitted search: %#v vs %#v", blank, omitted)
	}
}

func TestComposePowerOutput(t *testing.T) {
	cases := []struct {
		raw  string
		want Filter
	}{
		{raw: "0", want: Filter{PowerEquals{KW: 0}}},
		{raw: "22.5", want: Filter{PowerEquals{KW: 22.5}}},
		{raw: "abc", want: Filter{}},
		{raw: "NaN", want: Filter{}},
		{raw: "Inf", want: Filter{}},
		{raw: "", want: Filter{}},
		{raw: "150kW", want: Filter{PowerEquals{KW: 150}}},
		{raw: " 22.5 kW", want: Filter{PowerEquals{KW: 22.5}}},
		{raw: "1e2x", want: Filter{PowerEquals{KW: 100}}},
		{raw: "7e", want: Filter{PowerEquals{KW: 7}}},
		{raw: ".5", want: Filter{PowerEquals{KW: 0.5}}},
		{raw: "50.", want: Filter{PowerEquals{KW: 50}}},
		{raw: "kW150", want: Filter{}},
		{raw: ".", want: Filter{}},
		{raw: "1e999", want: Filter{}},
	}
	for _, tc := range cases {
		got := Compose(Params{PowerOutput: tc.raw}, "u")
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("powerOutput=%q: got %#v want %#v", tc.raw, got, tc.want)
		}
	}
}

func TestComposeLocationNeedsBothAxes(t *testing.T) {
	if got := Compose(Params{Latitude: "23.3"}, "u"); len(got) != 0 {
		t.Fatalf("latitude alone should not add a predicate: %#v", got)
	}
	if got := Compose(Params{Latitude: "23.3", Longitude: "east"}, "u"); len(got) != 0 {
		t.Fatalf("unparseable longitude should not add a predicate: %#v", got)
	}

	if got := Compose(Params{Latitude: "23.3N", Longitude: "77.4E"}, "u"); !reflect.DeepEqual(got, Filter{BoxAround(23.3, 77.4)}) {
		t.Fatalf("trailing text after coordinates should be ignored: %#v", got)
	}

	got := Compose(Params{Latitude: "0", Longitude: "10"}, "u")
	if len(got) != 1 {
		t.Fatalf("expected one predicate, got %#v", got)
	}
	box, ok := got[0].(BoundingBox)
	if !ok {
		t.Fatalf("expected bounding box, got %T", got[0])
	}
	if box.MinLatitude != -BoxHalfSpan || box.MaxLatitude != BoxHalfSpan {
		t.Fatalf("unexpected latitude bounds %#v", box)
	}
	if box.MinLongitude != 10-BoxHalfSpan || box.MaxLongitude != 10+BoxHalfSpan {
		t.Fatalf("unexpected longitude bounds %#v", box)
	}
}

func TestComposeOwnerFlagIsExact(t *testing.T) {
	for _, raw := range []string{"", "false", "TRUE", "1", " true"} {
		if got := Compose(Params{GetByUserID: raw}, "u"); len(got) != 0 {
			t.Fatalf("getByUserId=%q should not restrict owner: %#v", raw, got)
		}
	}
}

func TestParamsFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("search", "mall")
	q.Set("getByUserId", "true")
	q.Set("limit", "5")

	p := ParamsFromQuery(q)
	if p.Search != "mall" || p.GetByUserID != "true" || p.Limit != "5" {
		t.Fatalf("unexpected params %#v", p)
	}
}
