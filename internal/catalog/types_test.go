package catalog

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"
)

func TestFlexID_AcceptsNumbersAndStrings(t *testing.T) {
	tests := []struct {
		raw  string
		want FlexID
	}{
		{`{"id":42}`, "42"},
		{`{"id":"abc-1"}`, "abc-1"},
		{`{"id":null}`, ""},
	}
	for _, tt := range tests {
		var u User
		if err := json.Unmarshal([]byte(tt.raw), &u); err != nil {
			t.Fatalf("Unmarshal(%s) returned error: %v", tt.raw, err)
		}
		if u.ID != tt.want {
			t.Fatalf("Unmarshal(%s) id = %q, want %q", tt.raw, u.ID, tt.want)
		}
	}

	var u User
	if err := json.Unmarshal([]byte(`{"id":true}`), &u); err == nil {
		t.Fatal("Unmarshal accepted a boolean id")
	}
}

func TestUser_Label(t *testing.T) {
	if got := (User{ID: "1", Name: " Ana ", Email: "a@x"}).Label(); got != "Ana" {
		t.Fatalf("Label with name = %q", got)
	}
	if got := (User{ID: "1", Email: "a@x"}).Label(); got != "a@x" {
		t.Fatalf("Label with email = %q", got)
	}
	if got := (User{ID: "1"}).Label(); got != "1" {
		t.Fatalf("Label with id only = %q", got)
	}
}

func TestSeries_WireNames(t *testing.T) {
	raw, err := json.Marshal(Series{ID: 1, BigImage: "b", OpeningVideo: "o", CategoryID: 2}.Input())
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	for _, key := range []string{`"bigImage"`, `"opening_video"`, `"categoryId"`} {
		if !strings.Contains(string(raw), key) {
			t.Fatalf("series input json %s missing %s", raw, key)
		}
	}
	if strings.Contains(string(raw), `"id"`) {
		t.Fatalf("series input json %s should not carry an id", raw)
	}
}

func TestNormalize_TrimsURLsAndCleansText(t *testing.T) {
	upper := func(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
	in := SeriesInput{Name: " jaspion ", Plot: "plot", Image: "  https://i/x  "}.Normalize(upper)
	if in.Name != "JASPION" || in.Plot != "PLOT" {
		t.Fatalf("free text not cleaned: %+v", in)
	}
	if in.Image != "https://i/x" {
		t.Fatalf("image = %q, want trimmed only", in.Image)
	}
}

func TestCompareYearDesc(t *testing.T) {
	items := []Series{{ID: 1, Year: 1990}, {ID: 2, Year: 2005}, {ID: 3, Year: 1990}, {ID: 4, Year: 2020}}
	slices.SortStableFunc(items, CompareYearDesc)
	var ids []int64
	for _, s := range items {
		ids = append(ids, s.ID)
	}
	if !slices.Equal(ids, []int64{4, 2, 1, 3}) {
		t.Fatalf("order = %v, want [4 2 1 3]", ids)
	}
}
