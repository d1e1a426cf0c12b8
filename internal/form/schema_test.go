package form

import (
	"errors"
	"strings"
	"testing"

	"github.com/five82/marquee/internal/catalog"
)

func validSeries() catalog.SeriesInput {
	return catalog.SeriesInput{
		Name:         "Jaspion",
		Year:         1985,
		Image:        "https://img.example/jaspion.jpg",
		BigImage:     "https://img.example/jaspion-big.jpg",
		OpeningVideo: "https://video.example/jaspion",
		Plot:         "A galactic hero fights Satan Goss.",
		CategoryID:   1,
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	return verr.Fields
}

func TestValidate_Series(t *testing.T) {
	if err := Validate(validSeries()); err != nil {
		t.Fatalf("Validate(valid) = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*catalog.SeriesInput)
		field  string
	}{
		{"empty name", func(s *catalog.SeriesInput) { s.Name = "" }, "name"},
		{"long name", func(s *catalog.SeriesInput) { s.Name = strings.Repeat("x", 101) }, "name"},
		{"year too early", func(s *catalog.SeriesInput) { s.Year = 1899 }, "year"},
		{"year too late", func(s *catalog.SeriesInput) { s.Year = 2101 }, "year"},
		{"image not url", func(s *catalog.SeriesInput) { s.Image = "cover.jpg" }, "image"},
		{"missing big image", func(s *catalog.SeriesInput) { s.BigImage = "" }, "bigImage"},
		{"missing opening", func(s *catalog.SeriesInput) { s.OpeningVideo = "" }, "opening_video"},
		{"long plot", func(s *catalog.SeriesInput) { s.Plot = strings.Repeat("p", 1001) }, "plot"},
		{"no category", func(s *catalog.SeriesInput) { s.CategoryID = 0 }, "categoryId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSeries()
			tt.mutate(&in)
			fields := fieldErrors(t, Validate(in))
			if fields[tt.field] == "" {
				t.Fatalf("fields = %v, want error for %q", fields, tt.field)
			}
			if len(fields) != 1 {
				t.Fatalf("fields = %v, want only %q", fields, tt.field)
			}
		})
	}
}

func TestValidate_CategoryNameBounds(t *testing.T) {
	if err := Validate(catalog.CategoryInput{Name: "Tokusatsu"}); err != nil {
		t.Fatalf("Validate(Tokusatsu) = %v", err)
	}
	for _, name := range []string{"", "A", strings.Repeat("c", 101)} {
		fields := fieldErrors(t, Validate(catalog.CategoryInput{Name: name}))
		if fields["name"] == "" {
			t.Fatalf("name %q accepted, want rejection", name)
		}
	}
}

func TestValidate_Episode(t *testing.T) {
	ok := catalog.EpisodeInput{Name: "Pilot", Duration: "24min", Link: "https://video.example/ep1", SerieID: 2}
	if err := Validate(ok); err != nil {
		t.Fatalf("Validate(valid episode) = %v", err)
	}

	bad := catalog.EpisodeInput{Name: strings.Repeat("e", 201), Link: "not a url"}
	fields := fieldErrors(t, Validate(bad))
	for _, f := range []string{"name", "duration", "link", "serieId"} {
		if fields[f] == "" {
			t.Fatalf("fields = %v, want error for %q", fields, f)
		}
	}
}

func TestValidationError_MessageIsSorted(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"year": "bad", "name": "is required"}}
	want := "invalid input: name is required; year bad"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestClean_TrimsWithoutRewriting(t *testing.T) {
	for _, in := range []string{"  plain  ", "a<b", "Kamen Rider <Black>", "&lt;tag&gt;", "Tom & Jerry", ""} {
		once := Clean(in)
		if once != strings.TrimSpace(in) {
			t.Fatalf("Clean(%q) = %q, want only trimmed", in, once)
		}
		if twice := Clean(once); twice != once {
			t.Fatalf("Clean(Clean(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestIsPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Jaspion", true},
		{"Tom & Jerry", true},
		{"1 < 2", true},
		{"  spaced  ", true},
		{"", true},
		{"a<b", false},
		{"Kamen Rider <Black>", false},
		{"<b>Bold</b> move", false},
		{"<script>alert(1)</script>Anime", false},
		{"&lt;tag&gt;", false},
	}
	for _, tt := range tests {
		if got := IsPlainText(tt.in); got != tt.want {
			t.Errorf("IsPlainText(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidate_RejectsMarkupInFreeText(t *testing.T) {
	in := validSeries()
	in.Name = "Kamen Rider <Black>"
	in.Plot = "<b>hero</b>"
	fields := fieldErrors(t, Validate(in))
	if fields["name"] != "must not contain markup" || fields["plot"] != "must not contain markup" {
		t.Fatalf("fields = %v, want markup errors on name and plot", fields)
	}

	cat := fieldErrors(t, Validate(catalog.CategoryInput{Name: "a<b"}))
	if cat["name"] != "must not contain markup" {
		t.Fatalf("category fields = %v", cat)
	}
}
