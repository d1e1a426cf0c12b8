package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Series mirrors the payload returned by /api/v1/series.
type Series struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Year         int    `json:"year"`
	Image        string `json:"image"`
	BigImage     string `json:"bigImage"`
	OpeningVideo string `json:"opening_video"`
	Plot         string `json:"plot"`
	CategoryID   int64  `json:"categoryId"`
}

// SeriesInput is the request body for creating or updating a series.
type SeriesInput struct {
	Name         string `json:"name" validate:"required,plaintext,max=100"`
	Year         int    `json:"year" validate:"gte=1900,lte=2100"`
	Image        string `json:"image" validate:"required,url,max=1000"`
	BigImage     string `json:"bigImage" validate:"required,url,max=1000"`
	OpeningVideo string `json:"opening_video" validate:"required,url,max=1000"`
	Plot         string `json:"plot" validate:"required,plaintext,max=1000"`
	CategoryID   int64  `json:"categoryId" validate:"required,gt=0"`
}

// Input returns the editable fields of s.
func (s Series) Input() SeriesInput {
	return SeriesInput{
		Name:         s.Name,
		Year:         s.Year,
		Image:        s.Image,
		BigImage:     s.BigImage,
		OpeningVideo: s.OpeningVideo,
		Plot:         s.Plot,
		CategoryID:   s.CategoryID,
	}
}

// Normalize trims every field and runs free text through clean.
func (in SeriesInput) Normalize(clean func(string) string) SeriesInput {
	in.Name = clean(in.Name)
	in.Plot = clean(in.Plot)
	in.Image = strings.TrimSpace(in.Image)
	in.BigImage = strings.TrimSpace(in.BigImage)
	in.OpeningVideo = strings.TrimSpace(in.OpeningVideo)
	return in
}

// Category mirrors /api/v1/categories entries.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryInput is the request body for creating or updating a category.
type CategoryInput struct {
	Name string `json:"name" validate:"required,plaintext,min=2,max=100"`
}

// Input returns the editable fields of c.
func (c Category) Input() CategoryInput {
	return CategoryInput{Name: c.Name}
}

// Normalize runs the name through clean.
func (in CategoryInput) Normalize(clean func(string) string) CategoryInput {
	in.Name = clean(in.Name)
	return in
}

// Episode is an episode attached to a series.
type Episode struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Duration string `json:"duration"`
	Link     string `json:"link"`
	SerieID  int64  `json:"serieId"`
}

// EpisodeInput is the request body for /api/v1/episodes.
type EpisodeInput struct {
	Name     string `json:"name" validate:"required,plaintext,max=200"`
	Duration string `json:"duration" validate:"required,plaintext"`
	Link     string `json:"link" validate:"required,url"`
	SerieID  int64  `json:"serieId" validate:"required,gt=0"`
}

// Input returns the editable fields of e.
func (e Episode) Input() EpisodeInput {
	return EpisodeInput{Name: e.Name, Duration: e.Duration, Link: e.Link, SerieID: e.SerieID}
}

// Normalize runs the name and duration through clean and trims the link.
func (in EpisodeInput) Normalize(clean func(string) string) EpisodeInput {
	in.Name = clean(in.Name)
	in.Duration = clean(in.Duration)
	in.Link = strings.TrimSpace(in.Link)
	return in
}

// Page is the envelope returned by pageable endpoints.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
}

// Credentials are posted to /api/v1/login. The API names the password field "senha".
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

// LoginResponse mirrors the /api/v1/login payload. User may be absent.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// User is the authenticated operator profile.
type User struct {
	ID    FlexID `json:"id" toml:"id"`
	Name  string `json:"name,omitempty" toml:"name"`
	Email string `json:"email" toml:"email"`
}

// Label returns the best human-readable identifier for u.
func (u User) Label() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if email := strings.TrimSpace(u.Email); email != "" {
		return email
	}
	return string(u.ID)
}

// FlexID accepts both JSON numbers and strings; backends disagree on user ids.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*id = FlexID(n.String())
	return nil
}

// CompareYearDesc orders series newest first. Ties keep their relative order
// when used with a stable sort.
func CompareYearDesc(a, b Series) int {
	return b.Year - a.Year
}
