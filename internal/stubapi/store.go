package stubapi

import (
	"errors"
	"slices"
	"sync"

	"github.com/five82/marquee/internal/catalog"
)

var (
	errNotFound      = errors.New("not found")
	errCategoryInUse = errors.New("category is referenced by series")
	errNoCategory    = errors.New("category does not exist")
	errNoSeries      = errors.New("series does not exist")
)

// store is the in-memory catalog. Collections keep insertion order, which is
// the "server order" the client sees.
type store struct {
	mu         sync.RWMutex
	series     []catalog.Series
	categories []catalog.Category
	episodes   []catalog.Episode
	nextID     int64
}

func newStore() *store {
	return &store{nextID: 1}
}

func (s *store) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *store) listSeries(byYear bool) []catalog.Series {
	s.mu.RLock()
	out := slices.Clone(s.series)
	s.mu.RUnlock()
	if byYear {
		slices.SortStableFunc(out, catalog.CompareYearDesc)
	}
	if out == nil {
		out = []catalog.Series{}
	}
	return out
}

func (s *store) pageSeries(page, size int) ([]catalog.Series, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := len(s.series)
	start := page * size
	if start >= total {
		return []catalog.Series{}, total
	}
	end := min(start+size, total)
	return slices.Clone(s.series[start:end]), total
}

func (s *store) getSeries(id int64) (catalog.Series, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.series, func(x catalog.Series) bool { return x.ID == id })
	if i < 0 {
		return catalog.Series{}, errNotFound
	}
	return s.series[i], nil
}

func (s *store) createSeries(in catalog.SeriesInput) (catalog.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCategory(in.CategoryID) {
		return catalog.Series{}, errNoCategory
	}
	item := seriesFrom(s.id(), in)
	s.series = append(s.series, item)
	return item, nil
}

func (s *store) updateSeries(id int64, in catalog.SeriesInput) (catalog.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.series, func(x catalog.Series) bool { return x.ID == id })
	if i < 0 {
		return catalog.Series{}, errNotFound
	}
	if !s.hasCategory(in.CategoryID) {
		return catalog.Series{}, errNoCategory
	}
	s.series[i] = seriesFrom(id, in)
	return s.series[i], nil
}

func (s *store) deleteSeries(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.series, func(x catalog.Series) bool { return x.ID == id })
	if i < 0 {
		return errNotFound
	}
	s.series = slices.Delete(s.series, i, i+1)
	s.episodes = slices.DeleteFunc(s.episodes, func(e catalog.Episode) bool { return e.SerieID == id })
	return nil
}

func (s *store) listCategories() []catalog.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := slices.Clone(s.categories)
	if out == nil {
		out = []catalog.Category{}
	}
	return out
}

func (s *store) getCategory(id int64) (catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.categories, func(x catalog.Category) bool { return x.ID == id })
	if i < 0 {
		return catalog.Category{}, errNotFound
	}
	return s.categories[i], nil
}

func (s *store) createCategory(in catalog.CategoryInput) catalog.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := catalog.Category{ID: s.id(), Name: in.Name}
	s.categories = append(s.categories, item)
	return item
}

func (s *store) updateCategory(id int64, in catalog.CategoryInput) (catalog.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.categories, func(x catalog.Category) bool { return x.ID == id })
	if i < 0 {
		return catalog.Category{}, errNotFound
	}
	s.categories[i].Name = in.Name
	return s.categories[i], nil
}

func (s *store) deleteCategory(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.categories, func(x catalog.Category) bool { return x.ID == id })
	if i < 0 {
		return errNotFound
	}
	if slices.ContainsFunc(s.series, func(x catalog.Series) bool { return x.CategoryID == id }) {
		return errCategoryInUse
	}
	s.categories = slices.Delete(s.categories, i, i+1)
	return nil
}

func (s *store) createEpisode(in catalog.EpisodeInput) (catalog.Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.ContainsFunc(s.series, func(x catalog.Series) bool { return x.ID == in.SerieID }) {
		return catalog.Episode{}, errNoSeries
	}
	ep := catalog.Episode{ID: s.id(), Name: in.Name, Duration: in.Duration, Link: in.Link, SerieID: in.SerieID}
	s.episodes = append(s.episodes, ep)
	return ep, nil
}

func (s *store) episodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.episodes)
}

// hasCategory must be called with mu held.
func (s *store) hasCategory(id int64) bool {
	return slices.ContainsFunc(s.categories, func(x catalog.Category) bool { return x.ID == id })
}

func seriesFrom(id int64, in catalog.SeriesInput) catalog.Series {
	return catalog.Series{
		ID:           id,
		Name:         in.Name,
		Year:         in.Year,
		Image:        in.Image,
		BigImage:     in.BigImage,
		OpeningVideo: in.OpeningVideo,
		Plot:         in.Plot,
		CategoryID:   in.CategoryID,
	}
}
