package stubapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/form"
)

const defaultPageSize = 10

func (s *Server) login(c *gin.Context) {
	var creds catalog.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed body"})
		return
	}
	if !s.checkCredentials(creds) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	token, err := s.issue(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create token"})
		return
	}
	if s.omitUser {
		c.JSON(http.StatusOK, gin.H{"token": token})
		return
	}
	c.JSON(http.StatusOK, catalog.LoginResponse{Token: token, User: &s.operator})
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, s.operator)
}

func (s *Server) listSeries(c *gin.Context) {
	byYear := strings.EqualFold(c.Query("sort"), "year,desc")
	c.JSON(http.StatusOK, s.store.listSeries(byYear))
}

func (s *Server) pageSeries(c *gin.Context) {
	page, err := queryInt(c, "page", 0)
	if err != nil || page < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a non-negative integer"})
		return
	}
	size, err := queryInt(c, "size", defaultPageSize)
	if err != nil || size < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size must be a positive integer"})
		return
	}
	content, total := s.store.pageSeries(page, size)
	c.JSON(http.StatusOK, gin.H{
		"content":       content,
		"totalElements": total,
		"totalPages":    (total + size - 1) / size,
		"number":        page,
		"size":          size,
	})
}

func (s *Server) getSeries(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := s.store.getSeries(id)
	if err != nil {
		writeStoreError(c, "series", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) createSeries(c *gin.Context) {
	var in catalog.SeriesInput
	if !bindInput(c, &in) {
		return
	}
	item, err := s.store.createSeries(in)
	if err != nil {
		writeStoreError(c, "series", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) replaceSeries(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in catalog.SeriesInput
	if !bindInput(c, &in) {
		return
	}
	s.saveSeries(c, id, in)
}

// patchSeries decodes the body over the stored fields, so omitted keys keep
// their values.
func (s *Server) patchSeries(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	current, err := s.store.getSeries(id)
	if err != nil {
		writeStoreError(c, "series", err)
		return
	}
	in := current.Input()
	if !bindInput(c, &in) {
		return
	}
	s.saveSeries(c, id, in)
}

func (s *Server) saveSeries(c *gin.Context, id int64, in catalog.SeriesInput) {
	item, err := s.store.updateSeries(id, in)
	if err != nil {
		writeStoreError(c, "series", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) deleteSeries(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.deleteSeries(id); err != nil {
		writeStoreError(c, "series", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listCategories())
}

func (s *Server) getCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := s.store.getCategory(id)
	if err != nil {
		writeStoreError(c, "category", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) createCategory(c *gin.Context) {
	var in catalog.CategoryInput
	if !bindInput(c, &in) {
		return
	}
	c.JSON(http.StatusCreated, s.store.createCategory(in))
}

func (s *Server) updateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in catalog.CategoryInput
	if !bindInput(c, &in) {
		return
	}
	item, err := s.store.updateCategory(id, in)
	if err != nil {
		writeStoreError(c, "category", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.store.deleteCategory(id); err != nil {
		writeStoreError(c, "category", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) createEpisode(c *gin.Context) {
	var in catalog.EpisodeInput
	if !bindInput(c, &in) {
		return
	}
	ep, err := s.store.createEpisode(in)
	if err != nil {
		writeStoreError(c, "episode", err)
		return
	}
	c.JSON(http.StatusCreated, ep)
}

// normalizer is satisfied by pointers to the catalog input types.
type normalizer[In any] interface {
	*In
	Normalize(clean func(string) string) In
}

// bindInput decodes the body into dst, trims free text and validates it with
// the same rules the client applies. It writes the 400 itself.
func bindInput[In any, P normalizer[In]](c *gin.Context, dst P) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed body"})
		return false
	}
	*dst = dst.Normalize(form.Clean)
	if err := form.Validate(*dst); err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func writeStoreError(c *gin.Context, kind string, err error) {
	switch {
	case errors.Is(err, errNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": kind + " not found"})
	case errors.Is(err, errCategoryInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, errNoCategory), errors.Is(err, errNoSeries):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
