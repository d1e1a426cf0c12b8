// Package stubapi is an in-memory implementation of the catalog REST API used
// for local development and as the backend of end-to-end tests.
package stubapi

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/five82/marquee/internal/catalog"
)

const (
	defaultEmail    = "admin@marquee.local"
	defaultPassword = "marquee"
	tokenTTL        = 24 * time.Hour
)

// Server serves the catalog API.
type Server struct {
	engine *gin.Engine
	secret []byte
	store  *store

	operator     catalog.User
	password     string // plain text, cleared once hashed
	passwordHash []byte
	omitUser     bool
	tokenTTL     time.Duration
	accessLog    io.Writer
	seedFixtures bool
}

// Option customises a Server.
type Option func(*Server)

// WithOperator sets the single account allowed to log in.
func WithOperator(email, password, name string) Option {
	return func(s *Server) {
		s.operator.Email = email
		s.operator.Name = name
		s.password = password
	}
}

// WithoutLoginUser makes the login response carry only the token, so clients
// have to look the profile up on /users/me.
func WithoutLoginUser() Option {
	return func(s *Server) { s.omitUser = true }
}

// WithTokenTTL overrides the lifetime of issued tokens.
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

// WithAccessLog writes one line per request to w.
func WithAccessLog(w io.Writer) Option {
	return func(s *Server) { s.accessLog = w }
}

// WithFixtures seeds a few categories and series.
func WithFixtures() Option {
	return func(s *Server) { s.seedFixtures = true }
}

// New builds a Server signing tokens with secret.
func New(secret string, opts ...Option) *Server {
	s := &Server{
		secret:   []byte(secret),
		store:    newStore(),
		operator: catalog.User{ID: "1", Name: "Admin", Email: defaultEmail},
		password: defaultPassword,
		tokenTTL: tokenTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("WARN: stubapi: operator password rejected, logins will fail: %v", err)
	}
	s.passwordHash = hash
	s.password = ""
	if s.seedFixtures {
		seed(s.store)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestID())
	if s.accessLog != nil {
		engine.Use(gin.LoggerWithWriter(s.accessLog))
	}
	s.engine = engine
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) routes() {
	v1 := s.engine.Group("/api/v1")
	v1.POST("/login", s.login)

	auth := v1.Group("/")
	auth.Use(s.requireToken())
	auth.GET("/users/me", s.me)

	auth.GET("/series", s.listSeries)
	auth.GET("/series/pageable", s.pageSeries)
	auth.GET("/series/:id", s.getSeries)
	auth.POST("/series", s.createSeries)
	auth.PUT("/series/:id", s.replaceSeries)
	auth.PATCH("/series/:id", s.patchSeries)
	auth.DELETE("/series/:id", s.deleteSeries)

	auth.GET("/categories", s.listCategories)
	auth.GET("/categories/:id", s.getCategory)
	auth.POST("/categories", s.createCategory)
	auth.PUT("/categories/:id", s.updateCategory)
	auth.DELETE("/categories/:id", s.deleteCategory)

	auth.POST("/episodes", s.createEpisode)
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *Server) checkCredentials(creds catalog.Credentials) bool {
	if !strings.EqualFold(strings.TrimSpace(creds.Email), s.operator.Email) || s.passwordHash == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.passwordHash, []byte(creds.Password)) == nil
}

func (s *Server) issue(now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: s.operator.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   string(s.operator.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	})
	return token.SignedString(s.secret)
}

func (s *Server) verify(raw string) (*claims, error) {
	token, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return c, nil
}

func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw := strings.TrimPrefix(header, "Bearer ")
		if header == "" || raw == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header missing"})
			return
		}
		tok, err := s.verify(strings.TrimSpace(raw))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("email", tok.Email)
		c.Next()
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func seed(st *store) {
	toku := st.createCategory(catalog.CategoryInput{Name: "Tokusatsu"})
	anime := st.createCategory(catalog.CategoryInput{Name: "Anime"})
	fixtures := []catalog.SeriesInput{
		{Name: "Jaspion", Year: 1985, CategoryID: toku.ID, Plot: "A galactic ranger hunts the prophet of the Messiah."},
		{Name: "Changeman", Year: 1985, CategoryID: toku.ID, Plot: "Five defenders fight the Star Conquest Empire."},
		{Name: "Jiraiya", Year: 1988, CategoryID: toku.ID, Plot: "A ninja guards the Pako relic."},
		{Name: "Cavaleiros do Zodiaco", Year: 1986, CategoryID: anime.ID, Plot: "Bronze saints protect Athena."},
		{Name: "Yu Yu Hakusho", Year: 1992, CategoryID: anime.ID, Plot: "A delinquent becomes a spirit detective."},
	}
	for i, in := range fixtures {
		slug := strings.ToLower(strings.ReplaceAll(in.Name, " ", "-"))
		in.Image = "https://img.marquee.local/" + slug + ".jpg"
		in.BigImage = "https://img.marquee.local/" + slug + "-big.jpg"
		in.OpeningVideo = fmt.Sprintf("https://video.marquee.local/opening/%d", i+1)
		_, _ = st.createSeries(in)
	}
}
