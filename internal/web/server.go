package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/readycatholic/readycatholic/internal/classify"
	"github.com/readycatholic/readycatholic/internal/config"
	"github.com/readycatholic/readycatholic/internal/digest"
)

// RefreshFunc regenerates the digest and its rendered page.
type RefreshFunc func(ctx context.Context) (*digest.Digest, string, error)

// Server holds the most recent generation and serves it over HTTP. Until the
// first successful refresh, content endpoints answer 503.
type Server struct {
	refresh RefreshFunc
	sources []config.Source
	logger  *slog.Logger

	mu        sync.RWMutex
	digest    *digest.Digest
	page      string
	updatedAt time.Time
}

func NewServer(refresh RefreshFunc, sources []config.Source) *Server {
	return &Server{refresh: refresh, sources: sources, logger: slog.Default()}
}

// Refresh runs the pipeline and swaps in the new digest and page.
func (s *Server) Refresh(ctx context.Context) error {
	d, page, err := s.refresh(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.digest = d
	s.page = page
	s.updatedAt = time.Now()
	s.mu.Unlock()
	return nil
}

// Router assembles the production engine with CORS.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	r.Use(cors.New(corsCfg))
	s.RegisterRoutes(r)
	return r
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/", s.getPage)
	r.GET("/healthz", s.getHealth)

	api := r.Group("/api")
	{
		api.GET("/headlines", s.getHeadlines)
		api.GET("/sources", s.getSources)
		api.POST("/refresh", s.postRefresh)
	}
}

type headlinesResponse struct {
	GeneratedAt string                                  `json:"generated_at"`
	Total       int                                     `json:"total"`
	Categories  map[classify.Category][]digest.Headline `json:"categories"`
}

type sourceResponse struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

func (s *Server) getPage(c *gin.Context) {
	s.mu.RLock()
	page := s.page
	s.mu.RUnlock()

	if page == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "digest not generated yet"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (s *Server) getHeadlines(c *gin.Context) {
	s.mu.RLock()
	d := s.digest
	updated := s.updatedAt
	s.mu.RUnlock()

	if d == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "digest not generated yet"})
		return
	}

	c.JSON(http.StatusOK, headlinesResponse{
		GeneratedAt: updated.UTC().Format(time.RFC3339),
		Total:       d.Total(),
		Categories:  d.Categories,
	})
}

func (s *Server) getSources(c *gin.Context) {
	out := make([]sourceResponse, 0, len(s.sources))
	for _, src := range s.sources {
		out = append(out, sourceResponse{Name: src.Name, URL: src.URL, Enabled: src.Enabled})
	}
	c.JSON(http.StatusOK, gin.H{"sources": out, "count": len(out)})
}

func (s *Server) getHealth(c *gin.Context) {
	s.mu.RLock()
	updated := s.updatedAt
	s.mu.RUnlock()

	resp := gin.H{"status": "ok"}
	if !updated.IsZero() {
		resp["last_refresh"] = updated.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) postRefresh(c *gin.Context) {
	if err := s.Refresh(c.Request.Context()); err != nil {
		s.logger.Error("refresh failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.mu.RLock()
	total := s.digest.Total()
	s.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{"status": "refreshed", "total": total})
}
