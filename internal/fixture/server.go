package fixture

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"furnish/internal/catalog"
	"furnish/internal/logging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// defaultTopN matches the backend's default when top_n is omitted.
const defaultTopN = 5

// Server serves a Data catalog over the backend's HTTP contract. The
// catalog can be swapped while serving.
type Server struct {
	mu     sync.RWMutex
	data   *Data
	engine *gin.Engine
}

type recommendRequest struct {
	Query string `json:"query"`
	TopN  *int   `json:"top_n"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// NewServer builds the gin engine for data.
func NewServer(data *Data) *Server {
	if data == nil {
		data = Default()
	}
	s := &Server{data: data, engine: gin.New()}
	s.engine.Use(requestLogger(), gin.Recovery())

	s.engine.GET("/", s.root)
	s.engine.POST("/recommend", s.recommend)
	s.engine.GET("/analytics", s.analytics)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Data returns the catalog being served.
func (s *Server) Data() *Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// SetData replaces the catalog. In-flight requests finish on the old one.
func (s *Server) SetData(data *Data) {
	if data == nil {
		return
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Furniture Recommender Backend Running"})
}

func (s *Server) recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Detail: "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Detail: "query must not be empty"})
		return
	}
	topN := defaultTopN
	if req.TopN != nil {
		topN = *req.TopN
	}
	if topN < 1 {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Detail: "top_n must be at least 1"})
		return
	}

	c.JSON(http.StatusOK, catalog.RecommendationResponse{
		Query:           req.Query,
		Recommendations: s.Data().Recommend(req.Query, topN),
	})
}

func (s *Server) analytics(c *gin.Context) {
	snap, ok := s.Data().Snapshot()
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Detail: "Analytics data not available"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// requestLogger logs one line per request to the fixture category.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.WithRequestID(logging.CategoryFixture, c.GetHeader("X-Request-ID")).Info("handled request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}
