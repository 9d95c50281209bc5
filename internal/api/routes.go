package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lease-risk-eval/internal/ai"
	"lease-risk-eval/internal/patterns"
	"lease-risk-eval/internal/store"
)

// Config defines server dependencies.
type Config struct {
	DBPath         string
	AllowedOrigins []string
	SilentDB       bool
	AIConfig       ai.Config
	DisableAI      bool
	MaxAttempts    int
}

// Server wires HTTP handlers with persistence and the analysis engine.
type Server struct {
	db             *store.Database
	analyzer       *ai.Analyzer
	allowedOrigins []string
	model          string
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("db path required")
	}
	db, err := store.Open(cfg.DBPath, cfg.SilentDB)
	if err != nil {
		return nil, err
	}

	var generator ai.Generator
	if cfg.DisableAI {
		logrus.Info("AI analysis disabled via configuration")
	} else if client, err := ai.NewClient(cfg.AIConfig); err == nil {
		generator = client
	} else if errors.Is(err, ai.ErrNoCredential) {
		logrus.Info("AI analysis disabled - no OpenAI credential configured, keyword fallback only")
	} else {
		return nil, fmt.Errorf("ai client: %w", err)
	}

	return &Server{
		db:             db,
		analyzer:       ai.NewAnalyzer(generator, ai.AnalyzerConfig{MaxAttempts: cfg.MaxAttempts}),
		allowedOrigins: cfg.AllowedOrigins,
		model:          cfg.AIConfig.Model,
	}, nil
}

// Close releases server resources.
func (s *Server) Close() error {
	return s.db.Close()
}

// Router configures gin routes.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)
	r.GET("/api/config", s.handleConfig)

	api := r.Group("/api")
	{
		api.GET("/patterns", s.handlePatterns)
		api.POST("/analyze", s.handleAnalyze)
		api.GET("/analyses", s.handleListAnalyses)
		api.GET("/analyses/:id", s.handleGetAnalysis)
		api.DELETE("/analyses/:id", s.handleDeleteAnalysis)
	}

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	stored, err := s.db.CountAnalyses()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ai_enabled":      s.analyzer.AIEnabled(),
		"model":           s.model,
		"max_attempts":    s.analyzer.MaxAttempts(),
		"pattern_count":   len(patterns.Catalog()),
		"stored_analyses": stored,
	})
}

func (s *Server) handlePatterns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": patterns.Catalog()})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		// The one input error the analysis core surfaces to callers.
		s.renderError(c, http.StatusBadRequest, errors.New("contract text is required"))
		return
	}
	name := strings.TrimSpace(req.DocumentName)
	if name == "" {
		name = "untitled"
	}

	result := s.analyzer.Analyze(c.Request.Context(), req.Text)

	row := store.FromResult(name, result)
	if err := s.db.SaveAnalysis(row); err != nil {
		// The analysis itself succeeded; losing history is not worth a
		// failed response.
		logrus.WithError(err).Warn("persist analysis")
	}

	logrus.WithFields(logrus.Fields{
		"document":           name,
		"method":             result.AnalysisMethod,
		"risk_score":         result.OverallRiskScore,
		"risk_level":         result.RiskLevel,
		"flagged":            len(result.FlaggedClauses),
		"processing_time_ms": result.ProcessingTimeMs,
	}).Info("contract analyzed")

	c.JSON(http.StatusOK, FromModel(*row))
}

func (s *Server) handleListAnalyses(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 0 {
		page = 0
	}
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	if pageSize <= 0 {
		pageSize = 25
	}

	rows, total, err := s.db.ListAnalyses(page*pageSize, pageSize)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	dtos := make([]AnalysisDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, FromModel(row))
	}
	c.JSON(http.StatusOK, AnalysesResponse{Items: dtos, Total: total})
}

func (s *Server) handleGetAnalysis(c *gin.Context) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	row, err := s.db.GetAnalysis(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.renderError(c, http.StatusNotFound, fmt.Errorf("analysis %d not found", id))
		} else {
			s.renderError(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.JSON(http.StatusOK, FromModel(*row))
}

func (s *Server) handleDeleteAnalysis(c *gin.Context) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	if err := s.db.DeleteAnalysis(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.renderError(c, http.StatusNotFound, fmt.Errorf("analysis %d not found", id))
		} else {
			s.renderError(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseUintParam(raw string) (uint, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(v), nil
}
