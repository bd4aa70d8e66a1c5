// Package api exposes the pipelines, document ingestion and history over
// HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spetersoncode/finsight/document"
	"github.com/spetersoncode/finsight/flow"
	"github.com/spetersoncode/finsight/history"
	"github.com/spetersoncode/finsight/ingest"
	"github.com/spetersoncode/finsight/pipeline"
)

// DocumentStore holds ingested documents.
// vectorstore.Store is the production implementation.
type DocumentStore interface {
	pipeline.DocumentLister
	Add(ctx context.Context, docs []document.Document) error
	Len() int
	Clear() error
}

// Deps are the collaborators served by the API.
type Deps struct {
	QA      *pipeline.QA
	Summary *pipeline.Summary
	MCQ     *pipeline.MCQ
	Store   DocumentStore
	Loader  *ingest.Loader
	History *history.Store

	// UploadDir receives uploaded files before ingestion.
	UploadDir string

	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer

	Logger *slog.Logger
}

// Server routes HTTP requests to the pipelines.
type Server struct {
	deps   Deps
	flows  *flow.Registry
	logger *slog.Logger
}

// New creates a Server and registers the streaming runners.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	flows := flow.NewRegistry()
	flows.Register(deps.QA.Runner())
	flows.Register(deps.Summary.Runner(deps.Store))
	flows.Register(deps.MCQ.Runner(deps.Store))

	return &Server{deps: deps, flows: flows, logger: deps.Logger}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.MaxMultipartMemory = 32 << 20

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		api.POST("/qa", s.handleQA)
		api.POST("/summary", s.handleSummary)
		api.POST("/mcq", s.handleMCQ)

		api.GET("/documents", s.listDocuments)
		api.POST("/documents", s.uploadDocuments)
		api.DELETE("/documents", s.clearDocuments)

		api.GET("/history", s.listHistory)
		api.DELETE("/history", s.clearHistory)

		api.GET("/runs", s.listFlows)
		api.POST("/runs", s.streamRunInput)
		api.GET("/runs/:pipeline/stream", s.streamRunQuery)
	}
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request completed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "documents": s.deps.Store.Len()})
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
