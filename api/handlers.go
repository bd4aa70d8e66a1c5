package api

import (
	"fmt"
	"maps"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spetersoncode/finsight/document"
	"github.com/spetersoncode/finsight/flow"
	"github.com/spetersoncode/finsight/history"
	"github.com/spetersoncode/finsight/ingest"
)

// QARequest is the body of POST /api/qa.
type QARequest struct {
	Question string `json:"question" binding:"required"`
}

// SummaryRequest is the body of POST /api/summary.
type SummaryRequest struct {
	SummaryType string `json:"summary_type" binding:"omitempty,oneof=comprehensive brief executive"`
}

// MCQRequest is the body of POST /api/mcq.
type MCQRequest struct {
	NumQuestions int    `json:"num_questions" binding:"omitempty,min=1,max=10"`
	Difficulty   string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

func (s *Server) handleQA(c *gin.Context) {
	var req QARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	run, state, err := s.deps.QA.Ask(c.Request.Context(), req.Question)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	if success(run.Output) {
		s.record(history.TypeQA, map[string]any{
			"question":   req.Question,
			"answer":     state.Answer,
			"sources":    state.Sources,
			"confidence": state.Confidence,
			"keywords":   state.Keywords,
		})
	}
	s.respond(c, run)
}

func (s *Server) handleSummary(c *gin.Context) {
	var req SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	run, state, err := s.deps.Summary.Summarize(c.Request.Context(), s.deps.Store.Documents(), req.SummaryType)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	if success(run.Output) {
		s.record(history.TypeSummary, map[string]any{
			"summary_type": state.SummaryType,
			"summary":      state.SummaryText,
			"metadata": map[string]any{
				"num_documents": state.NumDocuments,
				"word_count":    state.WordCount,
			},
		})
	}
	s.respond(c, run)
}

func (s *Server) handleMCQ(c *gin.Context) {
	var req MCQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	run, state, err := s.deps.MCQ.Generate(c.Request.Context(), s.deps.Store.Documents(), req.NumQuestions, req.Difficulty)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	if success(run.Output) {
		s.record(history.TypeMCQ, map[string]any{
			"difficulty":    state.Difficulty,
			"num_questions": len(state.Questions),
			"questions":     state.Questions,
		})
	}
	s.respond(c, run)
}

// respond writes the run output. Pipeline failures are reported in the
// payload's success flag with status 200.
func (s *Server) respond(c *gin.Context, run *flow.Run) {
	out := maps.Clone(run.Output)
	if out == nil {
		out = flow.Payload{}
	}
	out["run_id"] = run.ID
	c.JSON(http.StatusOK, out)
}

func (s *Server) record(typ string, fields map[string]any) {
	if s.deps.History == nil {
		return
	}
	if _, err := s.deps.History.Append(typ, fields); err != nil {
		s.logger.Error("failed to record history", "type", typ, "error", err)
	}
}

func success(p flow.Payload) bool {
	ok, _ := p["success"].(bool)
	return ok
}

type uploadResult struct {
	Name   string `json:"name"`
	Chunks int    `json:"chunks"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) uploadDocuments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "expected multipart form with files")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		errorJSON(c, http.StatusBadRequest, "no files uploaded")
		return
	}
	if err := os.MkdirAll(s.deps.UploadDir, 0o750); err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}

	results := make([]uploadResult, 0, len(files))
	var all []document.Document
	for _, fh := range files {
		name := filepath.Base(fh.Filename)
		res := uploadResult{Name: name}
		if !ingest.Supported(name) {
			res.Error = fmt.Sprintf("%s: %s", ingest.ErrUnsupportedType, strings.ToLower(filepath.Ext(name)))
			results = append(results, res)
			continue
		}

		dst := filepath.Join(s.deps.UploadDir, name)
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		docs, err := s.deps.Loader.LoadFile(dst)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		res.Chunks = len(docs)
		all = append(all, docs...)
		results = append(results, res)
	}

	if len(all) > 0 {
		if err := s.deps.Store.Add(c.Request.Context(), all); err != nil {
			errorJSON(c, http.StatusBadGateway, err.Error())
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      len(all) > 0,
		"files":        results,
		"total_chunks": len(all),
		"documents":    s.deps.Store.Len(),
	})
}

func (s *Server) listDocuments(c *gin.Context) {
	docs := s.deps.Store.Documents()
	c.JSON(http.StatusOK, gin.H{
		"count":   len(docs),
		"sources": document.Sources(docs),
	})
}

func (s *Server) clearDocuments(c *gin.Context) {
	if err := s.deps.Store.Clear(); err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) listHistory(c *gin.Context) {
	if s.deps.History == nil {
		c.JSON(http.StatusOK, gin.H{"total": 0, "entries": []history.Entry{}})
		return
	}
	entries := s.deps.History.List(c.QueryArray("type")...)
	c.JSON(http.StatusOK, gin.H{"total": len(entries), "entries": entries})
}

func (s *Server) clearHistory(c *gin.Context) {
	if s.deps.History != nil {
		if err := s.deps.History.Clear(); err != nil {
			errorJSON(c, http.StatusInternalServerError, err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
