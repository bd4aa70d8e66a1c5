package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	"github.com/gin-gonic/gin"

	"github.com/spetersoncode/finsight/agui"
	"github.com/spetersoncode/finsight/flow"
)

func (s *Server) listFlows(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"flows": s.flows.Names()})
}

// streamRunInput runs a flow from an AG-UI request body.
func (s *Server) streamRunInput(c *gin.Context) {
	var input agui.RunFlowInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	prepared, err := input.Prepare()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	s.stream(c, prepared)
}

// streamRunQuery runs the flow named in the path with input taken from the
// query string.
func (s *Server) streamRunQuery(c *gin.Context) {
	state := map[string]any{}
	for _, key := range []string{"question", "summary_type", "difficulty"} {
		if v := c.Query(key); v != "" {
			state[key] = v
		}
	}
	if v := c.Query("num_questions"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errorJSON(c, http.StatusBadRequest, "num_questions must be an integer")
			return
		}
		state["num_questions"] = n
	}

	s.stream(c, &agui.PreparedFlowInput{
		ThreadID: c.Query("thread_id"),
		RunID:    c.Query("run_id"),
		Flow:     c.Param("pipeline"),
		State:    state,
	})
}

func (s *Server) stream(c *gin.Context, in *agui.PreparedFlowInput) {
	start := time.Now()
	runner := s.flows.Get(in.Flow)
	if runner == nil {
		errorJSON(c, http.StatusNotFound, fmt.Sprintf("flow not found: %s", in.Flow))
		return
	}

	mapper := agui.NewMapper(in.ThreadID, in.RunID)
	log := s.logger.With("flow", in.Flow, "run_id", mapper.RunID(), "thread_id", mapper.ThreadID())

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	flowEvents := runner.RunStream(c.Request.Context(), in.State, flow.WithRunID(mapper.RunID()))

	var eventCount int
	var lastError error
	for ev := range mapper.MapStream(flowEvents) {
		if lastError != nil {
			// Drain so the run can finish.
			continue
		}
		eventCount++
		if err := writeSSE(c.Writer, ev); err != nil {
			log.Error("failed to write SSE event", "error", err, "event_type", ev.Type())
			lastError = err
		}
	}

	if lastError != nil {
		log.Error("stream failed", "duration_ms", time.Since(start).Milliseconds(), "events_sent", eventCount, "error", lastError)
		return
	}
	log.Info("stream completed", "duration_ms", time.Since(start).Milliseconds(), "events_sent", eventCount)
}

// writeSSE writes an AG-UI event in SSE format.
func writeSSE(w gin.ResponseWriter, ev aguievents.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type(), string(data)); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	w.Flush()
	return nil
}
