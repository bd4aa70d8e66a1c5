package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spetersoncode/finsight/client"
	"github.com/spetersoncode/finsight/config"
	"github.com/spetersoncode/finsight/crew"
	"github.com/spetersoncode/finsight/flow"
	"github.com/spetersoncode/finsight/history"
	"github.com/spetersoncode/finsight/ingest"
	"github.com/spetersoncode/finsight/keywords"
	"github.com/spetersoncode/finsight/mcp"
	"github.com/spetersoncode/finsight/pipeline"
	"github.com/spetersoncode/finsight/quiz"
	"github.com/spetersoncode/finsight/tool"
	"github.com/spetersoncode/finsight/vectorstore"
)

// app holds the wired collaborators for one process.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *vectorstore.Store
	history *history.Store
	loader  *ingest.Loader
	qa      *pipeline.QA
	summary *pipeline.Summary
	mcq     *pipeline.MCQ

	closers []func() error
}

type appOptions struct {
	// localParser structures quiz questions without a model round trip.
	localParser bool
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts appOptions) (*app, error) {
	a := &app{
		cfg:    cfg,
		logger: logger,
		loader: ingest.NewLoader(
			ingest.WithChunking(cfg.ChunkSize, cfg.ChunkOverlap),
			ingest.WithMaxSizeMB(cfg.MaxUploadSizeMB),
			ingest.WithLogger(logger),
		),
	}
	ready := false
	defer func() {
		if !ready {
			_ = a.Close()
		}
	}()

	cl, err := client.New(ctx, cfg.ClientConfig(logger))
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	a.store, err = vectorstore.Open(vectorstore.DefaultConfig(cfg.VectorStorePath), cl, vectorstore.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, a.store.Close)

	a.history, err = history.Open(cfg.LogsDir, history.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	defs, err := crew.LoadDefinitions(cfg.CrewsFile)
	if err != nil {
		return nil, err
	}
	newCrew := func(name string, opts ...crew.Option) (*crew.Crew, error) {
		def, err := defs.Get(name)
		if err != nil {
			return nil, err
		}
		return crew.New(def, cl, append(opts, crew.WithLogger(logger))...), nil
	}

	flowOpts := []flow.Option{
		flow.WithLogger(logger),
		flow.StepTimeout(cfg.StepTimeout),
		flow.WithMetrics(flow.NewMetrics(prometheus.DefaultRegisterer)),
	}

	qaCrew, err := newCrew(crew.QA)
	if err != nil {
		return nil, err
	}
	keywordCrew, err := newCrew(crew.Keywords, crew.WithTools(a.keywordTools(ctx)))
	if err != nil {
		return nil, err
	}
	answerer := pipeline.NewRetrievalAnswerer(a.store, qaCrew, pipeline.WithAnswererLogger(logger))
	a.qa = pipeline.NewQA(answerer, keywordCrew, flowOpts...)

	summaryCrew, err := newCrew(crew.Summary)
	if err != nil {
		return nil, err
	}
	a.summary = pipeline.NewSummary(summaryCrew, flowOpts...)

	mcqCrew, err := newCrew(crew.MCQ)
	if err != nil {
		return nil, err
	}
	var parser pipeline.Generator = pipeline.LocalParser
	if !opts.localParser {
		parser, err = newCrew(crew.MCQParser, crew.WithTools(tool.NewRegistry().Add(quiz.Tool())))
		if err != nil {
			return nil, err
		}
	}
	a.mcq = pipeline.NewMCQ(mcqCrew, parser, flowOpts...)

	ready = true
	return a, nil
}

// keywordTools connects to the keyword server through the relay. When the
// relay is unreachable the keyword tool runs in process.
func (a *app) keywordTools(ctx context.Context) tool.Executor {
	remote, err := mcp.NewRemoteRegistryHTTP(ctx, a.cfg.ProxyURL())
	if err != nil {
		a.logger.Warn("keyword server unavailable, using local tool", "url", a.cfg.ProxyURL(), "error", err)
		return tool.NewRegistry().Add(keywords.Tool())
	}
	a.closers = append(a.closers, remote.Close)
	a.logger.Debug("connected to keyword server", "url", a.cfg.ProxyURL(), "tools", len(remote.Tools()))
	return remote
}

// record appends a successful run to the chat history. Failures are logged.
func (a *app) record(typ string, fields map[string]any) {
	if _, err := a.history.Append(typ, fields); err != nil {
		a.logger.Error("failed to record history", "type", typ, "error", err)
	}
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
