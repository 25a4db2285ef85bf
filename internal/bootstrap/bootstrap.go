package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/config"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/ports"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/usecase"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/infrastructure/export/xlsx"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/infrastructure/glossary"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/infrastructure/llm/ollama"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/infrastructure/queue/nats"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/infrastructure/repository/postgres"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/infrastructure/resilience"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/infrastructure/segmentation"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/infrastructure/storage/localfs"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/infrastructure/vector/qdrant"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Queue     *nats.Queue
	Documents *usecase.DocumentService
	TMImport  *usecase.ImportTMUseCase
	ProcessUC *usecase.ProcessBulkJobUseCase

	closeFn func()
}

// New wires every adapter into the document service. engineMetrics may be nil.
func New(ctx context.Context, cfg config.Config, engineMetrics *metrics.EngineMetrics) (*App, error) {
	var (
		observer      ports.TranslationObserver
		retryObserver resilience.Observer
	)
	if engineMetrics != nil {
		observer = engineMetrics
		retryObserver = engineMetrics
	}
	newExecutor := func() *resilience.Executor {
		rc := resilience.DefaultConfig()
		rc.Observer = retryObserver
		return resilience.NewExecutor(rc)
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	docRepo := postgres.NewDocumentRepository(db)
	if err := docRepo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	tmRepo := postgres.NewTMRepository(db, cfg.TMCandidateLimit)

	drafts, err := localfs.New(cfg.DraftStoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init draft storage: %w", err)
	}

	terms, err := glossary.Load(cfg.GlossaryPath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load glossary: %w", err)
	}
	slog.Info("glossary_loaded", "path", cfg.GlossaryPath, "terms", terms.Len())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: newExecutor(),
		JobTimeout:         cfg.WorkerJobTimeout,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, newExecutor())

	var (
		semantic  ports.TMSearcher
		tmWriters = []ports.TMWriter{tmRepo}
	)
	if cfg.SemanticTMEnabled {
		vectorTM := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection, ollama.NewEmbedder(ollamaClient), cfg.TMCandidateLimit,
			qdrant.WithExecutor(newExecutor()))
		semantic = vectorTM
		tmWriters = append(tmWriters, vectorTM)
	}
	tm := usecase.NewHybridTMSearcher(tmRepo, semantic, cfg.TMCandidateLimit)

	documents := usecase.NewDocumentService(usecase.DocumentServiceDeps{
		Documents: docRepo,
		Segmenter: segmentation.NewSegmenter(cfg.SegmentMaxWords),
		TM:        tm,
		Generator: ollama.NewTranslator(ollamaClient),
		Analyzer:  ollama.NewAnalyzer(ollamaClient),
		Queue:     queue,
		Exporter:  drafts,
		Review:    xlsx.NewReviewBuilder(),
		Glossary:  terms,
		Observer:  observer,
	}, usecase.EngineConfig{
		RatePerWord:     cfg.RatePerWord,
		BulkConcurrency: cfg.BulkConcurrency,
		AutosaveDelay:   cfg.AutosaveDebounce,
	})

	return &App{
		Config:    cfg,
		Queue:     queue,
		Documents: documents,
		TMImport:  usecase.NewImportTMUseCase(tmWriters...),
		ProcessUC: usecase.NewProcessBulkJobUseCase(documents),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

// Close flushes open documents before releasing connections.
func (a *App) Close(ctx context.Context) {
	if a.Documents != nil {
		if err := a.Documents.Close(ctx); err != nil {
			slog.Error("documents_flush_failed", "error", err)
		}
	}
	if a.closeFn != nil {
		a.closeFn()
	}
}
