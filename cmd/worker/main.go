package main

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"docmind/internal/adapter/repo"
	"docmind/internal/domain"
	"docmind/internal/infra"
	"docmind/internal/providers/llm"
	"docmind/internal/sqlinline"
	"docmind/internal/storage"
)

const jobPollInterval = 2 * time.Second

var errNoJobAvailable = errors.New("no job available")

type jobWorker struct {
	ctx       context.Context
	runner    *infra.SQLRunner
	logger    infra.Logger
	llm       *llm.Client
	users     domain.UserRepository
	documents domain.DocumentRepository
	store     *storage.FileStore
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)

	store, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	client, err := llm.NewClient(llm.Options{
		APIKey:    cfg.LLMAPIKey,
		BaseURL:   cfg.LLMBaseURL,
		Model:     cfg.LLMModel,
		ProModel:  cfg.LLMProModel,
		MaxTokens: cfg.LLMMaxTokens,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure llm client")
	}

	worker := &jobWorker{
		ctx:       ctx,
		runner:    runner,
		logger:    logger,
		llm:       client,
		users:     repo.NewUserRepository(runner),
		documents: repo.NewDocumentRepository(runner),
		store:     store,
	}

	if err := worker.Run(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

func (w *jobWorker) Run() error {
	w.logger.Info().Msg("worker: started")
	for {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		job, err := w.claimJob()
		if err != nil {
			if errors.Is(err, errNoJobAvailable) {
				time.Sleep(jobPollInterval)
				continue
			}
			w.logger.Error().Err(err).Msg("worker: failed to claim job")
			time.Sleep(jobPollInterval)
			continue
		}

		w.handleJob(job)
	}
}

func (w *jobWorker) claimJob() (domain.AnalysisJob, error) {
	var job domain.AnalysisJob
	row := w.runner.QueryRow(w.ctx, sqlinline.QClaimAnalysisJob)
	var jobType string
	err := row.Scan(&job.ID, &job.DocumentID, &job.UserID, &jobType)
	if errors.Is(err, pgx.ErrNoRows) {
		return job, errNoJobAvailable
	}
	if err != nil {
		return job, err
	}
	job.Type = domain.AnalysisType(jobType)
	job.Status = domain.JobRunning
	return job, nil
}

func (w *jobWorker) handleJob(job domain.AnalysisJob) {
	w.logger.Info().Str("job_id", job.ID).Str("type", string(job.Type)).Msg("worker: picked job")

	status := domain.JobFailed
	errMsg := ""
	if err := w.processAnalysis(job); err != nil {
		w.logger.Error().Err(err).Str("job_id", job.ID).Msg("worker: job failed")
		errMsg = err.Error()
	} else {
		status = domain.JobSucceeded
	}

	if _, err := w.runner.Exec(w.ctx, sqlinline.QFinishAnalysisJob, job.ID, string(status), errMsg); err != nil {
		w.logger.Error().Err(err).Str("job_id", job.ID).Msg("worker: update status failed")
	}
}

func (w *jobWorker) processAnalysis(job domain.AnalysisJob) error {
	doc, err := w.documents.GetByID(w.ctx, job.DocumentID)
	if err != nil {
		return err
	}

	llmReq := llm.AnalysisRequest{Type: job.Type, Content: doc.Content}
	if doc.IsImage && doc.StorageKey != "" {
		if raw, err := w.store.Read(w.ctx, doc.StorageKey); err == nil {
			llmReq.ImageBase64 = base64.StdEncoding.EncodeToString(raw)
		}
	}
	result, err := w.llm.Analyse(w.ctx, llmReq)
	if err != nil {
		return err
	}

	analysis := &domain.Analysis{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		Type:       job.Type,
		Result:     result,
	}
	if err := w.documents.SaveAnalysis(w.ctx, analysis); err != nil {
		return err
	}
	if err := w.users.IncrementAnalysesUsed(w.ctx, job.UserID); err != nil {
		w.logger.Error().Err(err).Str("user_id", job.UserID).Msg("worker: increment analyses used")
	}
	return nil
}
