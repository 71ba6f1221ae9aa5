package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/balenascatcher/bilge-simulasyon/internal/config"
	"github.com/balenascatcher/bilge-simulasyon/internal/dataset"
	"github.com/balenascatcher/bilge-simulasyon/internal/logger"
	"github.com/balenascatcher/bilge-simulasyon/internal/model"
	"github.com/balenascatcher/bilge-simulasyon/internal/queue"
	"github.com/balenascatcher/bilge-simulasyon/internal/storage"
)

// PublishWorker consumes publish jobs, checks the staged workbook and
// promotes it to the live key students load at login. A workbook that
// fails the structural check never reaches the live key.
type PublishWorker struct {
	cfg        *config.Config
	storage    storage.Storage
	consumer   *queue.Consumer
	workerPool *WorkerPool
	log        zerolog.Logger
}

func NewPublishWorker(
	cfg *config.Config,
	store storage.Storage,
	redisClient *queue.RedisClient,
) *PublishWorker {
	return &PublishWorker{
		cfg:        cfg,
		storage:    store,
		consumer:   queue.NewConsumer(redisClient, cfg),
		workerPool: NewWorkerPool(cfg.Workers.Publish.Count),
		log:        logger.Get(),
	}
}

func (w *PublishWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting publish worker")

	w.workerPool.Start(ctx)

	return w.consumer.ConsumePublishQueue(ctx, w.handleMessage)
}

func (w *PublishWorker) Stop() {
	w.log.Info().Msg("Stopping publish worker")
	w.workerPool.Stop()
}

func (w *PublishWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.PublishJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal publish job")
		return err
	}

	w.log.Info().
		Str("staging_key", job.StagingKey).
		Str("requested_by", job.RequestedBy).
		Msg("Processing publish job")

	w.workerPool.Submit(func(ctx context.Context) error {
		return w.ProcessPublishJob(ctx, job)
	})

	return nil
}

// ProcessPublishJob downloads the staged workbook, verifies it parses
// as a valid assignment dataset and copies it to the live key. The
// upload is retried with backoff; the check is not, a broken workbook
// stays broken.
func (w *PublishWorker) ProcessPublishJob(ctx context.Context, job model.PublishJob) error {
	reader, err := w.storage.Download(ctx, job.StagingKey)
	if err != nil {
		return fmt.Errorf("failed to download staged workbook %s: %w", job.StagingKey, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read staged workbook %s: %w", job.StagingKey, err)
	}

	if err := dataset.CheckAll(data); err != nil {
		w.log.Error().Err(err).Str("staging_key", job.StagingKey).Msg("Staged workbook rejected")
		return fmt.Errorf("staged workbook %s rejected: %w", job.StagingKey, err)
	}

	var lastErr error
	for attempt := 0; attempt < w.cfg.Workers.Publish.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.cfg.Workers.Publish.RetryDelay * time.Duration(attempt+1)):
				// Exponential backoff
			}
		}

		if err := w.storage.Upload(ctx, w.cfg.Dataset.LiveKey, bytes.NewReader(data)); err != nil {
			lastErr = err
			w.log.Warn().Err(err).Int("attempt", attempt+1).Msg("Live upload failed, retrying")
			continue
		}

		w.log.Info().
			Str("staging_key", job.StagingKey).
			Str("live_key", w.cfg.Dataset.LiveKey).
			Msg("Workbook published")
		return nil
	}

	return fmt.Errorf("max retries exhausted publishing %s: %w", job.StagingKey, lastErr)
}
