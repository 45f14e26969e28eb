package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"statistic_analyzer/internal/sample"
)

const (
	analyzeJobClass = "AnalyzeSample"
	popTimeout      = 5 * time.Second
)

type serviceConfig struct {
	redisURL string
	queue    string
}

// sidekiqJob is the JSON envelope pushed by Sidekiq clients. AnalyzeSample
// jobs carry the sample path and the interval count as arguments.
type sidekiqJob struct {
	Class string            `json:"class"`
	Args  []json.RawMessage `json:"args"`
	Queue string            `json:"queue"`
	JID   string            `json:"jid"`
}

type analyzeJob struct {
	path      string
	intervals int
}

// runService consumes analysis jobs until ctx is cancelled. Lost connections
// are retried with exponential backoff.
func runService(ctx context.Context, cfg serviceConfig) error {
	opts, err := parseRedisURL(cfg.redisURL)
	if err != nil {
		return err
	}
	queue := "queue:" + cfg.queue
	log.Info().Str("addr", opts.Addr).Int("db", opts.DB).Str("queue", queue).Msg("service started")

	client := newQueueClient(opts)
	defer client.Close()

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0
	err = backoff.RetryNotify(
		func() error {
			err := client.Ping(ctx).Err()
			if err == nil {
				b.Reset()
				err = consumeQueue(ctx, client, queue)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		},
		backoff.WithContext(b, ctx),
		func(err error, next time.Duration) {
			log.Error().Err(err).Dur("next", next).Msg("redis connection lost; retrying")
		},
	)
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("service stopped")
		return nil
	}
	return err
}

// consumeQueue pops and processes jobs one at a time until ctx ends or the
// client fails.
func consumeQueue(ctx context.Context, client queueClient, queue string) error {
	for ctx.Err() == nil {
		payload, err := popJob(ctx, client, queue, popTimeout)
		if err != nil {
			return err
		}
		if payload == "" {
			continue
		}
		job, err := decodeJob([]byte(payload))
		if err != nil {
			log.Warn().Err(err).Str("payload", payload).Msg("skipping job")
			continue
		}
		if _, err := processJob(job); err != nil {
			log.Error().Err(err).Str("path", job.path).Msg("process error")
		}
	}
	return ctx.Err()
}

func processJob(job analyzeJob) (Report, error) {
	values := sample.Read(job.path)
	report, err := processSample(values, analyzeConfig{
		file:      job.path,
		source:    sourceFile,
		intervals: job.intervals,
	})
	if err != nil {
		return report, fmt.Errorf("analyze %s: %w", job.path, err)
	}
	return report, nil
}
