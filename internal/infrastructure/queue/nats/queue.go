package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/infrastructure/resilience"
)

const (
	workerGroup         = "bulk-translators"
	defaultDrainTimeout = 30 * time.Second
	drainPollInterval   = 50 * time.Millisecond
)

type Queue struct {
	conn       *nats.Conn
	subject    string
	executor   *resilience.Executor
	jobTimeout time.Duration
}

func New(url, subject string) (*Queue, error) {
	return NewWithOptions(url, subject, Options{})
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor

	// JobTimeout bounds one handler call. Zero leaves the handler unbounded.
	JobTimeout time.Duration
}

func NewWithOptions(url, subject string, options Options) (*Queue, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("tm-leverage-engine"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{
		conn:       conn,
		subject:    subject,
		executor:   options.ResilienceExecutor,
		jobTimeout: options.JobTimeout,
	}, nil
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *Queue) PublishBulkTranslation(ctx context.Context, job domain.BulkTranslationJob) error {
	payload, err := q.encodeBulkJob(job)
	if err != nil {
		return err
	}

	call := func(_ context.Context) error {
		if err := q.conn.Publish(q.subject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if q.executor != nil {
		err = q.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded("nats publish", err)
	}
	return nil
}

func (q *Queue) encodeBulkJob(job domain.BulkTranslationJob) ([]byte, error) {
	if job.DocumentID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "publish bulk job", errors.New("document id is required"))
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal bulk job: %w", err)
	}
	if q.conn != nil {
		if limit := q.conn.MaxPayload(); limit > 0 && int64(len(payload)) > limit {
			return nil, domain.WrapError(domain.ErrInvalidInput, "publish bulk job",
				fmt.Errorf("%w: %d bytes for %d segments", nats.ErrMaxPayload, len(payload), len(job.SegmentIDs)))
		}
	}
	return payload, nil
}

// SubscribeBulkTranslation blocks until ctx is done, then drains the
// subscription and waits for jobs already delivered to finish.
func (q *Queue) SubscribeBulkTranslation(ctx context.Context, handler func(context.Context, domain.BulkTranslationJob) error) error {
	sub, err := q.conn.QueueSubscribe(q.subject, workerGroup, func(msg *nats.Msg) {
		q.deliver(ctx, msg.Data, handler)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	q.waitDrained(sub)
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

// deliver runs one job. The handler context outlives ctx so a job delivered
// while the subscription drains is not cancelled halfway through.
func (q *Queue) deliver(ctx context.Context, data []byte, handler func(context.Context, domain.BulkTranslationJob) error) {
	job, err := decodeBulkJob(data)
	if err != nil {
		slog.Error("bulk_job_decode_failed", "error", err)
		return
	}

	handlerCtx := context.WithoutCancel(ctx)
	if q.jobTimeout > 0 {
		var cancel context.CancelFunc
		handlerCtx, cancel = context.WithTimeout(handlerCtx, q.jobTimeout)
		defer cancel()
	}
	if err := handler(handlerCtx, job); err != nil {
		slog.Error("bulk_job_failed", "document_id", job.DocumentID, "request_id", job.RequestID, "error", err)
	}
}

func (q *Queue) waitDrained(sub *nats.Subscription) {
	timeout := defaultDrainTimeout
	if q.jobTimeout > timeout {
		timeout = q.jobTimeout
	}
	deadline := time.Now().Add(timeout)
	for sub.IsValid() {
		if time.Now().After(deadline) {
			slog.Warn("nats_drain_timeout", "subject", q.subject, "timeout", timeout)
			return
		}
		time.Sleep(drainPollInterval)
	}
}

func decodeBulkJob(data []byte) (domain.BulkTranslationJob, error) {
	var job domain.BulkTranslationJob
	if err := json.Unmarshal(data, &job); err != nil {
		return domain.BulkTranslationJob{}, fmt.Errorf("unmarshal bulk job: %w", err)
	}
	if job.DocumentID == "" {
		return domain.BulkTranslationJob{}, errors.New("bulk job without document id")
	}
	return job, nil
}
