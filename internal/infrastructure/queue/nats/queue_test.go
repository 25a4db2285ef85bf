package nats

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

func TestDecodeBulkJob(t *testing.T) {
	job, err := decodeBulkJob([]byte(`{"documentId":"doc-1","segmentIds":["seg-001","seg-003"],"requestId":"r-1"}`))
	if err != nil {
		t.Fatalf("decodeBulkJob() error = %v", err)
	}
	if job.DocumentID != "doc-1" || len(job.SegmentIDs) != 2 || job.RequestID != "r-1" {
		t.Fatalf("unexpected job: %+v", job)
	}

	if _, err := decodeBulkJob([]byte(`{"segmentIds":["seg-001"]}`)); err == nil {
		t.Fatalf("expected error for job without document id")
	}
	if _, err := decodeBulkJob([]byte(`doc-1`)); err == nil {
		t.Fatalf("expected error for non-json payload")
	}
}

func TestClassifyNATSError(t *testing.T) {
	if c := classifyNATSError(fmt.Errorf("publish: %w", nats.ErrNoServers)); !c.Retryable || !c.RecordFailure {
		t.Fatalf("expected no-servers to be retryable, got %+v", c)
	}
	if c := classifyNATSError(context.Canceled); c.Retryable || c.RecordFailure {
		t.Fatalf("expected cancellation to be ignored, got %+v", c)
	}
	if c := classifyNATSError(errors.New("bad subject")); c.Retryable {
		t.Fatalf("expected unknown errors to be permanent, got %+v", c)
	}
	if c := classifyNATSError(fmt.Errorf("publish: %w", nats.ErrReconnectBufExceeded)); !c.Retryable {
		t.Fatalf("expected full reconnect buffer to be retried, got %+v", c)
	}
	for _, err := range []error{
		fmt.Errorf("publish: %w", nats.ErrMaxPayload),
		domain.WrapError(domain.ErrInvalidInput, "publish bulk job", errors.New("document id is required")),
	} {
		if c := classifyNATSError(err); c.Retryable || c.RecordFailure {
			t.Fatalf("rejected job must not retry or trip the breaker: %v => %+v", err, c)
		}
	}
}

func TestPublishRejectsJobWithoutDocument(t *testing.T) {
	q := &Queue{subject: "bulk"}
	err := q.PublishBulkTranslation(context.Background(), domain.BulkTranslationJob{SegmentIDs: []string{"seg-001"}})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDeliverOutlivesSubscriptionContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := &Queue{jobTimeout: time.Minute}
	var (
		got      domain.BulkTranslationJob
		ctxErr   error
		deadline bool
	)
	q.deliver(ctx, []byte(`{"documentId":"doc-1","requestId":"r-9"}`), func(handlerCtx context.Context, job domain.BulkTranslationJob) error {
		got = job
		ctxErr = handlerCtx.Err()
		_, deadline = handlerCtx.Deadline()
		return nil
	})

	if got.DocumentID != "doc-1" {
		t.Fatalf("job delivered after shutdown must still run, got %+v", got)
	}
	if ctxErr != nil {
		t.Fatalf("handler context cancelled with subscription: %v", ctxErr)
	}
	if !deadline {
		t.Fatal("handler context should carry the job timeout")
	}
}

func TestDeliverSkipsUndecodableJob(t *testing.T) {
	called := false
	(&Queue{}).deliver(context.Background(), []byte(`{"segmentIds":["seg-001"]}`), func(context.Context, domain.BulkTranslationJob) error {
		called = true
		return nil
	})
	if called {
		t.Fatal("handler must not run for a job without document id")
	}
}

func TestWrapTemporaryIfNeeded(t *testing.T) {
	err := wrapTemporaryIfNeeded("nats publish", fmt.Errorf("publish: %w", nats.ErrTimeout))
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", err)
	}
	plain := errors.New("bad subject")
	if got := wrapTemporaryIfNeeded("nats publish", plain); got != plain {
		t.Fatalf("expected permanent error unchanged, got %v", got)
	}
}
