package audit

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/pitak/internal/domain/models"
)

// ErrRecorderClosed is returned by RetryPending once the recorder has been closed.
var ErrRecorderClosed = errors.New("audit recorder closed")

const defaultDeliveryTimeout = 10 * time.Second

// Sink stores measurement records.
type Sink interface {
	Name() string
	SaveMeasurementRecord(ctx context.Context, record models.MeasurementRecord) error
}

type pendingDelivery struct {
	record models.MeasurementRecord
	sink   Sink
}

// Recorder delivers measurement records to every sink in the background.
// Publish never blocks; records that cannot be queued or delivered wait in a
// backlog until RetryPending succeeds.
type Recorder struct {
	sinks   []Sink
	queue   chan models.MeasurementRecord
	done    chan struct{}
	timeout time.Duration
	logger  *zap.Logger

	stateMu sync.RWMutex
	closed  bool

	pendingMu sync.Mutex
	pending   []pendingDelivery
}

// NewRecorder starts a recorder with a queue of bufferSize records.
func NewRecorder(sinks []Sink, bufferSize int, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}

	r := &Recorder{
		sinks:   sinks,
		queue:   make(chan models.MeasurementRecord, bufferSize),
		done:    make(chan struct{}),
		timeout: defaultDeliveryTimeout,
		logger:  logger,
	}
	go r.run()

	return r
}

// Publish queues a record for delivery.
func (r *Recorder) Publish(record models.MeasurementRecord) {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()

	if r.closed {
		r.logger.Warn("audit recorder closed, record kept in backlog", zap.String("record_id", record.ID))
		r.backlogAll(record)
		return
	}

	select {
	case r.queue <- record:
	default:
		r.logger.Warn("audit queue full, record kept in backlog", zap.String("record_id", record.ID))
		r.backlogAll(record)
	}
}

// RetryPending redelivers the backlog and returns how many deliveries remain.
func (r *Recorder) RetryPending(ctx context.Context) (int, error) {
	r.stateMu.RLock()
	closed := r.closed
	r.stateMu.RUnlock()
	if closed {
		return r.Pending(), ErrRecorderClosed
	}

	r.pendingMu.Lock()
	batch := r.pending
	r.pending = nil
	r.pendingMu.Unlock()

	for i, item := range batch {
		if ctx.Err() != nil {
			r.requeue(batch[i:]...)
			break
		}
		r.deliver(ctx, item.record, item.sink)
	}

	remaining := r.Pending()
	if len(batch) > 0 {
		r.logger.Info("audit redelivery finished", zap.Int("attempted", len(batch)), zap.Int("pending", remaining))
	}

	return remaining, ctx.Err()
}

// Pending reports the number of undelivered sink deliveries.
func (r *Recorder) Pending() int {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()
	return len(r.pending)
}

// Close stops accepting records and waits for queued ones to be delivered.
func (r *Recorder) Close(ctx context.Context) error {
	r.stateMu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.stateMu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) run() {
	defer close(r.done)

	for record := range r.queue {
		for _, sink := range r.sinks {
			r.deliver(context.Background(), record, sink)
		}
	}
}

func (r *Recorder) deliver(parent context.Context, record models.MeasurementRecord, sink Sink) {
	ctx, cancel := context.WithTimeout(parent, r.timeout)
	defer cancel()

	if err := sink.SaveMeasurementRecord(ctx, record); err != nil {
		r.logger.Error("audit delivery failed",
			zap.String("sink", sink.Name()),
			zap.String("record_id", record.ID),
			zap.Error(err))
		r.requeue(pendingDelivery{record: record, sink: sink})
		return
	}

	r.logger.Debug("audit record delivered", zap.String("sink", sink.Name()), zap.String("record_id", record.ID))
}

func (r *Recorder) backlogAll(record models.MeasurementRecord) {
	items := make([]pendingDelivery, 0, len(r.sinks))
	for _, sink := range r.sinks {
		items = append(items, pendingDelivery{record: record, sink: sink})
	}
	r.requeue(items...)
}

func (r *Recorder) requeue(items ...pendingDelivery) {
	if len(items) == 0 {
		return
	}
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()
	r.pending = append(r.pending, items...)
}
