package writer

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/kinship-labs/kinship/pkg/log"
	"github.com/kinship-labs/kinship/pkg/stream"
)

// Transport submits one bounded batch of records to a stream and returns a
// per-record outcome slice, positionally aligned with the input. A non-nil
// error means the whole call failed (connectivity, auth, missing stream)
// and no outcome slice is available.
type Transport interface {
	PutBatch(ctx context.Context, s stream.Stream, records []stream.Record) ([]stream.Result, error)
}

// Limits are the transport-imposed batch ceilings. They exist as a struct
// so tests can shrink them; production code uses DefaultLimits, which
// mirrors the service constants in package stream.
type Limits struct {
	MaxRecordsPerBatch   int
	MaxBatchBytes        int
	MaxRecordBytes       int
	MaxPartitionKeyBytes int
}

// DefaultLimits returns the documented Kinesis PutRecords ceilings.
func DefaultLimits() Limits {
	return Limits{
		MaxRecordsPerBatch:   stream.MaxRecordsPerCall,
		MaxBatchBytes:        stream.MaxBytesPerCall,
		MaxRecordBytes:       stream.MaxRecordBytes,
		MaxPartitionKeyBytes: stream.MaxPartitionKeyBytes,
	}
}

func (l Limits) withDefaults() Limits {
	def := DefaultLimits()
	if l.MaxRecordsPerBatch <= 0 {
		l.MaxRecordsPerBatch = def.MaxRecordsPerBatch
	}
	if l.MaxBatchBytes <= 0 {
		l.MaxBatchBytes = def.MaxBatchBytes
	}
	if l.MaxRecordBytes <= 0 {
		l.MaxRecordBytes = def.MaxRecordBytes
	}
	if l.MaxRecordBytes > l.MaxBatchBytes {
		l.MaxRecordBytes = l.MaxBatchBytes
	}
	if l.MaxPartitionKeyBytes <= 0 {
		l.MaxPartitionKeyBytes = def.MaxPartitionKeyBytes
	}
	return l
}

// BatchStats describes the outcome of the most recent Flush that reached
// the transport.
type BatchStats struct {
	// Submitted is the number of records in the batch.
	Submitted int

	// Succeeded is the number of records the service accepted.
	Succeeded int

	// FailureMessages holds the distinct error messages observed among
	// rejected records, sorted. Deduplicated so a fully throttled batch
	// reports one message, not five hundred.
	FailureMessages []string
}

// Writer accumulates records for a single stream and ships them in
// batches. Not safe for concurrent use; see the package documentation.
type Writer struct {
	transport Transport
	stream    stream.Stream
	limits    Limits

	logger     log.Logger
	logBatches bool
	now        func() time.Time

	queue       []stream.Record
	queuedBytes int
	last        BatchStats
}

// New creates a Writer targeting the given stream. The zero option set
// uses the service default limits, a no-op logger, and the wall clock for
// synthesized partition keys.
func New(transport Transport, s stream.Stream, opts ...Option) *Writer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Writer{
		transport:  transport,
		stream:     s,
		limits:     o.limits.withDefaults(),
		logger:     o.logger,
		logBatches: o.logBatches,
		now:        o.now,
	}
}

// Enqueue serializes the message and appends it to the pending queue. If
// partitionKey is empty, a key is synthesized from the current time in
// seconds, at enqueue time. Enqueue never blocks and never triggers a
// flush.
//
// Returns stream.ErrRecordTooLarge or stream.ErrPartitionKeyTooLarge
// (wrapped with the offending sizes) without modifying the queue when the
// record cannot ever be accepted by the service.
func (w *Writer) Enqueue(msg Message, partitionKey string) error {
	if msg.err != nil {
		return fmt.Errorf("kinship: encode message: %w", msg.err)
	}
	if partitionKey == "" {
		partitionKey = w.timeKey()
	}
	if keyLen := len(partitionKey); keyLen > w.limits.MaxPartitionKeyBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)",
			stream.ErrPartitionKeyTooLarge, keyLen, w.limits.MaxPartitionKeyBytes)
	}
	rec := stream.Record{Data: msg.data, PartitionKey: partitionKey}
	if size := rec.EncodedSize(); size > w.limits.MaxRecordBytes {
		return fmt.Errorf("%w: %d bytes (payload %d, partition key %d, limit %d)",
			stream.ErrRecordTooLarge, size, len(msg.data), len(partitionKey), w.limits.MaxRecordBytes)
	}
	w.queue = append(w.queue, rec)
	w.queuedBytes += rec.EncodedSize()
	return nil
}

// Flush assembles one batch from the head of the queue, submits it, and
// reinserts any rejected records at the head, ahead of everything that was
// left behind. It returns true when records remain queued afterward, so
// callers loop until it returns false.
//
// A non-nil error is a whole-call transport failure: the submitted batch
// has already left the queue and is not put back. Callers that need
// at-least-once delivery across connectivity failures must keep their own
// copy or retry at a higher level. Records left behind by batch assembly
// are unaffected and still queued.
func (w *Writer) Flush(ctx context.Context) (bool, error) {
	if len(w.queue) == 0 {
		return false, nil
	}

	n := w.splitPoint()
	batch := w.queue[:n]
	rest := w.queue[n:]

	if w.logBatches {
		w.logger.Debug("sending batch",
			log.Int("records", len(batch)),
			log.String("stream", w.stream.Name()))
	}

	results, err := w.transport.PutBatch(ctx, w.stream, batch)
	if err != nil {
		w.rebuildQueue(nil, rest)
		return len(w.queue) > 0, fmt.Errorf("kinship: put batch: %w", err)
	}
	if len(results) != len(batch) {
		w.rebuildQueue(nil, rest)
		return len(w.queue) > 0, fmt.Errorf("kinship: put batch: %d records submitted but %d results returned",
			len(batch), len(results))
	}

	stats := BatchStats{Submitted: len(batch)}
	var failed []stream.Record
	seen := make(map[string]struct{})
	for i, res := range results {
		if !res.Failed() {
			stats.Succeeded++
			continue
		}
		failed = append(failed, batch[i])
		if _, ok := seen[res.ErrorMessage]; !ok {
			seen[res.ErrorMessage] = struct{}{}
			stats.FailureMessages = append(stats.FailureMessages, res.ErrorMessage)
		}
	}
	sort.Strings(stats.FailureMessages)
	w.last = stats
	w.rebuildQueue(failed, rest)

	if w.logBatches {
		w.logger.Debug("batch result",
			log.Int("submitted", stats.Submitted),
			log.Int("succeeded", stats.Succeeded),
			log.Strings("errors", stats.FailureMessages),
			log.String("stream", w.stream.Name()))
	}

	return len(w.queue) > 0, nil
}

// Pending returns the number of records waiting in the queue.
func (w *Writer) Pending() int {
	return len(w.queue)
}

// QueuedBytes returns the aggregate encoded size of the queue. The queue
// is unbounded: under persistent rejection it grows without limit, and
// this is the number to watch.
func (w *Writer) QueuedBytes() int {
	return w.queuedBytes
}

// LastBatch returns statistics for the most recent batch whose per-record
// results were received. A whole-call transport failure does not update
// them. The zero value means no batch has completed yet.
func (w *Writer) LastBatch() BatchStats {
	return w.last
}

// Stream returns the stream this Writer targets.
func (w *Writer) Stream() stream.Stream {
	return w.stream
}

// splitPoint returns how many records from the head of the queue fit in
// one batch under both the count and the aggregate-size ceilings. The
// first record that would exceed either limit is excluded, along with
// everything after it.
func (w *Writer) splitPoint() int {
	var bytes int
	for i, rec := range w.queue {
		if i >= w.limits.MaxRecordsPerBatch {
			return i
		}
		size := rec.EncodedSize()
		if bytes+size > w.limits.MaxBatchBytes {
			return i
		}
		bytes += size
	}
	return len(w.queue)
}

// rebuildQueue replaces the queue with rejected records (in submission
// order) followed by the records batch assembly left behind. Head
// insertion means a failed record is retried before anything enqueued
// after it.
func (w *Writer) rebuildQueue(failed, rest []stream.Record) {
	q := make([]stream.Record, 0, len(failed)+len(rest))
	q = append(q, failed...)
	q = append(q, rest...)
	w.queue = q
	w.queuedBytes = 0
	for _, rec := range q {
		w.queuedBytes += rec.EncodedSize()
	}
}

// timeKey synthesizes a partition key from the current time: decimal
// seconds with microsecond precision, e.g. "1693000000.000123".
func (w *Writer) timeKey() string {
	now := w.now()
	return strconv.FormatFloat(float64(now.UnixMicro())/1e6, 'f', 6, 64)
}
