package reader

import (
	"context"
	"fmt"
	"time"

	"github.com/kinship-labs/kinship/pkg/stream"
)

// Start selects where in a shard the reader begins.
type Start int

const (
	// Latest starts at the tip: only records written after the iterator
	// was created are returned.
	Latest Start = iota

	// TrimHorizon starts at the oldest record still retained.
	TrimHorizon

	// AfterSequence starts at the record after a given sequence number.
	AfterSequence
)

// Record is a single record read from a shard, along with how far behind
// the shard tip the enclosing batch was when retrieved.
type Record struct {
	Data               []byte
	PartitionKey       string
	SequenceNumber     string
	ShardID            string
	ArrivalTime        time.Time
	MillisBehindLatest int64
}

// Page is one transport read from a shard iterator.
type Page struct {
	Records            []Record
	NextIterator       string
	MillisBehindLatest int64
}

// Source is the transport capability the reader consumes. pkg/awsx
// provides the Kinesis implementation; tests provide fakes.
type Source interface {
	// ListShards returns the IDs of all shards in the stream.
	ListShards(ctx context.Context) ([]string, error)

	// ShardIterator opens an iterator on one shard at the given start.
	// sequenceNumber is used only with AfterSequence.
	ShardIterator(ctx context.Context, shardID string, start Start, sequenceNumber string) (string, error)

	// Read retrieves the next page behind an iterator.
	Read(ctx context.Context, iterator string) (Page, error)
}

// Option configures a Reader.
type Option func(*options)

type options struct {
	start   Start
	offsets map[string]string
}

// WithTrimHorizon starts reading from the beginning of the stream's
// retention window instead of the tip.
func WithTrimHorizon() Option {
	return func(o *options) {
		o.start = TrimHorizon
	}
}

// WithOffsets resumes reading after the given shard-to-sequence-number
// positions, as returned by [Reader.Offsets]. Shards absent from the map
// start at the tip.
func WithOffsets(offsets map[string]string) Option {
	return func(o *options) {
		o.offsets = offsets
	}
}

// Reader reads records from every shard of one stream, round-robin.
// Not safe for concurrent use.
type Reader struct {
	src     Source
	shards  []*shardCursor
	current int
}

// New lists the stream's shards and builds a Reader over them. It fails
// if the listing fails (a missing stream surfaces here) or if the stream
// has no shards.
func New(ctx context.Context, src Source, opts ...Option) (*Reader, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ids, err := src.ListShards(ctx)
	if err != nil {
		return nil, fmt.Errorf("kinship: list shards: %w", err)
	}
	if len(ids) == 0 {
		return nil, stream.ErrNoShards
	}

	shards := make([]*shardCursor, len(ids))
	for i, id := range ids {
		shards[i] = newShardCursor(id, o.start, o.offsets)
	}
	return &Reader{src: src, shards: shards}, nil
}

// Read returns the next available record, or nil if no shard has anything
// available right now. It prefers the shard that produced the previous
// record while that shard still has buffered records, then rotates
// through every shard once.
func (r *Reader) Read(ctx context.Context) (*Record, error) {
	if cur := r.shards[r.current]; cur.buffered() {
		return cur.read(ctx, r.src)
	}
	for _, idx := range r.rotation() {
		rec, err := r.shards[idx].read(ctx, r.src)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			r.current = idx
			return rec, nil
		}
	}
	return nil, nil
}

// Offsets returns the sequence number of the most recently read record in
// each shard that has produced one. The map is accepted by [WithOffsets]
// to resume a later Reader after the same positions.
func (r *Reader) Offsets() map[string]string {
	offsets := make(map[string]string)
	for _, s := range r.shards {
		if s.lastSequence != "" {
			offsets[s.id] = s.lastSequence
		}
	}
	return offsets
}

// MillisBehindLatest returns the largest reported lag across shards, a
// rough measure of how far the reader trails the stream tip.
func (r *Reader) MillisBehindLatest() int64 {
	var max int64
	for _, s := range r.shards {
		if s.millisBehind > max {
			max = s.millisBehind
		}
	}
	return max
}

// rotation yields every shard index exactly once, starting just after the
// current shard and ending with the current shard itself.
func (r *Reader) rotation() []int {
	n := len(r.shards)
	order := make([]int, n)
	for i := 0; i < n; i++ {
		order[i] = (r.current + 1 + i) % n
	}
	return order
}
