package stream

import "errors"

// Errors returned by the kinship public API. Callers match them with
// errors.Is; the wrapped form carries the offending sizes.
var (
	// ErrRecordTooLarge is returned by Enqueue when the encoded record
	// exceeds MaxRecordBytes. The record never enters the queue.
	ErrRecordTooLarge = errors.New("kinship: record too large")

	// ErrPartitionKeyTooLarge is returned by Enqueue when the partition
	// key exceeds MaxPartitionKeyBytes.
	ErrPartitionKeyTooLarge = errors.New("kinship: partition key too large")

	// ErrNoShards is returned by the reader when a stream reports no
	// shards, which indicates a stream that is still creating or deleting.
	ErrNoShards = errors.New("kinship: stream has no shards")
)
