// Package reader implements a polling reader over all shards of a Kinesis
// stream.
//
// A [Reader] lists the stream's shards once at construction, then serves
// records one at a time, rotating through the shards so no shard starves.
// By default it starts at the tip of the stream and sees only records
// written after it was created; [WithTrimHorizon] starts at the oldest
// retained record, and [WithOffsets] resumes after sequence numbers
// captured earlier via [Reader.Offsets].
//
// Kinesis can legitimately return empty batches for a shard that still has
// unread records further along. A nil record from Read means "nothing
// available right now on any shard", not end of stream; callers poll with
// a delay.
//
// Like the writer, a Reader is single-caller: no internal locking, no
// background goroutines.
package reader
