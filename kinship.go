// Package kinship provides batching producers and shard-fanning consumers
// for AWS Kinesis streams.
//
// Example usage:
//
//	client, err := kinship.NewClient(ctx, kinship.ClientOptions{Region: "us-east-2"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	w := kinship.NewWriter(kinship.NewTransport(client), kinship.ParseStream("events"))
//	if err := w.Enqueue(kinship.Text("hello"), ""); err != nil {
//	    log.Fatal(err)
//	}
//	if err := kinship.Drain(ctx, w, kinship.DefaultDrainOptions()); err != nil {
//	    log.Fatal(err)
//	}
//
// The sub-packages can also be imported directly: pkg/writer holds the
// batching core, pkg/reader the shard reader, pkg/awsx the AWS SDK
// adapters, and pkg/stream the shared value types.
package kinship

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/kinesis"

	"github.com/kinship-labs/kinship/pkg/awsx"
	"github.com/kinship-labs/kinship/pkg/reader"
	"github.com/kinship-labs/kinship/pkg/stream"
	"github.com/kinship-labs/kinship/pkg/writer"
)

// Stream identifies a Kinesis stream by name or ARN.
type Stream = stream.Stream

// Writer accumulates records for one stream and ships them in bounded
// batches with partial-failure requeue.
type Writer = writer.Writer

// Message is a payload accepted by Writer.Enqueue.
type Message = writer.Message

// Reader reads records from every shard of one stream, round-robin.
type Reader = reader.Reader

// ClientOptions controls NewClient, including optional role assumption.
type ClientOptions = awsx.ClientOptions

// DrainOptions controls the pacing of a Drain loop.
type DrainOptions = writer.DrainOptions

// Errors surfaced by Enqueue and the reader; match with errors.Is.
var (
	ErrRecordTooLarge       = stream.ErrRecordTooLarge
	ErrPartitionKeyTooLarge = stream.ErrPartitionKeyTooLarge
	ErrNoShards             = stream.ErrNoShards
)

// ParseStream builds a Stream from a name or an ARN.
func ParseStream(id string) Stream {
	return stream.Parse(id)
}

// NewWriter creates a Writer targeting the given stream.
func NewWriter(t writer.Transport, s Stream, opts ...writer.Option) *Writer {
	return writer.New(t, s, opts...)
}

// NewReader lists the stream's shards and builds a Reader over them.
func NewReader(ctx context.Context, src reader.Source, opts ...reader.Option) (*Reader, error) {
	return reader.New(ctx, src, opts...)
}

// NewClient creates a Kinesis client, optionally assuming a role first.
func NewClient(ctx context.Context, opts ClientOptions) (*kinesis.Client, error) {
	return awsx.NewClient(ctx, opts)
}

// NewTransport adapts a Kinesis client to the Writer's transport port.
func NewTransport(api awsx.API) *awsx.Transport {
	return awsx.NewTransport(api)
}

// NewShardSource adapts a Kinesis client to the Reader's source port.
func NewShardSource(api awsx.API, s Stream) *awsx.ShardSource {
	return awsx.NewShardSource(api, s)
}

// Bytes wraps an already-serialized payload.
func Bytes(b []byte) Message { return writer.Bytes(b) }

// Text wraps a string payload, encoded as UTF-8.
func Text(s string) Message { return writer.Text(s) }

// JSON wraps a structured value, encoded with encoding/json.
func JSON(v interface{}) Message { return writer.JSON(v) }

// Drain calls Flush until the queue is empty, pacing retries with
// exponential backoff.
func Drain(ctx context.Context, w *Writer, opts DrainOptions) error {
	return writer.Drain(ctx, w, opts)
}

// DefaultDrainOptions returns pacing suited to transient throttling.
func DefaultDrainOptions() DrainOptions {
	return writer.DefaultDrainOptions()
}
