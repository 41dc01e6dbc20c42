package awsx

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kinesis"
	"github.com/aws/aws-sdk-go-v2/service/kinesis/types"

	"github.com/kinship-labs/kinship/pkg/stream"
)

// Transport implements writer.Transport over the Kinesis PutRecords API.
type Transport struct {
	api API
}

// NewTransport creates a Transport over the given client.
func NewTransport(api API) *Transport {
	return &Transport{api: api}
}

// PutBatch submits one batch and maps the per-record results positionally.
// A whole-call failure returns the SDK error unchanged for the writer to
// propagate.
func (t *Transport) PutBatch(ctx context.Context, s stream.Stream, records []stream.Record) ([]stream.Result, error) {
	entries := make([]types.PutRecordsRequestEntry, len(records))
	for i, rec := range records {
		entries[i] = types.PutRecordsRequestEntry{
			Data:         rec.Data,
			PartitionKey: aws.String(rec.PartitionKey),
		}
	}

	in := &kinesis.PutRecordsInput{Records: entries}
	if s.IsARN() {
		in.StreamARN = aws.String(s.ID())
	} else {
		in.StreamName = aws.String(s.ID())
	}

	out, err := t.api.PutRecords(ctx, in)
	if err != nil {
		return nil, err
	}

	results := make([]stream.Result, len(out.Records))
	for i, rec := range out.Records {
		results[i] = stream.Result{
			SequenceNumber: aws.ToString(rec.SequenceNumber),
			ShardID:        aws.ToString(rec.ShardId),
			ErrorCode:      aws.ToString(rec.ErrorCode),
			ErrorMessage:   aws.ToString(rec.ErrorMessage),
		}
	}
	return results, nil
}
