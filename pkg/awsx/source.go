package awsx

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kinesis"
	"github.com/aws/aws-sdk-go-v2/service/kinesis/types"

	"github.com/kinship-labs/kinship/pkg/reader"
	"github.com/kinship-labs/kinship/pkg/stream"
)

// ShardSource implements reader.Source over the Kinesis shard APIs for
// one stream.
type ShardSource struct {
	api    API
	stream stream.Stream
}

// NewShardSource creates a ShardSource for the given stream.
func NewShardSource(api API, s stream.Stream) *ShardSource {
	return &ShardSource{api: api, stream: s}
}

// ListShards returns all shard IDs, following pagination. Follow-up pages
// are requested by token alone; the service rejects a token combined with
// a stream identifier.
func (s *ShardSource) ListShards(ctx context.Context) ([]string, error) {
	var ids []string
	in := &kinesis.ListShardsInput{}
	if s.stream.IsARN() {
		in.StreamARN = aws.String(s.stream.ID())
	} else {
		in.StreamName = aws.String(s.stream.ID())
	}
	for {
		out, err := s.api.ListShards(ctx, in)
		if err != nil {
			return nil, err
		}
		for _, shard := range out.Shards {
			ids = append(ids, aws.ToString(shard.ShardId))
		}
		if out.NextToken == nil {
			return ids, nil
		}
		in = &kinesis.ListShardsInput{NextToken: out.NextToken}
	}
}

// ShardIterator opens an iterator on one shard.
func (s *ShardSource) ShardIterator(ctx context.Context, shardID string, start reader.Start, sequenceNumber string) (string, error) {
	in := &kinesis.GetShardIteratorInput{
		ShardId: aws.String(shardID),
	}
	if s.stream.IsARN() {
		in.StreamARN = aws.String(s.stream.ID())
	} else {
		in.StreamName = aws.String(s.stream.ID())
	}
	switch start {
	case reader.TrimHorizon:
		in.ShardIteratorType = types.ShardIteratorTypeTrimHorizon
	case reader.AfterSequence:
		in.ShardIteratorType = types.ShardIteratorTypeAfterSequenceNumber
		in.StartingSequenceNumber = aws.String(sequenceNumber)
	default:
		in.ShardIteratorType = types.ShardIteratorTypeLatest
	}

	out, err := s.api.GetShardIterator(ctx, in)
	if err != nil {
		return "", err
	}
	return aws.ToString(out.ShardIterator), nil
}

// Read retrieves the next page behind an iterator.
func (s *ShardSource) Read(ctx context.Context, iterator string) (reader.Page, error) {
	out, err := s.api.GetRecords(ctx, &kinesis.GetRecordsInput{
		ShardIterator: aws.String(iterator),
	})
	if err != nil {
		return reader.Page{}, err
	}

	page := reader.Page{
		NextIterator:       aws.ToString(out.NextShardIterator),
		MillisBehindLatest: aws.ToInt64(out.MillisBehindLatest),
		Records:            make([]reader.Record, len(out.Records)),
	}
	for i, rec := range out.Records {
		page.Records[i] = reader.Record{
			Data:           rec.Data,
			PartitionKey:   aws.ToString(rec.PartitionKey),
			SequenceNumber: aws.ToString(rec.SequenceNumber),
			ArrivalTime:    aws.ToTime(rec.ApproximateArrivalTimestamp),
		}
	}
	return page, nil
}
