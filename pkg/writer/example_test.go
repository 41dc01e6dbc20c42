package writer_test

import (
	"context"
	"fmt"
	"time"

	"github.com/kinship-labs/kinship/pkg/stream"
	"github.com/kinship-labs/kinship/pkg/writer"
)

type exampleTransport struct{}

func (exampleTransport) PutBatch(ctx context.Context, s stream.Stream, records []stream.Record) ([]stream.Result, error) {
	results := make([]stream.Result, len(records))
	for i := range results {
		results[i] = stream.Result{SequenceNumber: fmt.Sprintf("%d", i), ShardID: "shardId-000000000000"}
	}
	return results, nil
}

func Example() {
	w := writer.New(exampleTransport{}, stream.Parse("example"))

	// Three variants, one serialization rule each.
	_ = w.Enqueue(writer.Text("a line of text"), "device-42")
	_ = w.Enqueue(writer.Bytes([]byte{0x01, 0x02}), "device-42")
	_ = w.Enqueue(writer.JSON(map[string]string{"event": "boot"}), "")

	// Flush until drained, pacing retries.
	err := writer.Drain(context.Background(), w, writer.DrainOptions{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
	})
	fmt.Println(err, w.Pending())
	// Output: <nil> 0
}
