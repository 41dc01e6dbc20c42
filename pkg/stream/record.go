package stream

// Service limits for a single PutRecords call. These mirror the documented
// Kinesis ceilings and are not tunable business parameters: a batch
// assembled locally must satisfy them or the whole call is rejected.
const (
	// MaxRecordsPerCall is the maximum number of records in one call.
	MaxRecordsPerCall = 500

	// MaxBytesPerCall is the maximum aggregate encoded size of one call.
	MaxBytesPerCall = 5 * 1024 * 1024

	// MaxRecordBytes is the maximum encoded size of a single record.
	MaxRecordBytes = 1024 * 1024

	// MaxPartitionKeyBytes is the maximum partition key length in bytes.
	MaxPartitionKeyBytes = 256
)

// Record is a single record bound for a stream: an opaque payload and the
// partition key that routes it to a shard.
type Record struct {
	Data         []byte
	PartitionKey string
}

// EncodedSize returns the number of bytes this record counts toward the
// service's per-record and per-call ceilings. Kinesis counts the payload
// and the partition key and nothing else, so there is no envelope term;
// keeping the formula here means a transport with different accounting
// changes one function.
func (r Record) EncodedSize() int {
	return len(r.Data) + len(r.PartitionKey)
}

// Result is the per-record outcome of a batch submission, positionally
// aligned with the submitted records. A record either succeeded and
// carries its assigned position, or failed and carries an error code.
type Result struct {
	SequenceNumber string
	ShardID        string
	ErrorCode      string
	ErrorMessage   string
}

// Failed reports whether the record was rejected by the service.
func (r Result) Failed() bool {
	return r.ErrorCode != ""
}
