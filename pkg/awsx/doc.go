// Package awsx adapts kinship's transport ports to the AWS SDK v2.
//
// [Transport] implements writer.Transport over PutRecords, [ShardSource]
// implements reader.Source over ListShards/GetShardIterator/GetRecords,
// and [NewClient] builds the underlying Kinesis client, optionally
// assuming an IAM role first.
//
// Everything SDK-shaped stays in this package: the writer and reader see
// only their own ports, and tests elsewhere fake those ports instead of
// the SDK. Tests here fake the [API] interface, which *kinesis.Client
// satisfies.
package awsx
