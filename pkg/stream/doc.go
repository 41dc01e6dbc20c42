// Package stream contains the core value types shared by the kinship
// writer and reader: stream identity, records, per-record submission
// results, and the service limits that bound every batch.
//
// This package is the innermost layer. It has no dependencies on the AWS
// SDK, logging, or any other infrastructure concern, and is testable
// without mocks.
package stream
