package stream

import "testing"

func TestParseName(t *testing.T) {
	s := Parse("example")
	if s.IsARN() {
		t.Fatalf("plain name parsed as ARN")
	}
	if s.ID() != "example" || s.Name() != "example" {
		t.Fatalf("expected id and name %q, got id %q name %q", "example", s.ID(), s.Name())
	}
}

func TestParseARN(t *testing.T) {
	arn := "arn:aws:kinesis:us-east-2:123456789012:stream/example"
	s := Parse(arn)
	if !s.IsARN() {
		t.Fatalf("ARN not recognized")
	}
	if s.ID() != arn {
		t.Fatalf("ID changed: %q", s.ID())
	}
	if s.Name() != "example" {
		t.Fatalf("expected display name %q, got %q", "example", s.Name())
	}
}

func TestEncodedSize(t *testing.T) {
	r := Record{Data: []byte("hello"), PartitionKey: "pk"}
	if got := r.EncodedSize(); got != 7 {
		t.Fatalf("expected encoded size 7, got %d", got)
	}
}

func TestEncodedSizeCountsKeyBytes(t *testing.T) {
	// A multi-byte key counts its UTF-8 byte length, not rune count.
	r := Record{Data: []byte("x"), PartitionKey: "ÀÀ"}
	if got := r.EncodedSize(); got != 5 {
		t.Fatalf("expected encoded size 5, got %d", got)
	}
}

func TestResultFailed(t *testing.T) {
	ok := Result{SequenceNumber: "49590338271490256608559692538361571095921575989136588898"}
	if ok.Failed() {
		t.Fatalf("accepted result reported as failed")
	}
	bad := Result{ErrorCode: "ProvisionedThroughputExceededException", ErrorMessage: "Rate exceeded"}
	if !bad.Failed() {
		t.Fatalf("rejected result not reported as failed")
	}
}
