package stream

import "strings"

// Stream identifies a Kinesis stream by name or by ARN. The identifier is
// opaque to kinship: no validation happens locally, the service rejects
// unknown streams on the first call.
type Stream struct {
	id  string
	arn bool
}

// Parse builds a Stream from a name or an ARN. Anything that starts with
// "arn:" is treated as an ARN and sent to the service as such; everything
// else is treated as a stream name.
func Parse(id string) Stream {
	return Stream{id: id, arn: strings.HasPrefix(id, "arn:")}
}

// ID returns the identifier exactly as given to Parse.
func (s Stream) ID() string {
	return s.id
}

// IsARN reports whether the identifier is an ARN.
func (s Stream) IsARN() bool {
	return s.arn
}

// Name returns a short display name for log output. For an ARN like
// "arn:aws:kinesis:us-east-2:123456789012:stream/example" it returns
// "example"; for a plain name it returns the name unchanged.
func (s Stream) Name() string {
	if !s.arn {
		return s.id
	}
	name := s.id
	if idx := strings.LastIndex(name, ":"); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.TrimPrefix(name, "stream/")
}
