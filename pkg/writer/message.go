package writer

import "encoding/json"

// Message is a payload accepted by Enqueue. The three constructors form a
// closed set of input variants, each with one serialization rule, resolved
// when the Message is built rather than at flush time.
type Message struct {
	data []byte
	err  error
}

// Bytes wraps an already-serialized payload. The bytes pass through
// unchanged; the Writer does not copy them, so the caller must not mutate
// the slice until the record has been flushed.
func Bytes(b []byte) Message {
	return Message{data: b}
}

// Text wraps a string payload, encoded as UTF-8.
func Text(s string) Message {
	return Message{data: []byte(s)}
}

// JSON wraps a structured value, encoded with encoding/json. An encoding
// failure is carried inside the Message and surfaced by Enqueue, so the
// error is reported for the exact record that caused it.
func JSON(v interface{}) Message {
	b, err := json.Marshal(v)
	return Message{data: b, err: err}
}
