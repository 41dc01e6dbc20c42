// Package writer implements the batching write path for a Kinesis stream.
//
// A [Writer] owns an ordered queue of pending records. Enqueue appends to
// the queue and never touches the network; Flush peels one size- and
// count-bounded batch off the head, submits it through a [Transport], and
// puts any rejected records back at the head of the queue so they are
// retried before anything younger. A record leaves the queue only when the
// service reports unambiguous success for it.
//
// The Writer performs no background flushing and is not safe for
// concurrent use: one goroutine enqueues and flushes, or the caller
// serializes access externally. Callers drive delivery by looping:
//
//	for {
//	    more, err := w.Flush(ctx)
//	    if err != nil {
//	        // whole-call failure: the in-flight batch is gone, see Flush
//	        return err
//	    }
//	    if !more {
//	        break
//	    }
//	    time.Sleep(delay) // pace retries when the stream is throttled
//	}
//
// [Drain] packages this loop with exponential backoff.
package writer
