package reader

import "context"

// shardCursor tracks one shard: its iterator, the records buffered from
// the last transport read, and the last sequence number handed out.
type shardCursor struct {
	id       string
	start    Start
	startSeq string

	iterator     string
	buf          []Record
	millisBehind int64
	lastSequence string
}

func newShardCursor(id string, start Start, offsets map[string]string) *shardCursor {
	c := &shardCursor{id: id, start: start}
	if seq, ok := offsets[id]; ok {
		c.start = AfterSequence
		c.startSeq = seq
	}
	return c
}

func (c *shardCursor) buffered() bool {
	return len(c.buf) > 0
}

// read returns the next record for this shard, fetching a page from the
// source when the buffer is empty. A nil record means the shard had
// nothing available on this attempt.
func (c *shardCursor) read(ctx context.Context, src Source) (*Record, error) {
	if len(c.buf) == 0 {
		if err := c.fill(ctx, src); err != nil {
			return nil, err
		}
	}
	if len(c.buf) == 0 {
		return nil, nil
	}
	rec := c.buf[0]
	c.buf = c.buf[1:]
	c.lastSequence = rec.SequenceNumber
	return &rec, nil
}

func (c *shardCursor) fill(ctx context.Context, src Source) error {
	if c.iterator == "" {
		it, err := src.ShardIterator(ctx, c.id, c.start, c.startSeq)
		if err != nil {
			return err
		}
		c.iterator = it
	}
	page, err := src.Read(ctx, c.iterator)
	if err != nil {
		return err
	}
	c.iterator = page.NextIterator
	c.millisBehind = page.MillisBehindLatest
	c.buf = page.Records
	for i := range c.buf {
		c.buf[i].ShardID = c.id
		c.buf[i].MillisBehindLatest = page.MillisBehindLatest
	}
	return nil
}
