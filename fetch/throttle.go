package fetch

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// throttledWriterAt delays writes so the sustained rate stays under the limiter.
// Writes larger than the burst are split so WaitN never rejects them.
type throttledWriterAt struct {
	ctx     context.Context
	w       io.WriterAt
	limiter *rate.Limiter
}

func (t *throttledWriterAt) WriteAt(p []byte, off int64) (int, error) {
	burst := t.limiter.Burst()
	written := 0
	for written < len(p) {
		chunk := min(len(p)-written, burst)
		if err := t.limiter.WaitN(t.ctx, chunk); err != nil {
			return written, err
		}
		n, err := t.w.WriteAt(p[written:written+chunk], off+int64(written))
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
