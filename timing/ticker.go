package timing

import "time"

// Ticker paces frames with a plain time.Ticker: simple and consistent, at
// the cost of the sub-millisecond accuracy Adaptive trades complexity for.
type Ticker struct {
	ticker *time.Ticker
}

// NewTicker creates a Limiter backed by a time.Ticker at FrameDuration.
func NewTicker() *Ticker {
	return &Ticker{ticker: time.NewTicker(FrameDuration())}
}

func (t *Ticker) Wait() {
	<-t.ticker.C
}

func (t *Ticker) Reset() {
	t.ticker.Reset(FrameDuration())
}

// Stop releases the underlying ticker; call when the driver loop exits.
func (t *Ticker) Stop() {
	t.ticker.Stop()
}
