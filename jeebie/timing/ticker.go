package timing

import "time"

// TickerPacer paces frames off a time.Ticker: simpler and lower overhead
// than AdaptivePacer's sleep/spin hybrid, at the cost of whatever jitter
// the runtime's ticker implementation carries.
type TickerPacer struct {
	ticker *time.Ticker
}

func NewTickerPacer() *TickerPacer {
	return &TickerPacer{ticker: time.NewTicker(FrameDuration())}
}

func (p *TickerPacer) Wait() {
	<-p.ticker.C
}

func (p *TickerPacer) Reset() {
	p.ticker.Reset(FrameDuration())
}

func (p *TickerPacer) Stop() {
	p.ticker.Stop()
}
