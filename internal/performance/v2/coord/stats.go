package coord

import "github.com/HdrHistogram/hdrhistogram-go"

// waitHistogram records a point's wait-time distribution, the same
// histogram-per-key pattern metrics.Engine uses for its requestHists
// (1ms–60s range is plenty for a rendezvous wait; values outside it clamp
// to the boundary rather than erroring).
type waitHistogram struct {
	hist *hdrhistogram.Histogram
}

func newWaitHistogram() *waitHistogram {
	return &waitHistogram{hist: hdrhistogram.New(1, 60000, 3)}
}

func (w *waitHistogram) Record(waitMs int64) {
	if waitMs < 1 {
		waitMs = 1
	}
	if waitMs > 60000 {
		waitMs = 60000
	}
	w.hist.RecordValue(waitMs)
}

func (w *waitHistogram) Quantiles() (p50, p95, max int64) {
	return w.hist.ValueAtQuantile(50), w.hist.ValueAtQuantile(95), w.hist.Max()
}
