package engine

// historyCap bounds the rolling total-biomass history used by
// biomass_stationary conditions.
const historyCap = 10

// biomassHistory is a fixed-capacity FIFO of total-biomass samples, one per
// tick, oldest evicted beyond historyCap.
type biomassHistory struct {
	buf   [historyCap]float64
	start int
	n     int
}

func (h *biomassHistory) Push(v float64) {
	if h.n < historyCap {
		h.buf[(h.start+h.n)%historyCap] = v
		h.n++
		return
	}
	h.buf[h.start] = v
	h.start = (h.start + 1) % historyCap
}

func (h *biomassHistory) Len() int { return h.n }

// FromLatest returns the sample k positions before the latest (k=0 is the
// latest). k must be < Len().
func (h *biomassHistory) FromLatest(k int) float64 {
	return h.buf[(h.start+h.n-1-k+historyCap)%historyCap]
}
