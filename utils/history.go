package utils

// History remembers the hashes of recent grids to detect still lifes and short
// oscillators
type History struct {
	size   int
	hashes []string
}

// NewHistory keeps the last size hashes. A size of 0 disables detection.
func NewHistory(size int) *History {
	return &History{size: max(size, 0)}
}

// Observe records hash and returns the period of the cycle it closes: 1 for a still
// life, 2 for a blinker, and so on. 0 means no repeat was seen.
func (h *History) Observe(hash string) int {
	period := 0
	for i := len(h.hashes) - 1; i >= 0; i-- {
		if h.hashes[i] == hash {
			period = len(h.hashes) - i
			break
		}
	}

	if h.size == 0 {
		return 0
	}
	h.hashes = append(h.hashes, hash)
	if len(h.hashes) > h.size {
		h.hashes = h.hashes[1:]
	}
	return period
}

// Reset forgets every recorded hash
func (h *History) Reset() {
	h.hashes = h.hashes[:0]
}
