package history

import "github.com/sandevgo/askbot/internal/core"

// ring keeps the last len(buf) utterances of one conversation in arrival order.
type ring struct {
	buf   []core.Utterance
	start int
	count int
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]core.Utterance, capacity)}
}

func (r *ring) push(u core.Utterance) {
	if r.count < len(r.buf) {
		r.buf[(r.start+r.count)%len(r.buf)] = u
		r.count++
		return
	}
	// full: overwrite the oldest entry
	r.buf[r.start] = u
	r.start = (r.start + 1) % len(r.buf)
}

// at returns the i-th newest entry, 0 being the tail.
func (r *ring) at(i int) core.Utterance {
	return r.buf[(r.start+r.count-1-i)%len(r.buf)]
}

func (r *ring) len() int {
	return r.count
}

func (r *ring) snapshot() []core.Utterance {
	out := make([]core.Utterance, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}
