package runner

import "sync"

const (
	// tailBufferSize bounds the per-instance line buffer used for Tail and
	// backlog requests.
	tailBufferSize = 500

	// subscriberBuffer is the per-subscriber channel capacity beyond the
	// requested backlog. A subscriber that falls further behind than this
	// loses lines; the publisher never blocks on it.
	subscriberBuffer = 256
)

// hub fans child process output out to subscribers and keeps a bounded
// backlog for tailing. Lines are published in arrival order.
type hub struct {
	mu     sync.Mutex
	buffer []string
	subs   map[int]chan string
	nextID int
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan string)}
}

// publish appends the line to the backlog and delivers it to every current
// subscriber. Full subscriber channels are skipped rather than blocking the
// reader pump.
func (h *hub) publish(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}

	if len(h.buffer) >= tailBufferSize {
		h.buffer = h.buffer[1:]
	}
	h.buffer = append(h.buffer, line)

	for _, ch := range h.subs {
		select {
		case ch <- line:
		default:
		}
	}
}

// subscribe attaches a new subscriber. backlog > 0 pre-fills the channel
// with up to that many of the most recent lines; backlog 0 delivers only
// lines published after attachment. The returned cancel func detaches the
// subscriber and closes its channel.
func (h *hub) subscribe(backlog int) (<-chan string, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if backlog > len(h.buffer) {
		backlog = len(h.buffer)
	}
	ch := make(chan string, backlog+subscriberBuffer)
	for _, line := range h.buffer[len(h.buffer)-backlog:] {
		ch <- line
	}

	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// tail returns up to n of the most recent lines.
func (h *hub) tail(n int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n > len(h.buffer) {
		n = len(h.buffer)
	}
	out := make([]string, n)
	copy(out, h.buffer[len(h.buffer)-n:])
	return out
}

// close closes all subscriber channels; subsequent publishes are dropped.
// The backlog stays readable through tail.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
