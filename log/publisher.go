package log

import (
	"bytes"
	"sync"
	"sync/atomic"
)

const defaultBufferSize = 64

// Publisher is an [io.Writer] that splits written bytes into lines and fans
// each line out to subscribers. Handlers in this package emit one record per
// Write, so each delivered line is one log record.
//
// Delivery uses buffered channels with ring-buffer semantics: when a
// subscriber's channel is full the oldest line is dropped so Write never
// blocks. Safe for concurrent use.
//
// Create instances with [NewPublisher].
type Publisher struct {
	subscribers []*Subscription
	bufSize     int
	mu          sync.Mutex
	closed      bool
}

// NewPublisher creates a [Publisher] with the given options.
// The default buffer size is 64 lines.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		bufSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// PublisherOption configures a [Publisher].
type PublisherOption func(*Publisher)

// WithBufferSize sets the channel buffer size, in lines, for new
// subscriptions. Values less than 1 are clamped to 1.
func WithBufferSize(n int) PublisherOption {
	return func(p *Publisher) {
		p.bufSize = max(n, 1)
	}
}

// Write delivers every non-empty line of b to all active subscribers, without
// the trailing newline. A final line without a newline is delivered as is.
// Write always returns len(b), nil.
func (p *Publisher) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return len(b), nil
	}

	p.compact()

	for line := range bytes.Lines(b) {
		line = bytes.TrimRight(line, "\r\n")
		if len(line) == 0 {
			continue
		}

		entry := string(line)

		for _, sub := range p.subscribers {
			sub.deliver(entry)
		}
	}

	return len(b), nil
}

// compact closes and drops subscriptions closed by their owner.
func (p *Publisher) compact() {
	alive := p.subscribers[:0]

	for _, sub := range p.subscribers {
		if sub.closed.Load() {
			close(sub.ch)
			continue
		}

		alive = append(alive, sub)
	}

	clear(p.subscribers[len(alive):])

	p.subscribers = alive
}

// Subscribe creates and registers a new [Subscription]. If the Publisher is
// already closed the returned subscription's channel is immediately closed.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := &Subscription{
		ch: make(chan string, p.bufSize),
	}

	if p.closed {
		close(sub.ch)
		return sub
	}

	p.subscribers = append(p.subscribers, sub)

	return sub
}

// Close marks the Publisher as closed and closes all subscription channels.
// Idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	for _, sub := range p.subscribers {
		close(sub.ch)
	}

	p.subscribers = nil

	return nil
}

// Subscription receives log lines from a [Publisher].
type Subscription struct {
	ch     chan string
	closed atomic.Bool
}

// C returns the channel that delivers log lines.
func (s *Subscription) C() <-chan string {
	return s.ch
}

// Close marks the subscription as closed. The Publisher closes the
// underlying channel on its next Write or Close call. Idempotent.
func (s *Subscription) Close() {
	s.closed.Store(true)
}

// deliver sends line, dropping the oldest buffered line when full. Only the
// owning Publisher sends, under its lock.
func (s *Subscription) deliver(line string) {
	select {
	case s.ch <- line:
		return
	default:
	}

	// A reader may drain the channel concurrently, so neither step may block.
	select {
	case <-s.ch:
	default:
	}

	select {
	case s.ch <- line:
	default:
	}
}
