// Package bus provides the unbounded many-producer, single-consumer queues
// that connect the running tasks.
package bus

import "sync"

// Sender is the producer side of a queue. Send never blocks and reports false
// once the consumer is gone, which is the signal for the producer to stop.
type Sender[T any] interface {
	Send(v T) bool
}

// Queue buffers without limit between its producers and its one consumer.
// Values from a single producer are delivered in send order.
type Queue[T any] struct {
	in   chan T
	out  chan T
	done chan struct{}
	once sync.Once
}

func New[T any]() *Queue[T] {
	q := &Queue[T]{
		in:   make(chan T),
		out:  make(chan T),
		done: make(chan struct{}),
	}
	go q.pump()
	return q
}

func (q *Queue[T]) Send(v T) bool {
	select {
	case <-q.done:
		return false
	default:
	}
	select {
	case q.in <- v:
		return true
	case <-q.done:
		return false
	}
}

// Recv is closed after Close. Anything still buffered is dropped.
func (q *Queue[T]) Recv() <-chan T {
	return q.out
}

// Close marks the consumer as gone.
func (q *Queue[T]) Close() {
	q.once.Do(func() {
		close(q.done)
	})
}

func (q *Queue[T]) pump() {
	defer close(q.out)

	var buf []T
	for {
		var (
			out  chan T
			next T
		)
		if len(buf) > 0 {
			out = q.out
			next = buf[0]
		}

		select {
		case v := <-q.in:
			buf = append(buf, v)
		case out <- next:
			var zero T
			buf[0] = zero
			buf = buf[1:]
		case <-q.done:
			return
		}
	}
}

// Func adapts a plain function to a Sender.
type Func[T any] func(T) bool

func (f Func[T]) Send(v T) bool {
	return f(v)
}

// Recorder is a Sender that keeps everything it is given. Tests use it in
// place of a live queue.
type Recorder[T any] struct {
	mu     sync.Mutex
	sent   []T
	Closed bool
}

func (r *Recorder[T]) Send(v T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Closed {
		return false
	}
	r.sent = append(r.sent, v)
	return true
}

func (r *Recorder[T]) Sent() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.sent...)
}

func (r *Recorder[T]) Reset() {
	r.mu.Lock()
	r.sent = nil
	r.mu.Unlock()
}
