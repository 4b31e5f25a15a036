package mqtt

import "log"

// queuedMsg stores a serialized MQTT message for replay after reconnection.
type queuedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer is a fixed-capacity FIFO holding messages while the broker is
// unreachable. Oldest messages are dropped on overflow. Not safe for
// concurrent use — the publisher synchronizes around it.
type ringBuffer struct {
	buf      []queuedMsg
	capacity int
	head     int // next write position
	count    int
	dropped  bool // true if any message was lost since last drain
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{
		buf:      make([]queuedMsg, capacity),
		capacity: capacity,
	}
}

func (r *ringBuffer) push(msg queuedMsg) {
	if r.count == r.capacity {
		if !r.dropped {
			log.Printf("mqtt: offline buffer full (%d messages), dropping oldest", r.capacity)
			r.dropped = true
		}
		// head already points at the oldest entry; overwrite it.
		r.buf[r.head] = msg
		r.head = (r.head + 1) % r.capacity
		return
	}
	r.buf[r.head] = msg
	r.head = (r.head + 1) % r.capacity
	r.count++
}

// drain returns the buffered messages oldest-first and empties the buffer.
func (r *ringBuffer) drain() []queuedMsg {
	if r.count == 0 {
		return nil
	}

	out := make([]queuedMsg, r.count)
	start := (r.head - r.count + r.capacity) % r.capacity
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(start+i)%r.capacity]
	}

	r.count = 0
	r.head = 0
	r.dropped = false
	return out
}

func (r *ringBuffer) len() int {
	return r.count
}
