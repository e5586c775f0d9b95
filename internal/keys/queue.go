package keys

import "fmt"

// Event is one edge of a button, already translated to an engine key.
type Event struct {
	Pressed bool
	Key     byte
}

func (e Event) String() string {
	if e.Pressed {
		return fmt.Sprintf("press 0x%02x", e.Key)
	}
	return fmt.Sprintf("release 0x%02x", e.Key)
}

// pack stores the pressed flag in the high byte and the key in the low byte.
func (e Event) pack() uint16 {
	var pressed uint16
	if e.Pressed {
		pressed = 1
	}
	return pressed<<8 | uint16(e.Key)
}

func unpack(data uint16) Event {
	return Event{Pressed: data>>8 != 0, Key: byte(data)}
}

// QueueSize is the capacity of the event queue.
const QueueSize = 16

// Queue is a fixed ring of events. Push never fails: the write cursor wraps
// and overwrites whatever is there, read or not. The queue is empty when both
// cursors are equal, so sixteen unread events look like none.
type Queue struct {
	slots [QueueSize]uint16
	write uint
	read  uint
	laps  uint64
}

func (q *Queue) Push(e Event) {
	q.slots[q.write] = e.pack()
	q.write = (q.write + 1) % QueueSize
	if q.write == q.read {
		q.laps++
	}
}

// Pop returns the oldest unread event, or false when the cursors are equal.
func (q *Queue) Pop() (Event, bool) {
	if q.read == q.write {
		return Event{}, false
	}
	data := q.slots[q.read]
	q.read = (q.read + 1) % QueueSize
	return unpack(data), true
}

// Len is the number of events Pop will return before reporting empty.
func (q *Queue) Len() int {
	return int((q.write + QueueSize - q.read) % QueueSize)
}

// Laps counts pushes that brought the write cursor onto the read cursor,
// each of which silently discarded every unread event.
func (q *Queue) Laps() uint64 {
	return q.laps
}
