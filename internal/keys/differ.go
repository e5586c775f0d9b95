package keys

// Differ remembers the key-status bytes seen on the previous tick.
type Differ struct {
	last [ButtonCount]byte
}

// Diff compares current with the last observed snapshot and pushes one event
// per changed index, in ascending index order. A byte equal to 1 is a press,
// anything else a release. It returns the number of events pushed.
func (d *Differ) Diff(current []byte, q *Queue) int {
	pushed := 0
	for i := 0; i < ButtonCount && i < len(current); i++ {
		status := current[i]
		if status == d.last[i] {
			continue
		}
		q.Push(Event{Pressed: status == 1, Key: Translate(uint(i))})
		d.last[i] = status
		pushed++
	}
	return pushed
}

// Last returns a copy of the last observed snapshot.
func (d *Differ) Last() [ButtonCount]byte {
	return d.last
}
