package keys_test

import (
	"testing"

	"github.com/jypelle/yuvbridge/internal/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateKnownButtons(t *testing.T) {
	expected := map[keys.Button]byte{
		keys.RIGHT_BUTTON:    keys.KEY_RIGHTARROW,
		keys.LEFT_BUTTON:     keys.KEY_LEFTARROW,
		keys.FORWARD_BUTTON:  keys.KEY_UPARROW,
		keys.BACKWARD_BUTTON: keys.KEY_DOWNARROW,
		keys.FIRE_BUTTON:     keys.KEY_FIRE,
		keys.USE_BUTTON:      keys.KEY_USE,
		keys.ESCAPE_BUTTON:   keys.KEY_ESCAPE,
		keys.ENTER_BUTTON:    keys.KEY_ENTER,
	}
	for button, key := range expected {
		assert.Equal(t, key, keys.Translate(uint(button)), button.String())
	}
	assert.Equal(t, byte(27), keys.Translate(6))
}

func TestTranslateFallbackIsLowerCased(t *testing.T) {
	assert.Equal(t, byte('a'), keys.Translate('A'))
	assert.Equal(t, byte('z'), keys.Translate('z'))
	assert.Equal(t, byte('1'), keys.Translate('1'))
	assert.Equal(t, byte(8), keys.Translate(8))
}

func TestButtonNames(t *testing.T) {
	for i := 0; i < keys.ButtonCount; i++ {
		b, ok := keys.ButtonByName(keys.Button(i).String())
		require.True(t, ok)
		assert.Equal(t, keys.Button(i), b)
	}
	b, ok := keys.ButtonByName("Escape")
	assert.True(t, ok)
	assert.Equal(t, keys.ESCAPE_BUTTON, b)
	_, ok = keys.ButtonByName("jump")
	assert.False(t, ok)
	assert.Equal(t, "button12", keys.Button(12).String())
}

func TestQueueFIFO(t *testing.T) {
	var q keys.Queue
	_, ok := q.Pop()
	assert.False(t, ok)

	q.Push(keys.Event{Pressed: true, Key: 'a'})
	q.Push(keys.Event{Pressed: false, Key: 'b'})
	assert.Equal(t, 2, q.Len())

	e, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, keys.Event{Pressed: true, Key: 'a'}, e)
	e, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, keys.Event{Pressed: false, Key: 'b'}, e)
	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestQueueFullLooksEmpty(t *testing.T) {
	var q keys.Queue
	for i := 0; i < keys.QueueSize; i++ {
		q.Push(keys.Event{Pressed: true, Key: byte('a' + i)})
	}
	_, ok := q.Pop()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, uint64(1), q.Laps())
}

func TestQueueOverflowOverwritesSlotZero(t *testing.T) {
	var q keys.Queue
	for i := 0; i <= keys.QueueSize; i++ {
		q.Push(keys.Event{Pressed: true, Key: byte('a' + i)})
	}

	// the 17th push landed in slot 0 and is the only event left readable
	e, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, byte('a'+keys.QueueSize), e.Key)
	_, ok = q.Pop()
	assert.False(t, ok)
	assert.Equal(t, uint64(1), q.Laps())
}

func TestQueueWrapsAfterDraining(t *testing.T) {
	var q keys.Queue
	for round := 0; round < 3; round++ {
		for i := 0; i < 10; i++ {
			q.Push(keys.Event{Key: byte(i)})
		}
		for i := 0; i < 10; i++ {
			e, ok := q.Pop()
			require.True(t, ok)
			assert.Equal(t, byte(i), e.Key)
		}
	}
	assert.Equal(t, uint64(0), q.Laps())
}

func TestDifferEdgeSequence(t *testing.T) {
	var q keys.Queue
	var d keys.Differ
	status := make([]byte, keys.ButtonCount)

	assert.Equal(t, 0, d.Diff(status, &q))
	_, ok := q.Pop()
	assert.False(t, ok)

	status[3] = 1
	assert.Equal(t, 1, d.Diff(status, &q))
	e, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, keys.Event{Pressed: true, Key: keys.Translate(3)}, e)

	status[3] = 0
	status[5] = 1
	assert.Equal(t, 2, d.Diff(status, &q))
	e, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, keys.Event{Pressed: false, Key: keys.Translate(3)}, e)
	e, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, keys.Event{Pressed: true, Key: keys.Translate(5)}, e)
	_, ok = q.Pop()
	assert.False(t, ok)

	assert.Equal(t, [keys.ButtonCount]byte{5: 1}, d.Last())
}

func TestDifferSteadyStateIsSilent(t *testing.T) {
	var q keys.Queue
	var d keys.Differ
	status := []byte{1, 0, 0, 0, 0, 0, 0, 1}
	assert.Equal(t, 2, d.Diff(status, &q))
	assert.Equal(t, 0, d.Diff(status, &q))
	assert.Equal(t, 2, q.Len())
}

func TestDifferNonOneIsRelease(t *testing.T) {
	var q keys.Queue
	var d keys.Differ
	d.Diff([]byte{0, 0, 2}, &q)
	e, ok := q.Pop()
	require.True(t, ok)
	assert.False(t, e.Pressed)
	assert.Equal(t, keys.KEY_UPARROW, e.Key)
}
