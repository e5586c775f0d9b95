// Package bridge connects a frame-producing engine to the display and input
// processes through two shared regions.
//
// A Bridge is driven from the engine's own frame callback. It never blocks
// and never synchronises with the other processes: the display process may
// read a half-written frame and the input process may change a key while it
// is being diffed.
package bridge

import (
	"time"

	"github.com/go-errors/errors"
	"github.com/jypelle/yuvbridge/internal/keys"
	"github.com/jypelle/yuvbridge/internal/shm"
	"github.com/jypelle/yuvbridge/internal/yuv"
	"github.com/sirupsen/logrus"
)

const (
	DefaultVideoBuffer = "/tmp/doom_yuv.bin"
	DefaultKeyStatus   = "/tmp/keystatus.bin"
)

// Paths are the rendezvous points shared with the other processes.
type Paths struct {
	VideoBuffer string
	KeyStatus   string
}

func DefaultPaths() Paths {
	return Paths{VideoBuffer: DefaultVideoBuffer, KeyStatus: DefaultKeyStatus}
}

// Bridge holds everything the engine hooks need between two calls.
type Bridge struct {
	converter *yuv.Converter
	video     shm.Region
	keyStatus shm.Region
	differ    keys.Differ
	queue     keys.Queue
	frames    uint64
	start     time.Time
}

// New builds the lookup tables and acquires both regions. Any error here
// leaves the engine with nothing to talk to; callers are expected to exit.
func New(acquirer shm.Acquirer, paths Paths) (*Bridge, error) {
	logrus.Infof("Init bridge (video: %s, keys: %s)", paths.VideoBuffer, paths.KeyStatus)

	b := &Bridge{
		converter: yuv.NewConverter(yuv.NewTables()),
		start:     time.Now(),
	}

	var err error
	b.video, err = acquirer.Acquire(paths.VideoBuffer, shm.VideoBufferSize)
	if err != nil {
		return nil, errors.WrapPrefix(err, "video buffer", 0)
	}

	b.keyStatus, err = acquirer.Acquire(paths.KeyStatus, shm.KeyStatusSize)
	if err != nil {
		b.video.Close()
		return nil, errors.WrapPrefix(err, "key status", 0)
	}

	return b, nil
}

// DrawFrame is the per-frame hook. frame must hold yuv.InputPixels pixels.
// It publishes the converted frame, then queues the key edges seen since
// the previous call.
func (b *Bridge) DrawFrame(frame []uint32) {
	b.converter.Convert(frame, b.video.Bytes())

	laps := b.queue.Laps()
	if n := b.differ.Diff(b.keyStatus.Bytes(), &b.queue); n > 0 {
		logrus.Debugf("Queued %d key events", n)
	}
	if b.queue.Laps() != laps {
		logrus.Debugf("Key queue wrapped onto unread events")
	}
	b.frames++
}

// GetKey pops the oldest queued key event. ok is false when none is queued.
func (b *Bridge) GetKey() (pressed bool, key byte, ok bool) {
	e, ok := b.queue.Pop()
	if !ok {
		return false, 0, false
	}
	return e.Pressed, e.Key, true
}

// Frames returns the number of DrawFrame calls so far.
func (b *Bridge) Frames() uint64 {
	return b.frames
}

// DroppedLaps is the number of times the key queue overwrote unread events.
func (b *Bridge) DroppedLaps() uint64 {
	return b.queue.Laps()
}

func (b *Bridge) SleepMs(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// TicksMs returns milliseconds elapsed since New.
func (b *Bridge) TicksMs() uint32 {
	return uint32(time.Since(b.start) / time.Millisecond)
}

// Close releases both regions. A running engine never calls it; process
// exit reclaims the mappings.
func (b *Bridge) Close() error {
	verr := b.video.Close()
	kerr := b.keyStatus.Close()
	if verr != nil {
		return errors.Wrap(verr, 0)
	}
	if kerr != nil {
		return errors.Wrap(kerr, 0)
	}
	return nil
}
