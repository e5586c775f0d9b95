package device_test

import (
	"image"
	"testing"
	"time"

	"github.com/jypelle/yuvbridge/internal/shm"
	"github.com/jypelle/yuvbridge/internal/srv/device"
	"github.com/jypelle/yuvbridge/internal/srv/event"
	"github.com/jypelle/yuvbridge/internal/yuv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayRefreshSimulation(t *testing.T) {
	acq := shm.NewMemoryAcquirer()
	video, err := acq.Acquire("video", shm.VideoBufferSize)
	require.NoError(t, err)
	for i := 0; i < yuv.LumaSize; i++ {
		video.Bytes()[i] = 255
	}

	display := device.NewDisplay(acq, "video", "", 10*time.Millisecond, true)
	preview := display.Refresh()
	assert.Equal(t, image.Rect(0, 0, 128, 64), preview.Bounds())

	ev := <-display.EventChannel()
	data, ok := ev.Data.(event.DisplayEventFrameData)
	require.True(t, ok)
	assert.True(t, data.Changed)
	assert.InDelta(t, 255, int(data.MeanLuma), 1)

	display.Refresh()
	ev = <-display.EventChannel()
	assert.False(t, ev.Data.(event.DisplayEventFrameData).Changed)
}

type recordingViewer struct {
	shown  []image.Image
	closed bool
}

func (v *recordingViewer) Show(img image.Image) {
	v.shown = append(v.shown, img)
}

func (v *recordingViewer) Close() {
	v.closed = true
}

func TestDisplayMirrorsFramesOnViewer(t *testing.T) {
	acq := shm.NewMemoryAcquirer()
	video, err := acq.Acquire("video", shm.VideoBufferSize)
	require.NoError(t, err)
	for i := yuv.LumaSize; i < shm.VideoBufferSize; i++ {
		video.Bytes()[i] = 128
	}
	video.Bytes()[0] = 200

	display := device.NewDisplay(acq, "video", "", 10*time.Millisecond, true)
	viewer := &recordingViewer{}
	display.SetViewer(viewer)

	display.Refresh()
	require.Len(t, viewer.shown, 1)
	assert.Equal(t, image.Rect(0, 0, yuv.OutputWidth, yuv.OutputHeight), viewer.shown[0].Bounds())

	// the mirrored frame is a copy, later writes do not leak into it
	video.Bytes()[0] = 10
	r, _, _, _ := viewer.shown[0].At(0, 0).RGBA()
	assert.Greater(t, r>>8, uint32(100))

	display.Start()
	display.Stop()
	assert.True(t, viewer.closed)
}
