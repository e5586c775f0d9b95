package device

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/jypelle/yuvbridge/internal/bridge"
	"github.com/jypelle/yuvbridge/internal/keys"
	"github.com/jypelle/yuvbridge/internal/srv/event"
	"github.com/jypelle/yuvbridge/internal/yuv"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

const markerSize = 12

// Engine stands in for the game: it renders a test pattern into a 320x200
// frame, hands every frame to the bridge and reacts to the keys polled back.
// The bridge is only ever touched from the engine goroutine.
type Engine struct {
	lock         sync.RWMutex
	eventChannel chan event.EngineEvent
	bridge       *bridge.Bridge
	fps          int64

	canvas *image.RGBA
	frame  []uint32

	frameCount uint64
	markerX    int
	markerY    int
	fire       bool
	paused     bool
	lastKey    string

	frameTicker *time.Ticker

	askDone chan bool
	done    chan bool
}

func NewEngine(b *bridge.Bridge, fps int64) *Engine {
	return &Engine{
		eventChannel: make(chan event.EngineEvent, keys.QueueSize),
		bridge:       b,
		fps:          fps,
		canvas:       image.NewRGBA(image.Rect(0, 0, yuv.InputWidth, yuv.InputHeight)),
		frame:        make([]uint32, yuv.InputPixels),
		markerX:      (yuv.InputWidth - markerSize) / 2,
		markerY:      (yuv.InputHeight - markerSize) / 2,
		lastKey:      "-",
		askDone:      make(chan bool),
		done:         make(chan bool),
	}
}

func (d *Engine) Start() {
	logrus.Infof("Start engine device (%d fps)", d.fps)

	d.lock.Lock()
	defer d.lock.Unlock()

	d.frameTicker = time.NewTicker(time.Second / time.Duration(d.fps))
	go func() {
		for loop := true; loop; {
			select {
			case <-d.frameTicker.C:
				d.Tick()
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

func (d *Engine) StopSendingEvent() {
	logrus.Infof("Stop engine device")

	d.lock.Lock()
	defer d.lock.Unlock()

	d.frameTicker.Stop()
	d.askDone <- true
	<-d.done
}

func (d *Engine) EventChannel() chan event.EngineEvent {
	return d.eventChannel
}

// Tick runs one engine frame: render, publish through the bridge, then
// drain the keys the bridge queued.
func (d *Engine) Tick() {
	d.render()
	d.bridge.DrawFrame(d.frame)
	d.frameCount++

	for {
		pressed, key, ok := d.bridge.GetKey()
		if !ok {
			break
		}
		d.handleKey(pressed, key)
	}
}

func (d *Engine) FrameCount() uint64 {
	return d.frameCount
}

// Marker returns the top left corner of the player marker.
func (d *Engine) Marker() (x, y int) {
	return d.markerX, d.markerY
}

func (d *Engine) Paused() bool {
	return d.paused
}

func (d *Engine) handleKey(pressed bool, key byte) {
	d.lastKey = fmt.Sprintf("%02x/%t", key, pressed)
	d.send(event.EngineEvent{Data: event.EngineEventKeyData{Pressed: pressed, Key: key}})

	if !pressed {
		if key == keys.KEY_FIRE {
			d.fire = false
		}
		return
	}

	switch key {
	case keys.KEY_ESCAPE:
		d.paused = !d.paused
	case keys.KEY_ENTER:
		if d.paused {
			d.send(event.EngineEvent{Data: event.EngineEventQuitData{}})
		}
	case keys.KEY_FIRE:
		d.fire = true
	}
	if d.paused {
		return
	}

	step := markerSize / 2
	switch key {
	case keys.KEY_LEFTARROW:
		d.markerX = clamp(d.markerX-step, 0, yuv.InputWidth-markerSize)
	case keys.KEY_RIGHTARROW:
		d.markerX = clamp(d.markerX+step, 0, yuv.InputWidth-markerSize)
	case keys.KEY_UPARROW:
		d.markerY = clamp(d.markerY-step, 0, yuv.InputHeight-markerSize)
	case keys.KEY_DOWNARROW:
		d.markerY = clamp(d.markerY+step, 0, yuv.InputHeight-markerSize)
	}
}

// send drops the event rather than stall the frame loop.
func (d *Engine) send(ev event.EngineEvent) {
	select {
	case d.eventChannel <- ev:
	default:
		logrus.Debugf("Engine event dropped: %#v", ev.Data)
	}
}

var barColors = []color.RGBA{
	{255, 255, 255, 255},
	{255, 255, 0, 255},
	{0, 255, 255, 255},
	{0, 255, 0, 255},
	{255, 0, 255, 255},
	{255, 0, 0, 255},
	{0, 0, 255, 255},
	{0, 0, 0, 255},
}

func (d *Engine) render() {
	bounds := d.canvas.Bounds()
	barWidth := yuv.InputWidth / len(barColors)
	shift := int(d.frameCount) % yuv.InputWidth
	if d.paused {
		shift = 0
	}
	for x := 0; x < yuv.InputWidth; x++ {
		c := barColors[((x+shift)%yuv.InputWidth)/barWidth]
		draw.Draw(d.canvas, image.Rect(x, 0, x+1, bounds.Max.Y), image.NewUniform(c), image.Point{}, draw.Src)
	}

	markerColor := color.RGBA{128, 128, 128, 255}
	if d.fire {
		markerColor = color.RGBA{255, 64, 0, 255}
	}
	marker := image.Rect(d.markerX, d.markerY, d.markerX+markerSize, d.markerY+markerSize)
	draw.Draw(d.canvas, marker, image.NewUniform(markerColor), image.Point{}, draw.Src)

	draw.Draw(d.canvas, image.Rect(0, bounds.Max.Y-16, bounds.Max.X, bounds.Max.Y), image.NewUniform(color.RGBA{0, 0, 0, 255}), image.Point{}, draw.Src)
	status := fmt.Sprintf("%03ds frame %d key %s", d.bridge.TicksMs()/1000, d.frameCount, d.lastKey)
	if d.paused {
		status = "paused - enter to quit"
	}
	AddLabel(d.canvas, 4, bounds.Max.Y-4, status)

	pack(d.canvas, d.frame)
}

// pack turns RGBA pixels into 0x00RRGGBB words.
func pack(src *image.RGBA, dst []uint32) {
	for i := range dst {
		p := src.Pix[i*4 : i*4+3 : i*4+3]
		dst[i] = uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
	}
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
