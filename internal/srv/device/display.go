package device

import (
	"image"
	"sync"
	"time"

	"github.com/jypelle/yuvbridge/internal/shm"
	"github.com/jypelle/yuvbridge/internal/srv/event"
	"github.com/jypelle/yuvbridge/internal/yuv"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
)

const (
	oledWidth  = 128
	oledHeight = 64
)

// Viewer mirrors each refreshed frame outside of the OLED.
type Viewer interface {
	Show(img image.Image)
	Close()
}

// Display is the consumer side of the video channel: it samples the
// published frame at its own pace and mirrors a luma preview on an SSD1306.
// Frames may be read while the engine is writing them.
type Display struct {
	oledLock    sync.Mutex
	oledDisplay *ssd1306.Dev
	i2cBus      i2c.BusCloser

	lock           sync.RWMutex
	simulationMode bool
	busName        string
	refresh        time.Duration
	video          shm.Region
	lastMean       int
	viewer         Viewer

	eventChannel  chan event.DisplayEvent
	refreshTicker *time.Ticker

	askDone chan bool
	done    chan bool
}

func NewDisplay(acquirer shm.Acquirer, videoBuffer string, busName string, refresh time.Duration, simulationMode bool) *Display {
	if !simulationMode {
		if _, err := host.Init(); err != nil {
			logrus.Fatalf("Unable to initialize periph host: %v\n", err)
		}
	}

	video, err := acquirer.Acquire(videoBuffer, shm.VideoBufferSize)
	if err != nil {
		logrus.Fatalf("Unable to map video buffer %s: %v\n", videoBuffer, err)
	}

	device := Display{
		simulationMode: simulationMode,
		busName:        busName,
		refresh:        refresh,
		video:          video,
		lastMean:       -1,
		eventChannel:   make(chan event.DisplayEvent, 1),
		askDone:        make(chan bool),
		done:           make(chan bool),
	}

	return &device
}

// SetViewer must be called before Start.
func (d *Display) SetViewer(viewer Viewer) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.viewer = viewer
}

func (d *Display) Start() {
	logrus.Infof("Start display device")

	if !d.simulationMode {
		var err error
		// Open a handle to the configured I²C bus ("" is the first available):
		d.i2cBus, err = i2creg.Open(d.busName)
		if err != nil {
			logrus.Fatalf("Unable to open i2c bus: %v\n", err)
		}

		d.oledDisplay, err = ssd1306.NewI2C(d.i2cBus, &ssd1306.DefaultOpts)
		if err != nil {
			logrus.Fatalf("Unable to initialize oled display: %v\n", err)
		}
	}

	d.refreshTicker = time.NewTicker(d.refresh)
	go func() {
		for loop := true; loop; {
			select {
			case <-d.askDone:
				loop = false
			case <-d.refreshTicker.C:
				d.Refresh()
			}
		}
		if !d.simulationMode {
			d.oledLock.Lock()
			d.oledDisplay.Halt()
			d.i2cBus.Close()
			d.oledLock.Unlock()
		}
		d.done <- true
	}()
}

func (d *Display) Stop() {
	logrus.Infof("Stop display device")

	d.refreshTicker.Stop()
	d.askDone <- true
	<-d.done

	d.lock.Lock()
	defer d.lock.Unlock()
	if d.viewer != nil {
		d.viewer.Close()
	}
	d.video.Close()
}

func (d *Display) EventChannel() chan event.DisplayEvent {
	return d.eventChannel
}

// Refresh samples the video channel once and pushes the preview.
func (d *Display) Refresh() image.Image {
	d.lock.Lock()
	defer d.lock.Unlock()

	preview := yuv.Preview(d.video.Bytes(), oledWidth, oledHeight)

	if !d.simulationMode {
		d.oledLock.Lock()
		err := d.oledDisplay.Draw(d.oledDisplay.Bounds(), preview, image.Point{})
		d.oledLock.Unlock()
		if err != nil {
			logrus.Warnf("Unable to draw preview: %v", err)
		}
	}

	if d.viewer != nil {
		d.viewer.Show(yuv.Snapshot(d.video.Bytes()))
	}

	mean := meanLuma(preview)
	changed := mean != d.lastMean
	d.lastMean = mean
	select {
	case d.eventChannel <- event.DisplayEvent{Data: event.DisplayEventFrameData{MeanLuma: uint8(mean), Changed: changed}}:
	default:
	}
	return preview
}

func meanLuma(img *image.Gray) int {
	if len(img.Pix) == 0 {
		return 0
	}
	sum := 0
	for _, y := range img.Pix {
		sum += int(y)
	}
	return sum / len(img.Pix)
}
