package simwindow

import (
	"image"
	"sync"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"github.com/sirupsen/logrus"
)

// Window shows the last published frame in a desktop window, standing in
// for the OLED when running in simulation mode.
type Window struct {
	lock    sync.RWMutex
	lastImg image.Image

	window *app.Window
}

func Open(title string) *Window {
	w := &Window{
		window: app.NewWindow(
			app.Title(title),
			app.Size(unit.Px(640), unit.Px(360)),
			app.MinSize(unit.Px(320), unit.Px(180)),
		),
	}
	go func() {
		if err := w.gioloop(); err != nil {
			logrus.Warnf("Simulation window closed: %v", err)
		}
	}()
	go app.Main()
	return w
}

func (w *Window) Show(img image.Image) {
	w.lock.Lock()
	w.lastImg = img
	w.lock.Unlock()
	w.window.Invalidate()
}

func (w *Window) Close() {
	w.window.Close()
}

func (w *Window) gioloop() error {
	var ops op.Ops
	for {
		e := <-w.window.Events()
		switch e := e.(type) {
		case system.DestroyEvent:
			return e.Err
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)

			w.lock.RLock()
			lastImg := w.lastImg
			w.lock.RUnlock()

			if lastImg != nil {
				img := widget.Image{Src: paint.NewImageOp(lastImg), Fit: widget.Contain}
				img.Layout(gtx)
			}
			e.Frame(gtx.Ops)
		}
	}
}
