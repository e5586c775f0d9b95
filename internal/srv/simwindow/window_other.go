//go:build !amd64

package simwindow

import (
	"image"

	"github.com/sirupsen/logrus"
)

// Window is a no-op on boards, frames only go to the OLED.
type Window struct{}

func Open(title string) *Window {
	logrus.Debugf("No simulation window for %s on this platform", title)
	return &Window{}
}

func (w *Window) Show(img image.Image) {
}

func (w *Window) Close() {
}
