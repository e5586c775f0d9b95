package srv

import (
	"syscall"

	"github.com/jypelle/yuvbridge/internal/srv/event"
	"github.com/sirupsen/logrus"
)

// Channels of devices this role does not run stay nil and never fire.

func (s *ServerApp) engineEvents() chan event.EngineEvent {
	if s.engineDevice == nil {
		return nil
	}
	return s.engineDevice.EventChannel()
}

func (s *ServerApp) buttonEvents() chan event.ButtonEvent {
	if s.buttonsDevice == nil {
		return nil
	}
	return s.buttonsDevice.EventChannel()
}

func (s *ServerApp) eventButtonEvents() chan event.ButtonEvent {
	if s.eventButtons == nil {
		return nil
	}
	return s.eventButtons.EventChannel()
}

func (s *ServerApp) apiEvents() chan event.ApiEvent {
	if s.apiDevice == nil {
		return nil
	}
	return s.apiDevice.EventChannel()
}

func (s *ServerApp) displayEvents() chan event.DisplayEvent {
	if s.displayDevice == nil {
		return nil
	}
	return s.displayDevice.EventChannel()
}

func (s *ServerApp) eventLoop() {
	for loop := true; loop; {
		select {
		case ev := <-s.engineEvents():
			switch data := ev.Data.(type) {
			case event.EngineEventKeyData:
				logrus.Debugf("Receive engine key event: 0x%02x, %t", data.Key, data.Pressed)
			case event.EngineEventQuitData:
				logrus.Infof("Engine asked to quit")
				syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
			}
		case ev := <-s.buttonEvents():
			logrus.Debugf("Receive button event: %s, %d", ev.Button, ev.ButtonEventType)
			s.keyStatusDevice.Set(ev.Button, ev.ButtonEventType)
		case ev := <-s.eventButtonEvents():
			logrus.Debugf("Receive input event: %s, %d", ev.Button, ev.ButtonEventType)
			s.keyStatusDevice.Set(ev.Button, ev.ButtonEventType)
		case ev := <-s.apiEvents():
			switch data := ev.Data.(type) {
			case event.ApiEventKeyData:
				logrus.Debugf("Receive api key event: %s, %d", data.Button, data.ButtonEventType)
				s.keyStatusDevice.Set(data.Button, data.ButtonEventType)
				ev.Result <- nil
			default:
				ev.Result <- nil
			}
		case ev := <-s.displayEvents():
			switch data := ev.Data.(type) {
			case event.DisplayEventFrameData:
				if data.Changed {
					logrus.Debugf("Receive display frame: mean luma %d", data.MeanLuma)
				}
			}
		case <-s.eventLoopAskDone:
			loop = false
		}
	}
	s.eventLoopDone <- true
}
