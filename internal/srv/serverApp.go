package srv

import (
	"time"

	"github.com/jypelle/yuvbridge/internal/bridge"
	"github.com/jypelle/yuvbridge/internal/shm"
	"github.com/jypelle/yuvbridge/internal/srv/config"
	"github.com/jypelle/yuvbridge/internal/srv/device"
	"github.com/jypelle/yuvbridge/internal/version"
	"github.com/sirupsen/logrus"
)

// Role selects which side of the shared channels this process plays.
type Role int64

const (
	ENGINE_ROLE Role = iota
	INPUT_ROLE
	VIEW_ROLE
)

func (r Role) String() string {
	switch r {
	case ENGINE_ROLE:
		return "engine"
	case INPUT_ROLE:
		return "input"
	case VIEW_ROLE:
		return "view"
	}
	return "unknown"
}

type ServerApp struct {
	*config.ServerConfig
	role     Role
	acquirer shm.Acquirer

	bridge          *bridge.Bridge
	engineDevice    *device.Engine
	keyStatusDevice *device.KeyStatus
	buttonsDevice   *device.Buttons
	eventButtons    *device.EventButtons
	apiDevice       *device.Api
	displayDevice   *device.Display

	eventLoopAskDone chan bool
	eventLoopDone    chan bool
}

func NewServerApp(serverConfig *config.ServerConfig, role Role, acquirer shm.Acquirer) *ServerApp {

	logrus.Debugf("Creation of yuvbridge %s %s ...", role, version.AppVersion.String())

	app := &ServerApp{
		ServerConfig:     serverConfig,
		role:             role,
		acquirer:         acquirer,
		eventLoopAskDone: make(chan bool),
		eventLoopDone:    make(chan bool),
	}

	switch role {
	case ENGINE_ROLE:
		var err error
		app.bridge, err = bridge.New(acquirer, app.Paths())
		if err != nil {
			logrus.Fatalf("Unable to init bridge: %v\n", err)
		}
		app.engineDevice = device.NewEngine(app.bridge, app.Fps)
	case INPUT_ROLE:
		app.keyStatusDevice = device.NewKeyStatus(acquirer, app.KeyStatus)
		app.buttonsDevice = device.NewButtons(app.Buttons, app.SimulationMode)
		if app.EventButtons.Enabled {
			app.eventButtons = device.NewEventButtons(app.EventButtons.Device, app.EventButtons.Codes, app.SimulationMode)
		}
		if app.ApiParam.Enabled {
			video, err := acquirer.Acquire(app.VideoBuffer, shm.VideoBufferSize)
			if err != nil {
				logrus.Fatalf("Unable to map video buffer %s: %v\n", app.VideoBuffer, err)
			}
			app.apiDevice = device.NewApi(serverConfig, app.keyStatusDevice, video)
		}
	case VIEW_ROLE:
		app.displayDevice = device.NewDisplay(
			acquirer,
			app.VideoBuffer,
			app.Display.I2cBus,
			time.Duration(app.Display.RefreshMs)*time.Millisecond,
			app.SimulationMode || !app.Display.Enabled,
		)
	}

	logrus.Debugln("Server created")

	return app
}

// SetViewer mirrors the view role frames on viewer, other roles ignore it.
func (s *ServerApp) SetViewer(viewer device.Viewer) {
	if s.displayDevice != nil {
		s.displayDevice.SetViewer(viewer)
	}
}

func (s *ServerApp) Start() {
	logrus.Printf("Starting yuvbridge %s ...", s.role)

	logrus.Printf("Starting devices ...")

	if s.keyStatusDevice != nil {
		s.keyStatusDevice.Start()
	}

	// Start event loop
	go s.eventLoop()

	if s.engineDevice != nil {
		s.engineDevice.Start()
	}
	if s.buttonsDevice != nil {
		s.buttonsDevice.Start()
	}
	if s.eventButtons != nil {
		s.eventButtons.Start()
	}
	if s.apiDevice != nil {
		s.apiDevice.Start()
	}
	if s.displayDevice != nil {
		s.displayDevice.Start()
	}
}

func (s *ServerApp) Stop() {
	logrus.Printf("Stopping yuvbridge %s ...", s.role)

	if s.displayDevice != nil {
		s.displayDevice.Stop()
	}
	if s.apiDevice != nil {
		s.apiDevice.StopSendingEvent()
	}
	if s.eventButtons != nil {
		s.eventButtons.StopSendingEvent()
	}
	if s.buttonsDevice != nil {
		s.buttonsDevice.StopSendingEvent()
	}
	if s.engineDevice != nil {
		s.engineDevice.StopSendingEvent()
	}

	// Stop event loop
	logrus.Infof("Stop event loop")
	s.eventLoopAskDone <- true
	<-s.eventLoopDone

	if s.keyStatusDevice != nil {
		s.keyStatusDevice.Stop()
	}

	if s.bridge != nil {
		logrus.Infof("%d frames published, key queue wrapped %d times", s.bridge.Frames(), s.bridge.DroppedLaps())
	}

	logrus.Printf("Server stopped")
}
