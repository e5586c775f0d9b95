package config

import (
	_ "embed"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type ServerParam struct {
	VideoBuffer  string            `yaml:"video_buffer"`
	KeyStatus    string            `yaml:"key_status"`
	Fps          int64             `yaml:"fps"`
	Buttons      map[string]string `yaml:"buttons"`
	EventButtons EventButtonsParam `yaml:"event_buttons"`
	Display      DisplayParam      `yaml:"display"`
	ApiParam     ApiParam          `yaml:"api"`
}

// EventButtonsParam maps evdev key codes to logical button names.
type EventButtonsParam struct {
	Enabled bool              `yaml:"enabled"`
	Device  string            `yaml:"device"`
	Codes   map[uint16]string `yaml:"codes"`
}

type DisplayParam struct {
	Enabled   bool   `yaml:"enabled"`
	I2cBus    string `yaml:"i2c_bus"`
	RefreshMs int64  `yaml:"refresh_ms"`
	// Window opens a desktop window mirroring frames in simulation mode.
	Window bool `yaml:"window"`
}

type ApiParam struct {
	Enabled bool   `yaml:"enabled"`
	SslPort int64  `yaml:"ssl_port"`
	ApiKey  string `yaml:"api_key"`
}
