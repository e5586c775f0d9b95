package config

import (
	"os"
	"path/filepath"

	"github.com/go-errors/errors"
	"github.com/jypelle/yuvbridge/internal/bridge"
	"github.com/jypelle/yuvbridge/internal/keys"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const paramFilename = "param.yaml"

type ServerConfig struct {
	ConfigDir      string
	DebugMode      bool
	SimulationMode bool

	*ServerParam
}

func NewServerConfig(configDir string, debugMode bool, simulationMode bool) *ServerConfig {
	serverConfig := &ServerConfig{
		ConfigDir:      configDir,
		DebugMode:      debugMode,
		SimulationMode: simulationMode,
	}

	// Check Configuration folder
	_, err := os.Stat(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Printf("Creation of config folder: %s", configDir)
			err = os.MkdirAll(configDir, 0770)
			if err != nil {
				logrus.Fatalf("Unable to create config folder: %v\n", err)
			}
		} else {
			logrus.Fatalf("Unable to access config folder: %s", configDir)
		}
	}

	// Open param file
	rawConfig, err := os.ReadFile(serverConfig.GetCompleteParamFilename())
	if err == nil {
		serverConfig.ServerParam, err = ParseServerParam(rawConfig)
		if err != nil {
			logrus.Fatalf("Unable to interpret config file: %v\n", err)
		}
	} else {
		// Create default param file
		logrus.Infof("Create default param file")
		serverConfig.ServerParam, err = ParseServerParam(ParamDefaultFile)
		if err != nil {
			logrus.Fatalf("Unable to interpret config file: %v\n", err)
		}

		serverConfig.SaveParam()
	}

	return serverConfig
}

// MaxFps bounds the engine tick rate, a faster ticker interval rounds to zero.
const MaxFps = 1000

// ParseServerParam reads a param file. Missing keys fall back to the
// embedded defaults.
func ParseServerParam(raw []byte) (*ServerParam, error) {
	defaults := ServerParam{}
	if err := yaml.Unmarshal(ParamDefaultFile, &defaults); err != nil {
		return nil, errors.WrapPrefix(err, "default param", 0)
	}

	// yaml merges into a non-nil map, a user button list must replace the default one
	param := defaults
	param.Buttons = nil
	param.EventButtons.Codes = nil
	if err := yaml.Unmarshal(raw, &param); err != nil {
		return nil, errors.Wrap(err, 0)
	}
	if param.Buttons == nil {
		param.Buttons = defaults.Buttons
	}
	if param.EventButtons.Codes == nil {
		param.EventButtons.Codes = defaults.EventButtons.Codes
	}

	if param.Fps <= 0 || param.Fps > MaxFps {
		return nil, errors.Errorf("fps must be between 1 and %d, got %d", MaxFps, param.Fps)
	}
	if param.Display.RefreshMs <= 0 {
		return nil, errors.Errorf("display refresh_ms must be positive, got %d", param.Display.RefreshMs)
	}
	if param.VideoBuffer == "" || param.KeyStatus == "" {
		return nil, errors.Errorf("video_buffer and key_status paths are required")
	}
	for name := range param.Buttons {
		if _, ok := keys.ButtonByName(name); !ok {
			return nil, errors.Errorf("unknown button %q", name)
		}
	}
	if param.EventButtons.Enabled && param.EventButtons.Device == "" {
		return nil, errors.Errorf("event_buttons device is required")
	}
	for code, name := range param.EventButtons.Codes {
		if _, ok := keys.ButtonByName(name); !ok {
			return nil, errors.Errorf("unknown button %q for event code %d", name, code)
		}
	}
	return &param, nil
}

func (sc *ServerConfig) GetCompleteParamFilename() string {
	return filepath.Join(sc.ConfigDir, paramFilename)
}

func (sc *ServerConfig) Paths() bridge.Paths {
	return bridge.Paths{VideoBuffer: sc.VideoBuffer, KeyStatus: sc.KeyStatus}
}

func (sc *ServerConfig) SaveParam() {
	logrus.Debugf("Save param file: %s", sc.GetCompleteParamFilename())
	rawConfig, err := yaml.Marshal(*sc.ServerParam)
	if err != nil {
		logrus.Fatalf("Unable to serialize param file: %v\n", err)
	}
	err = os.WriteFile(sc.GetCompleteParamFilename(), rawConfig, 0660)
	if err != nil {
		logrus.Fatalf("Unable to save param file: %v\n", err)
	}
}
