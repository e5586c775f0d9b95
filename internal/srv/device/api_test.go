package device_test

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jypelle/yuvbridge/apimodel"
	"github.com/jypelle/yuvbridge/internal/keys"
	"github.com/jypelle/yuvbridge/internal/shm"
	"github.com/jypelle/yuvbridge/internal/srv/config"
	"github.com/jypelle/yuvbridge/internal/srv/device"
	"github.com/jypelle/yuvbridge/internal/srv/event"
	"github.com/jypelle/yuvbridge/internal/yuv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApi(t *testing.T) (http.Handler, *device.KeyStatus) {
	serverConfig := config.NewServerConfig(filepath.Join(t.TempDir(), "yuvbridge"), false, true)
	acq := shm.NewMemoryAcquirer()
	keyStatus := device.NewKeyStatus(acq, serverConfig.KeyStatus)
	video, err := acq.Acquire(serverConfig.VideoBuffer, shm.VideoBufferSize)
	require.NoError(t, err)

	api := device.NewApi(serverConfig, keyStatus, video)
	go func() {
		for ev := range api.EventChannel() {
			data := ev.Data.(event.ApiEventKeyData)
			keyStatus.Set(data.Button, data.ButtonEventType)
			ev.Result <- nil
		}
	}()
	return api.Handler(), keyStatus
}

func call(handler http.Handler, method, path string, apiKey string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, nil)
	if apiKey != "" {
		r.Header.Set("x-api-key", apiKey)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

const apiKey = "change-me"

func TestApiRequiresKey(t *testing.T) {
	handler, _ := newApi(t)
	assert.Equal(t, http.StatusForbidden, call(handler, "GET", "/api/is_alive", "").Code)
	assert.Equal(t, http.StatusForbidden, call(handler, "GET", "/api/is_alive", "wrong").Code)
	assert.Equal(t, http.StatusOK, call(handler, "GET", "/api/is_alive", apiKey).Code)
}

func TestApiPressAndRelease(t *testing.T) {
	handler, keyStatus := newApi(t)

	w := call(handler, "POST", "/api/keys/fire/press", apiKey)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, byte(1), keyStatus.Snapshot()[keys.FIRE_BUTTON])

	w = call(handler, "POST", "/api/keys/6/press", apiKey)
	require.Equal(t, http.StatusOK, w.Code)

	w = call(handler, "GET", "/api/keys", apiKey)
	require.Equal(t, http.StatusOK, w.Code)
	var status apimodel.KeyStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	require.Len(t, status.Buttons, keys.ButtonCount)
	assert.Equal(t, apimodel.ButtonStatus{Name: "fire", Index: 4, Pressed: true}, status.Buttons[4])
	assert.Equal(t, apimodel.ButtonStatus{Name: "escape", Index: 6, Pressed: true}, status.Buttons[6])
	assert.False(t, status.Buttons[0].Pressed)

	w = call(handler, "POST", "/api/keys/fire/release", apiKey)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, byte(0), keyStatus.Snapshot()[keys.FIRE_BUTTON])
}

func TestApiBadRequests(t *testing.T) {
	handler, _ := newApi(t)
	assert.Equal(t, http.StatusBadRequest, call(handler, "POST", "/api/keys/jump/press", apiKey).Code)
	assert.Equal(t, http.StatusBadRequest, call(handler, "POST", "/api/keys/8/press", apiKey).Code)
	assert.Equal(t, http.StatusBadRequest, call(handler, "POST", "/api/keys/fire/hold", apiKey).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, call(handler, "GET", "/api/keys/fire/press", apiKey).Code)
	assert.Equal(t, http.StatusNotFound, call(handler, "GET", "/api/nothing", apiKey).Code)
}

func TestApiFrameSnapshot(t *testing.T) {
	handler, _ := newApi(t)
	w := call(handler, "GET", "/api/frame.png", apiKey)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, yuv.OutputWidth, img.Bounds().Dx())
	assert.Equal(t, yuv.OutputHeight, img.Bounds().Dy())
}
