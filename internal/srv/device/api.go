package device

import (
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jypelle/yuvbridge/apimodel"
	"github.com/jypelle/yuvbridge/internal/keys"
	"github.com/jypelle/yuvbridge/internal/shm"
	"github.com/jypelle/yuvbridge/internal/srv/config"
	"github.com/jypelle/yuvbridge/internal/srv/event"
	"github.com/jypelle/yuvbridge/internal/tool"
	"github.com/jypelle/yuvbridge/internal/yuv"
	"github.com/sirupsen/logrus"
)

// Api lets a remote client press buttons and grab the published frame.
// Key writes go through the event loop, like the physical buttons do.
type Api struct {
	lock         sync.RWMutex
	eventChannel chan event.ApiEvent

	router    *mux.Router
	apiRouter *mux.Router
	server    *http.Server

	keyStatus *KeyStatus
	video     shm.Region

	config  *config.ServerConfig
	askDone chan bool
	done    chan bool
}

func NewApi(config *config.ServerConfig, keyStatus *KeyStatus, video shm.Region) *Api {
	api := Api{
		config:       config,
		keyStatus:    keyStatus,
		video:        video,
		eventChannel: make(chan event.ApiEvent),
		askDone:      make(chan bool),
		done:         make(chan bool),
	}

	api.router = mux.NewRouter().StrictSlash(false)

	// API Routes
	api.apiRouter = api.router.PathPrefix("/api").Subrouter()
	api.apiRouter.NotFoundHandler = http.HandlerFunc(ErrorNotFoundAction)
	api.apiRouter.MethodNotAllowedHandler = http.HandlerFunc(ErrorMethodNotAllowedAction)

	// Auth middleware
	api.apiRouter.Use(
		func(handler http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer func() {
					if rec := recover(); rec != nil {
						logrus.Warningf("recovered from panic : [%v] - stack trace : \n [%s]", rec, debug.Stack())
						strMessage := fmt.Sprintf("%v", rec)
						GlobalErrorAction(w, strMessage, http.StatusInternalServerError)
					}
				}()

				// Check API Key
				apiKey := r.Header.Get("x-api-key")
				if apiKey != config.ServerParam.ApiParam.ApiKey {
					ErrorStatusAction(w, r, http.StatusForbidden)
					return
				}

				logrus.Debugf("PATH: %s %s", r.Host, r.URL.Path)

				handler.ServeHTTP(w, r)
			})
		})

	// Create server check endpoint
	api.apiRouter.HandleFunc("/is_alive",
		func(w http.ResponseWriter, r *http.Request) {
			ErrorStatusAction(w, r, http.StatusOK)
		}).Methods("GET")

	api.apiRouter.HandleFunc("/keys",
		func(w http.ResponseWriter, r *http.Request) {
			status := api.keyStatus.Snapshot()
			keyStatus := apimodel.KeyStatus{}
			for i, s := range status {
				keyStatus.Buttons = append(keyStatus.Buttons, apimodel.ButtonStatus{
					Name:    keys.Button(i).String(),
					Index:   i,
					Pressed: s == 1,
				})
			}
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(keyStatus); err != nil {
				logrus.Warnf("Unable to encode key status: %v", err)
			}
		}).Methods("GET")

	api.apiRouter.HandleFunc("/keys/{button}/{action}",
		func(w http.ResponseWriter, r *http.Request) {
			vars := mux.Vars(r)
			button, ok := parseButton(vars["button"])
			if !ok {
				apimodel.UnknownButtonErrorMessage.Send(w)
				return
			}

			var eventType event.ButtonEventType
			switch vars["action"] {
			case "press":
				eventType = event.PRESS_EVENT_TYPE
			case "release":
				eventType = event.RELEASE_EVENT_TYPE
			default:
				apimodel.UnknownActionErrorMessage.Send(w)
				return
			}

			result := make(chan error)
			api.eventChannel <- event.ApiEvent{Result: result, Data: event.ApiEventKeyData{Button: button, ButtonEventType: eventType}}
			err := <-result
			if err == nil {
				ErrorStatusAction(w, r, http.StatusOK)
			} else {
				GlobalErrorAction(w, err.Error(), http.StatusServiceUnavailable)
			}
		}).Methods("POST")

	api.apiRouter.HandleFunc("/frame.png",
		func(w http.ResponseWriter, r *http.Request) {
			api.lock.RLock()
			img := yuv.Snapshot(api.video.Bytes())
			api.lock.RUnlock()

			w.Header().Set("Content-Type", "image/png")
			w.Header().Set("Cache-Control", "no-store")
			if err := png.Encode(w, img); err != nil {
				logrus.Warnf("Unable to encode frame: %v", err)
			}
		}).Methods("GET")

	// Tell the browser that it's OK for JS to communicate with the server
	headersOk := handlers.AllowedHeaders([]string{"Authorization", "x-api-key"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"})

	api.server = &http.Server{
		Addr:         ":" + strconv.FormatInt(config.ServerParam.ApiParam.SslPort, 10),
		Handler:      api.Handler(handlers.CORS(originsOk, headersOk, methodsOk)),
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 240,
	}

	return &api
}

// Handler wraps the router with the given middleware and compression.
func (d *Api) Handler(middleware ...func(http.Handler) http.Handler) http.Handler {
	var handler http.Handler = d.router
	for _, m := range middleware {
		handler = m(handler)
	}
	return handlers.CompressHandler(handler)
}

func (d *Api) Start() {
	logrus.Infof("Start api device")

	existServerCert, err := tool.IsFileExists(d.selfSignedCertFilename())
	if err != nil {
		logrus.Fatalf("Unable to access %s: %v\n", d.selfSignedCertFilename(), err)
	}

	existServerKey, err := tool.IsFileExists(d.selfSignedKeyFilename())
	if err != nil {
		logrus.Fatalf("Unable to access %s: %v\n", d.selfSignedKeyFilename(), err)
	}

	if !existServerCert || !existServerKey {
		logrus.Info("Missing cert and key files, trying to generate them...")
		cert := tool.SelfSignedCert{
			Organization: "yuvbridge",
			CommonName:   "yuvbridge input",
			Validity:     10 * 365 * 24 * time.Hour,
		}
		err = cert.Generate(d.selfSignedKeyFilename(), d.selfSignedCertFilename())
		if err != nil {
			logrus.Fatalf("Unable to generate cert and key files : %v\n", err)
		}
		logrus.Info("Self-signed cert and key files generated")
	}

	// Launch https server
	go func() {
		err := d.server.ListenAndServeTLS(d.selfSignedCertFilename(), d.selfSignedKeyFilename())
		if err != nil && err != http.ErrServerClosed {
			logrus.Error(err)
		}
	}()
}

func (d *Api) StopSendingEvent() {
	logrus.Infof("Stop api device")
	d.server.Shutdown(context.Background())

	d.lock.Lock()
	defer d.lock.Unlock()
	d.video.Close()
}

func (d *Api) EventChannel() chan event.ApiEvent {
	return d.eventChannel
}

func (d *Api) selfSignedKeyFilename() string {
	return filepath.Join(d.config.ConfigDir, "key.pem")
}

func (d *Api) selfSignedCertFilename() string {
	return filepath.Join(d.config.ConfigDir, "cert.pem")
}

// parseButton accepts a button name or its index.
func parseButton(s string) (keys.Button, bool) {
	if button, ok := keys.ButtonByName(s); ok {
		return button, true
	}
	index, err := strconv.ParseUint(s, 10, 0)
	if err != nil || index >= keys.ButtonCount {
		return 0, false
	}
	return keys.Button(index), true
}

func ErrorNotFoundAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusNotFound)
}

func ErrorMethodNotAllowedAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusMethodNotAllowed)
}

func ErrorStatusAction(w http.ResponseWriter, r *http.Request, status int) {
	apimodel.NewErrorMessage(status, "").Send(w)
}

func GlobalErrorAction(w http.ResponseWriter, message string, status int) {
	apimodel.NewErrorMessage(status, message).Send(w)
}
