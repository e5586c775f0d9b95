package device

import (
	"sync"

	"github.com/jypelle/yuvbridge/internal/keys"
	"github.com/jypelle/yuvbridge/internal/shm"
	"github.com/jypelle/yuvbridge/internal/srv/event"
	"github.com/sirupsen/logrus"
)

// KeyStatus is the writing side of the key-status channel. The engine
// process only ever sees the bytes; the lock here just keeps the buttons
// and the api of this process from interleaving.
type KeyStatus struct {
	lock   sync.RWMutex
	region shm.Region
}

func NewKeyStatus(acquirer shm.Acquirer, name string) *KeyStatus {
	region, err := acquirer.Acquire(name, shm.KeyStatusSize)
	if err != nil {
		logrus.Fatalf("Unable to map key status %s: %v\n", name, err)
	}
	return &KeyStatus{region: region}
}

func (d *KeyStatus) Start() {
	logrus.Infof("Start key status device")

	d.lock.Lock()
	defer d.lock.Unlock()

	// a restarted input process must not leave keys held down
	status := d.region.Bytes()
	for i := range status {
		status[i] = 0
	}
}

func (d *KeyStatus) Stop() {
	logrus.Infof("Stop key status device")

	d.lock.Lock()
	defer d.lock.Unlock()

	if err := d.region.Close(); err != nil {
		logrus.Warnf("Unable to release key status: %v", err)
	}
}

func (d *KeyStatus) Set(button keys.Button, eventType event.ButtonEventType) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if button >= keys.ButtonCount {
		return
	}
	d.region.Bytes()[button] = eventType.Status()
}

func (d *KeyStatus) Snapshot() (status [keys.ButtonCount]byte) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	copy(status[:], d.region.Bytes())
	return status
}
