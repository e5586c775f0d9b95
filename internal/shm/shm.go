// Package shm hands out fixed-size byte regions that two processes
// rendezvous on by path convention.
package shm

const (
	// VideoBufferSize is the 640x360 4:2:0 planar frame (640*360*3/2).
	VideoBufferSize = 345600
	// KeyStatusSize is one byte per logical button.
	KeyStatusSize = 8
)

// Region is a fixed-size shared byte region. Bytes stays valid until Close.
type Region interface {
	Bytes() []byte
	Close() error
}

// Acquirer creates (or reuses) the named region and returns it with exactly
// size bytes available.
type Acquirer interface {
	Acquire(name string, size int) (Region, error)
}
