// Package yuv turns the engine's 320x200 XRGB frame into the 640x360 planar
// 4:2:0 buffer published to the display process.
//
// Multiplications are replaced by lookups into nine tables computed once;
// all sums are done in 8 bits and wrap, there is no clamping.
package yuv

// Per-channel coefficients. Each table entry is coefficient*i truncated.
const (
	yRed   = 0.299
	yGreen = 0.587
	yBlue  = 0.114
	uRed   = 0.147
	uGreen = 0.289
	uBlue  = 0.436
	vRed   = 0.615
	vGreen = 0.515
	vBlue  = 0.100
)

type Table [256]uint8

type Tables struct {
	YRed, YGreen, YBlue Table
	URed, UGreen, UBlue Table
	VRed, VGreen, VBlue Table
}

func newTable(coefficient float64) (t Table) {
	for i := range t {
		t[i] = uint8(coefficient * float64(i))
	}
	return t
}

// NewTables precomputes the lookup tables. The result is never modified
// afterwards and may be shared.
func NewTables() *Tables {
	return &Tables{
		YRed:   newTable(yRed),
		YGreen: newTable(yGreen),
		YBlue:  newTable(yBlue),
		URed:   newTable(uRed),
		UGreen: newTable(uGreen),
		UBlue:  newTable(uBlue),
		VRed:   newTable(vRed),
		VGreen: newTable(vGreen),
		VBlue:  newTable(vBlue),
	}
}

// Luma returns Y for a packed 0x00RRGGBB pixel.
func (t *Tables) Luma(pixel uint32) uint8 {
	r, g, b := split(pixel)
	return t.YRed[r] + t.YGreen[g] + t.YBlue[b]
}

// Chroma returns U and V for a packed 0x00RRGGBB pixel.
func (t *Tables) Chroma(pixel uint32) (u, v uint8) {
	r, g, b := split(pixel)
	u = 128 - t.URed[r] - t.UGreen[g] + t.UBlue[b]
	v = 128 + t.VRed[r] - t.VGreen[g] - t.VBlue[b]
	return u, v
}

// split ignores the top byte.
func split(pixel uint32) (r, g, b uint8) {
	return uint8(pixel >> 16), uint8(pixel >> 8), uint8(pixel)
}
