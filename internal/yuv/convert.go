package yuv

const (
	InputWidth   = 320
	InputHeight  = 200
	OutputWidth  = 640
	OutputHeight = 360

	InputPixels = InputWidth * InputHeight
	LumaSize    = OutputWidth * OutputHeight
	ChromaSize  = LumaSize / 4
	BufferSize  = LumaSize + 2*ChromaSize
)

// Converter writes one frame into a planar Y, U, V buffer of BufferSize bytes.
type Converter struct {
	tables *Tables
}

func NewConverter(tables *Tables) *Converter {
	return &Converter{tables: tables}
}

// Convert upscales frame (InputPixels long) by nearest neighbour and writes
// it to dst (BufferSize long). One input sample is taken per 2x2 output
// block: its luma fills the four luma positions and its chroma the single
// shared U and V positions of that block.
func (c *Converter) Convert(frame []uint32, dst []byte) {
	t := c.tables
	lumaPlane := dst[:LumaSize:LumaSize]
	uPlane := dst[LumaSize : LumaSize+ChromaSize : LumaSize+ChromaSize]
	vPlane := dst[LumaSize+ChromaSize : BufferSize : BufferSize]

	for i := 0; i < OutputHeight; i += 2 {
		yIn := i * InputHeight / OutputHeight
		row := frame[yIn*InputWidth : (yIn+1)*InputWidth]
		top := i * OutputWidth
		bottom := top + OutputWidth
		chromaRow := (i / 2) * (OutputWidth / 2)

		for j := 0; j < OutputWidth; j += 2 {
			pixel := row[j*InputWidth/OutputWidth]

			y := t.Luma(pixel)
			lumaPlane[top+j] = y
			lumaPlane[top+j+1] = y
			lumaPlane[bottom+j] = y
			lumaPlane[bottom+j+1] = y

			u, v := t.Chroma(pixel)
			uPlane[chromaRow+j/2] = u
			vPlane[chromaRow+j/2] = v
		}
	}
}
