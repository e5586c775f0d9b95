package yuv

import (
	"image"

	"golang.org/x/image/draw"
)

// Image views a published buffer as an image.YCbCr without copying. The
// caller sees whatever the producer is writing at the time.
func Image(buf []byte) *image.YCbCr {
	return &image.YCbCr{
		Y:              buf[:LumaSize],
		Cb:             buf[LumaSize : LumaSize+ChromaSize],
		Cr:             buf[LumaSize+ChromaSize : BufferSize],
		YStride:        OutputWidth,
		CStride:        OutputWidth / 2,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, OutputWidth, OutputHeight),
	}
}

// Preview scales the luma plane of buf down to width x height.
func Preview(buf []byte, width, height int) *image.Gray {
	luma := &image.Gray{
		Pix:    buf[:LumaSize],
		Stride: OutputWidth,
		Rect:   image.Rect(0, 0, OutputWidth, OutputHeight),
	}
	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), luma, luma.Bounds(), draw.Src, nil)
	return dst
}

// Snapshot copies buf into a standalone RGBA image, for encoders that must
// not race the producer.
func Snapshot(buf []byte) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, OutputWidth, OutputHeight))
	frozen := make([]byte, BufferSize)
	copy(frozen, buf)
	draw.Draw(dst, dst.Bounds(), Image(frozen), image.Point{}, draw.Src)
	return dst
}
