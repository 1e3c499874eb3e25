package testutil

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// PNG encodes a solid grey image of the given size.
func PNG(t testing.TB, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.Gray{Y: 128})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

// PNGHeader returns a small PNG whose IHDR claims width x height. Only the header is
// consistent, decoding the pixels fails.
func PNGHeader(t testing.TB, width, height uint32) []byte {
	t.Helper()

	data := PNG(t, 1, 1)
	// signature (8), IHDR length (4) and type (4), then width and height
	binary.BigEndian.PutUint32(data[16:20], width)
	binary.BigEndian.PutUint32(data[20:24], height)
	// the CRC covers the chunk type and its 13 data bytes
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data[:33]
}
