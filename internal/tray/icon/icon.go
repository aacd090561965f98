// Package icon renders the tray icon in the formats the platform trays expect.
package icon

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"runtime"
)

// Size is the edge length of the icon in pixels
const Size = 16

// ForOS returns the icon encoded for goos: ICO on Windows, PNG elsewhere.
func ForOS(goos string) []byte {
	data := PNG()
	if goos == "windows" && data != nil {
		return ICO(data, Size)
	}
	return data
}

// Current returns the icon for the running platform
func Current() []byte {
	return ForOS(runtime.GOOS)
}

// PNG renders a rounded pad with two darker thumb dots
func PNG() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, Size, Size))
	body := color.NRGBA{R: 0x34, G: 0x98, B: 0xdb, A: 0xff}
	dot := color.NRGBA{R: 0x1b, G: 0x4f, B: 0x72, A: 0xff}
	for y := 4; y < 12; y++ {
		for x := 1; x < Size-1; x++ {
			if (x == 1 || x == Size-2) && (y == 4 || y == 11) {
				continue
			}
			img.Set(x, y, body)
		}
	}
	for _, c := range [][2]int{{4, 7}, {4, 8}, {11, 7}, {11, 8}} {
		img.Set(c[0], c[1], dot)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

// ICO wraps PNG image data of the given size in a single-image ICO container.
func ICO(pngData []byte, size int) []byte {
	const headerLen = 6 + 16
	dim := byte(size)
	if size >= 256 {
		dim = 0
	}

	out := make([]byte, 0, headerLen+len(pngData))
	// ICONDIR
	out = binary.LittleEndian.AppendUint16(out, 0) // reserved
	out = binary.LittleEndian.AppendUint16(out, 1) // icon
	out = binary.LittleEndian.AppendUint16(out, 1) // image count
	// ICONDIRENTRY
	out = append(out, dim, dim, 0, 0)               // width, height, palette, reserved
	out = binary.LittleEndian.AppendUint16(out, 1)  // planes
	out = binary.LittleEndian.AppendUint16(out, 32) // bits per pixel
	out = binary.LittleEndian.AppendUint32(out, uint32(len(pngData)))
	out = binary.LittleEndian.AppendUint32(out, headerLen)
	return append(out, pngData...)
}
