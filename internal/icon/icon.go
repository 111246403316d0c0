// Package icon decodes notification icon payloads into images, falling back
// to a neutral placeholder when the payload is missing or malformed.
package icon

import (
	"bytes"
	"image"
	"image/color"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// PlaceholderSize is the edge length of the generated placeholder square.
const PlaceholderSize = 48

var placeholderFill = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}

// Decode parses raw icon bytes into an image.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// DecodeOrPlaceholder decodes icon bytes, substituting the placeholder on
// failure. The second return reports whether the original payload decoded.
func DecodeOrPlaceholder(data []byte) (image.Image, bool) {
	img, err := Decode(data)
	if err != nil {
		return Placeholder(), false
	}
	return img, true
}

// Placeholder returns the solid square shown when a unit carries no usable
// icon.
func Placeholder() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, PlaceholderSize, PlaceholderSize))
	for y := 0; y < PlaceholderSize; y++ {
		for x := 0; x < PlaceholderSize; x++ {
			img.SetRGBA(x, y, placeholderFill)
		}
	}
	return img
}
