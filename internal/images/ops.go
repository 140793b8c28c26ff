// Package images holds the pixel operations the pipeline applies to product
// shots.
package images

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// whiteThreshold matches near-white studio backdrops.
const whiteThreshold = 240

// DecodeFile reads any of the registered formats from disk.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// RemoveBackground knocks near-white pixels out to full transparency.
func RemoveBackground(src image.Image) image.Image {
	bounds := src.Bounds()
	out := image.NewNRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			if px.R > whiteThreshold && px.G > whiteThreshold && px.B > whiteThreshold {
				out.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 0})
			} else {
				out.SetNRGBA(x, y, px)
			}
		}
	}
	return out
}

// Enhance doubles the image in both dimensions.
func Enhance(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w*2, h*2))

	for y := 0; y < h*2; y++ {
		for x := 0; x < w*2; x++ {
			px := color.NRGBAModel.Convert(src.At(bounds.Min.X+x/2, bounds.Min.Y+y/2)).(color.NRGBA)
			out.SetNRGBA(x, y, px)
		}
	}
	return out
}
