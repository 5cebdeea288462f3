package runner

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"

	"mlserve/internal/inference"
)

// ChannelOrder is the channel order a backend expects.
type ChannelOrder int

const (
	RGB ChannelOrder = iota
	BGR
)

// TensorSpec describes how an image becomes a backend tensor.
type TensorSpec struct {
	Size   int
	Order  ChannelOrder
	Layout inference.Layout
	// Scale multiplies 8-bit channel values; 1/255 maps them to [0,1].
	Scale float32
}

// ImageToTensor resizes img to a Size x Size square and lays it out as a
// batched float32 tensor of shape [1,3,S,S] (NCHW) or [1,S,S,3] (NHWC).
func ImageToTensor(img image.Image, spec TensorSpec) (inference.Tensor, error) {
	if img == nil {
		return inference.Tensor{}, fmt.Errorf("preprocess: nil image")
	}
	if spec.Size <= 0 {
		return inference.Tensor{}, fmt.Errorf("preprocess: invalid input size %d", spec.Size)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return inference.Tensor{}, fmt.Errorf("preprocess: empty image")
	}
	s := spec.Size
	resized := img
	if b.Dx() != s || b.Dy() != s {
		resized = resize.Resize(uint(s), uint(s), img, resize.Bilinear)
	}
	rb := resized.Bounds()
	plane := s * s
	data := make([]float32, 3*plane)
	idx := 0
	for y := 0; y < s; y++ {
		for x := 0; x < s; x++ {
			r, g, bl, _ := resized.At(rb.Min.X+x, rb.Min.Y+y).RGBA()
			c0, c1, c2 := float32(r>>8), float32(g>>8), float32(bl>>8)
			if spec.Order == BGR {
				c0, c2 = c2, c0
			}
			c0, c1, c2 = c0*spec.Scale, c1*spec.Scale, c2*spec.Scale
			switch spec.Layout {
			case inference.LayoutNHWC:
				data[idx*3] = c0
				data[idx*3+1] = c1
				data[idx*3+2] = c2
			default:
				data[idx] = c0
				data[idx+plane] = c1
				data[idx+2*plane] = c2
			}
			idx++
		}
	}
	shape := []int64{1, 3, int64(s), int64(s)}
	layout := inference.LayoutNCHW
	if spec.Layout == inference.LayoutNHWC {
		shape = []int64{1, int64(s), int64(s), 3}
		layout = inference.LayoutNHWC
	}
	return inference.Tensor{Data: data, Shape: shape, Layout: layout}, nil
}
