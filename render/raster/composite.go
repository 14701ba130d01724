package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/VantageDataChat/GoSlides/render"
	"github.com/VantageDataChat/GoSlides/scene"
)

// composite draws layer l onto dst: shadow first, then the blurred
// content, both scaled by the layer opacity and mixed with its blend mode.
func composite(dst *image.RGBA, l *layer) {
	st := l.style
	opacity := st.Opacity
	if opacity <= 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}

	src := l.img
	if st.Blur > 0 {
		src = blur(src, st.Blur*l.scale)
	}
	if sh := st.Shadow; sh != nil && sh.Color.A > 0 {
		group := shadowOf(src, sh, l.scale)
		draw.Draw(group, group.Bounds(), src, image.Point{}, draw.Over)
		src = group
	}
	blendInto(dst, src, opacity, st.Blend)
}

// blur returns a Gaussian blurred copy of img. sigma is in device pixels.
func blur(img *image.RGBA, sigma float64) *image.RGBA {
	return toRGBA(imaging.Blur(img, sigma))
}

// shadowOf builds the shadow of src: its alpha tinted with the shadow
// color, grown by the spread, blurred and offset.
func shadowOf(src *image.RGBA, sh *render.Shadow, scale float64) *image.RGBA {
	b := src.Bounds()
	tint := image.NewNRGBA(b)
	ink := alphaBounds(src)
	for y := ink.Min.Y; y < ink.Max.Y; y++ {
		for x := ink.Min.X; x < ink.Max.X; x++ {
			a := src.Pix[src.PixOffset(x, y)+3]
			if a == 0 {
				continue
			}
			i := tint.PixOffset(x, y)
			tint.Pix[i+0] = sh.Color.R
			tint.Pix[i+1] = sh.Color.G
			tint.Pix[i+2] = sh.Color.B
			tint.Pix[i+3] = uint8(uint16(a) * uint16(sh.Color.A) / 255)
		}
	}

	var img image.Image = tint
	if spread := sh.Spread * scale; spread != 0 && !ink.Empty() {
		img = grow(tint, ink, spread)
	}
	if sh.Blur > 0 {
		// shadow blur is a radius; the Gaussian sigma is half of it
		img = imaging.Blur(img, sh.Blur*scale/2)
	}

	out := image.NewRGBA(b)
	off := image.Pt(int(math.Round(sh.OffsetX*scale)), int(math.Round(sh.OffsetY*scale)))
	draw.Draw(out, b.Add(off), img, b.Min, draw.Over)
	return out
}

// grow scales the ink rectangle of img about its center so that each side
// moves outward by spread pixels. A negative spread shrinks it.
func grow(img *image.NRGBA, ink image.Rectangle, spread float64) *image.NRGBA {
	w, h := float64(ink.Dx()), float64(ink.Dy())
	nw, nh := w+2*spread, h+2*spread
	out := image.NewNRGBA(img.Bounds())
	if nw <= 0 || nh <= 0 {
		return out
	}
	sx, sy := nw/w, nh/h
	cx := float64(ink.Min.X) + w/2
	cy := float64(ink.Min.Y) + h/2
	s2d := f64.Aff3{
		sx, 0, cx - sx*cx,
		0, sy, cy - sy*cy,
	}
	draw.ApproxBiLinear.Transform(out, s2d, img, ink, draw.Src, nil)
	return out
}

// alphaBounds returns the smallest rectangle holding every non-transparent
// pixel of img.
func alphaBounds(img *image.RGBA) image.Rectangle {
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X, b.Min.Y
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y) : img.PixOffset(b.Min.X, y)+4*b.Dx()]
		for x := 0; x < b.Dx(); x++ {
			if row[4*x+3] == 0 {
				continue
			}
			minX = min(minX, b.Min.X+x)
			maxX = max(maxX, b.Min.X+x+1)
			minY = min(minY, y)
			maxY = max(maxY, y+1)
		}
	}
	if minX >= maxX {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX, maxY)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)
	return out
}

// blendInto composites the premultiplied src over dst, scaling src by
// opacity and mixing colors with mode:
//
//	co = (1-ad)·cs + (1-as)·cd + as·ad·B(Cd, Cs)
//	ao = as + ad·(1-as)
//
// where lower-case values are premultiplied and B works on straight color.
// On a transparent destination the result alpha is the source alpha times
// opacity for every mode.
func blendInto(dst, src *image.RGBA, opacity float64, mode scene.BlendMode) {
	b := dst.Bounds().Intersect(src.Bounds())
	fn := blendFunc(mode)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := src.PixOffset(x, y)
			sa := float64(src.Pix[si+3]) / 255 * opacity
			if sa == 0 {
				continue
			}
			di := dst.PixOffset(x, y)
			da := float64(dst.Pix[di+3]) / 255
			for k := 0; k < 3; k++ {
				sc := float64(src.Pix[si+k]) / 255 * opacity
				dc := float64(dst.Pix[di+k]) / 255
				var co float64
				if fn == nil || da == 0 {
					co = sc + dc*(1-sa)
				} else {
					co = (1-da)*sc + (1-sa)*dc + sa*da*fn(dc/da, sc/sa)
				}
				dst.Pix[di+k] = unit8(co)
			}
			dst.Pix[di+3] = unit8(sa + da*(1-sa))
		}
	}
}

func unit8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// blendFunc returns the separable blend function for mode, or nil for
// normal source-over.
func blendFunc(mode scene.BlendMode) func(cb, cs float64) float64 {
	switch mode {
	case scene.BlendMultiply:
		return func(cb, cs float64) float64 { return cb * cs }
	case scene.BlendScreen:
		return screen
	case scene.BlendOverlay:
		return func(cb, cs float64) float64 { return hardLight(cs, cb) }
	case scene.BlendDarken:
		return math.Min
	case scene.BlendLighten:
		return math.Max
	case scene.BlendColorDodge:
		return func(cb, cs float64) float64 {
			switch {
			case cb == 0:
				return 0
			case cs >= 1:
				return 1
			}
			return math.Min(1, cb/(1-cs))
		}
	case scene.BlendColorBurn:
		return func(cb, cs float64) float64 {
			switch {
			case cb >= 1:
				return 1
			case cs == 0:
				return 0
			}
			return 1 - math.Min(1, (1-cb)/cs)
		}
	case scene.BlendHardLight:
		return hardLight
	case scene.BlendSoftLight:
		return softLight
	case scene.BlendDifference:
		return func(cb, cs float64) float64 { return math.Abs(cb - cs) }
	case scene.BlendExclusion:
		return func(cb, cs float64) float64 { return cb + cs - 2*cb*cs }
	}
	return nil
}

func screen(cb, cs float64) float64 { return cb + cs - cb*cs }

func hardLight(cb, cs float64) float64 {
	if cs <= 0.5 {
		return cb * 2 * cs
	}
	return screen(cb, 2*cs-1)
}

func softLight(cb, cs float64) float64 {
	if cs <= 0.5 {
		return cb - (1-2*cs)*cb*(1-cb)
	}
	var d float64
	if cb <= 0.25 {
		d = ((16*cb-12)*cb + 4) * cb
	} else {
		d = math.Sqrt(cb)
	}
	return cb + (2*cs-1)*(d-cb)
}

// Flatten returns img composited over an opaque background color.
func Flatten(img image.Image, bg color.Color) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}
