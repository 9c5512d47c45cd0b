package export

import (
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"time"

	"github.com/san-kum/bubblechart/internal/anim"
	"github.com/san-kum/bubblechart/internal/chart"
	"github.com/san-kum/bubblechart/internal/dataset"
	"github.com/san-kum/bubblechart/internal/scene"
)

type GIFOptions struct {
	Interval   time.Duration
	Transition time.Duration
	FPS        int
}

func (o GIFOptions) validate() error {
	if o.FPS <= 0 {
		return fmt.Errorf("export: fps must be positive, got %d", o.FPS)
	}
	return nil
}

// Sample is one captured moment of the animation.
type Sample struct {
	At      time.Duration
	Year    int
	Circles []scene.State
}

// Play runs one full cycle of the animation on a virtual clock: the
// controller advances the frames, the scene transitions between them, and
// emit receives the scene sampled FPS times per second.
func Play(ctx context.Context, c *chart.Chart, ds *dataset.Dataset, opts GIFOptions, emit func(Sample) error) error {
	if err := opts.validate(); err != nil {
		return err
	}
	sc := scene.New(c, opts.Transition)
	var clock time.Duration

	ctrl, err := anim.New(ds.Len(), opts.Interval, func(i int) {
		sc.Apply(c.Frame(ds.Frames[i]), clock)
	})
	if err != nil {
		return err
	}

	step := time.Second / time.Duration(opts.FPS)
	perFrame := int(opts.Interval / step)
	if perFrame < 1 {
		perFrame = 1
	}

	for k := 0; k < ds.Len(); k++ {
		if k == 0 {
			ctrl.Seek(0)
		} else {
			ctrl.Tick()
		}
		start := clock
		for s := 0; s < perFrame; s++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			at := start + time.Duration(s)*step
			if err := emit(Sample{At: at, Year: sc.Year(), Circles: sc.Sample(at)}); err != nil {
				return err
			}
		}
		clock = start + opts.Interval
	}
	return nil
}

// GIF renders one cycle of the animation as an animated GIF.
func (r *Raster) GIF(ctx context.Context, c *chart.Chart, ds *dataset.Dataset, opts GIFOptions) (*gif.GIF, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	out := &gif.GIF{LoopCount: 0}
	delay := 100 / opts.FPS
	if delay < 1 {
		delay = 1
	}

	err := Play(ctx, c, ds, opts, func(s Sample) error {
		img, err := r.Draw(c, s.Year, s.Circles)
		if err != nil {
			return err
		}
		out.Image = append(out.Image, toPaletted(img))
		out.Delay = append(out.Delay, delay)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toPaletted(img image.Image) *image.Paletted {
	b := img.Bounds()
	p := image.NewPaletted(b, palette.WebSafe)
	draw.Draw(p, b, img, b.Min, draw.Src)
	return p
}
