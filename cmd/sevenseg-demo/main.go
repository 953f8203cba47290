// Command sevenseg-demo wires a board.Board driving a sevenseg.Decoder and
// sevenseg.Display to an SDL2 window: a free-running counter drives four
// generator chips feeding the decoder's 4-bit input, and the resulting
// segment pattern is rendered as a seven-segment digit with its decoded
// character drawn alongside it. Strictly a demonstration binary; no core
// package imports this one.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"github.com/jmchacon/icboard/board"
	"github.com/jmchacon/icboard/chip"
	"github.com/jmchacon/icboard/generator"
	"github.com/jmchacon/icboard/logic"
	"github.com/jmchacon/icboard/sevenseg"
	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	scale    = flag.Int("scale", 8, "Scale factor for the rendered segment grid")
	rate     = flag.Duration("rate", 500*time.Millisecond, "How often the counter advances")
	tickStep = flag.Duration("tick", time.Millisecond, "Simulated dt per board.Run call")
)

const (
	gridW = 60
	gridH = 100
)

// segRects gives the pixel rectangle (in grid cells) for each segment in
// a..g order, in the conventional seven-segment layout: a top, b/c right
// side, d bottom, e/f left side, g middle.
var segRects = [7]image.Rectangle{
	image.Rect(10, 0, 50, 8),    // a: top
	image.Rect(44, 4, 52, 48),   // b: upper right
	image.Rect(44, 52, 52, 96),  // c: lower right
	image.Rect(10, 92, 50, 100), // d: bottom
	image.Rect(8, 52, 16, 96),   // e: lower left
	image.Rect(8, 4, 16, 48),    // f: upper left
	image.Rect(10, 46, 50, 54),  // g: middle
}

func main() {
	flag.Parse()

	b := board.New()
	vcc := b.RegisterChip(generator.New())
	decoder := b.RegisterChip(sevenseg.NewDecoder())
	display := b.RegisterChip(sevenseg.NewDisplay())

	bi := b.RegisterChip(generator.New())

	// One generator per input bit; setDigit flips their levels and the
	// trace fabric carries them into the decoder, the same role a bank of
	// external switches would play on real hardware.
	var bitGens [4]*generator.Generator
	bitPins := [4]chip.PinID{sevenseg.DecoderA, sevenseg.DecoderB, sevenseg.DecoderC, sevenseg.DecoderD}
	for i := range bitGens {
		bitGens[i] = generator.New().WithState(logic.Low)
		id := b.RegisterChip(bitGens[i])
		b.Connect(id, generator.OUT, decoder, bitPins[i])
	}

	b.Connect(vcc, generator.OUT, decoder, sevenseg.DecoderVCC)
	b.Connect(vcc, generator.OUT, display, sevenseg.DisplayVCC)
	b.Connect(bi, generator.OUT, decoder, sevenseg.DecoderBI)

	b.Connect(decoder, sevenseg.DecoderOA, display, sevenseg.DisplayA)
	b.Connect(decoder, sevenseg.DecoderOB, display, sevenseg.DisplayB)
	b.Connect(decoder, sevenseg.DecoderOC, display, sevenseg.DisplayC)
	b.Connect(decoder, sevenseg.DecoderOD, display, sevenseg.DisplayD)
	b.Connect(decoder, sevenseg.DecoderOE, display, sevenseg.DisplayE)
	b.Connect(decoder, sevenseg.DecoderOF, display, sevenseg.DisplayF)
	b.Connect(decoder, sevenseg.DecoderOG, display, sevenseg.DisplayG)

	dispChip, _ := b.GetChip(display)
	disp := dispChip.(*sevenseg.Display)

	w, h := gridW**scale, gridH**scale
	sdl.Main(func() {
		if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
			log.Fatalf("Can't init SDL: %v", err)
		}
		defer sdl.Quit()

		window, err := sdl.CreateWindow("sevenseg-demo", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(w), int32(h+24), sdl.WINDOW_SHOWN)
		if err != nil {
			log.Fatalf("Can't create window: %v", err)
		}
		defer window.Destroy()

		img := image.NewRGBA(image.Rect(0, 0, w, h+24))
		var counter uint8
		setDigit(bitGens, counter)

		last := time.Now()
		running := true
		for running {
			for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
				if _, ok := ev.(*sdl.QuitEvent); ok {
					running = false
				}
			}

			if time.Since(last) >= *rate {
				counter = (counter + 1) % 16
				setDigit(bitGens, counter)
				last = time.Now()
			}

			b.Run(*tickStep)
			render(img, disp.Segments(), disp.AsChar(), *scale)

			surface, err := window.GetSurface()
			if err != nil {
				log.Fatalf("Can't get window surface: %v", err)
			}
			blit(surface, img)
			window.UpdateSurface()
			sdl.Delay(16)
		}
	})
	fmt.Println("sevenseg-demo exiting")
}

// setDigit reconfigures the four bit generators to drive value's low
// nibble onto the decoder's inputs.
func setDigit(gens [4]*generator.Generator, value uint8) {
	for i, g := range gens {
		g.WithState(logic.FromBool(value&(1<<uint(i)) != 0))
	}
}

// render draws the lit segments of lit into img at the given scale, with
// ch printed below as a text label.
func render(img *image.RGBA, lit [7]bool, ch rune, scale int) {
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 255}), image.Point{}, draw.Src)

	on := color.RGBA{220, 30, 30, 255}
	off := color.RGBA{40, 10, 10, 255}
	for i, r := range segRects {
		c := off
		if lit[i] {
			c = on
		}
		scaled := image.Rect(r.Min.X*scale, r.Min.Y*scale, r.Max.X*scale, r.Max.Y*scale)
		draw.Draw(img, scaled, image.NewUniform(c), image.Point{}, draw.Src)
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{255, 255, 255, 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(gridW*scale/2-4, gridH*scale+16),
	}
	d.DrawString(string(ch))
}

func blit(surface *sdl.Surface, img *image.RGBA) {
	pix := surface.Pixels()
	bpp := int(surface.Format.BytesPerPixel)
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			c := img.RGBAAt(x, y)
			o := y*int(surface.Pitch) + x*bpp
			if o+3 >= len(pix) {
				continue
			}
			pix[o+0] = c.B
			pix[o+1] = c.G
			pix[o+2] = c.R
			pix[o+3] = c.A
		}
	}
}
