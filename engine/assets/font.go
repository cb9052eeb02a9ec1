package assets

import (
	"fmt"
	"image"

	"github.com/fzipp/bmfont"
	xdraw "golang.org/x/image/draw"

	"github.com/spectral-engine/spectral/engine/core"
)

// Glyph is one character of a bitmap font atlas, in atlas pixel
// coordinates.
type Glyph struct {
	Codepoint rune
	X         uint16
	Y         uint16
	Width     uint16
	Height    uint16
	XOffset   int16
	YOffset   int16
	XAdvance  int16
	Page      uint8
}

// BitmapFont is a parsed AngelCode .fnt font together with its page
// sheets. Distance field text rendering samples the page sheets through
// the vector texture of the distance-field shader.
type BitmapFont struct {
	Face        string
	Size        uint32
	LineHeight  int32
	Baseline    int32
	AtlasWidth  int32
	AtlasHeight int32

	Glyphs   map[rune]Glyph
	kernings map[[2]rune]int16

	Pages map[int]image.Image
}

// LoadBitmapFont parses a .fnt descriptor and loads its page sheets.
func LoadBitmapFont(path string) (*BitmapFont, error) {
	font, err := bmfont.Load(path)
	if err != nil {
		return nil, fmt.Errorf("bitmap font %q: %w", path, err)
	}

	f := &BitmapFont{
		Face:        font.Descriptor.Info.Face,
		Size:        uint32(font.Descriptor.Info.Size),
		LineHeight:  int32(font.Descriptor.Common.LineHeight),
		Baseline:    int32(font.Descriptor.Common.Base),
		AtlasWidth:  int32(font.Descriptor.Common.ScaleW),
		AtlasHeight: int32(font.Descriptor.Common.ScaleH),
		Glyphs:      make(map[rune]Glyph, len(font.Descriptor.Chars)),
		kernings:    make(map[[2]rune]int16, len(font.Descriptor.Kerning)),
		Pages:       font.PageSheets,
	}

	for _, g := range font.Descriptor.Chars {
		f.Glyphs[g.ID] = Glyph{
			Codepoint: g.ID,
			X:         uint16(g.X),
			Y:         uint16(g.Y),
			Width:     uint16(g.Width),
			Height:    uint16(g.Height),
			XOffset:   int16(g.XOffset),
			YOffset:   int16(g.YOffset),
			XAdvance:  int16(g.XAdvance),
			Page:      uint8(g.Page),
		}
	}
	for p, k := range font.Descriptor.Kerning {
		f.kernings[[2]rune{p.First, p.Second}] = int16(k.Amount)
	}

	core.LogDebug("loaded bitmap font %q: %d glyphs, %d pages", f.Face, len(f.Glyphs), len(f.Pages))
	return f, nil
}

// Kerning returns the horizontal adjustment between two characters.
func (f *BitmapFont) Kerning(first, second rune) int16 {
	return f.kernings[[2]rune{first, second}]
}

// ScalePage resamples a page sheet to the given size. A distance field
// atlas is produced from a high resolution rasterization and scaled down
// to the size it will be sampled at.
func ScalePage(src image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}
