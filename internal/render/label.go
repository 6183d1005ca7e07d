package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const labelPad = 4

// DrawLabel writes lines of text top-left onto dst.
func DrawLabel(dst draw.Image, lines []string, c color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}
	b := dst.Bounds()
	lineH := face.Metrics().Height.Ceil()
	for i, line := range lines {
		d.Dot = fixed.P(b.Min.X+labelPad, b.Min.Y+labelPad+face.Ascent+i*lineH)
		d.DrawString(line)
	}
}

func labelLines(scene Scene) []string {
	lines := []string{fmt.Sprintf("frame %d  %.2fs", scene.Index, scene.Time)}
	for i := range scene.Hands {
		hf := &scene.Hands[i]
		line := fmt.Sprintf("%-5s %s %.2f", hf.Pose.Hand, hf.Pose.State, hf.Pose.Conf)
		if len(hf.Matches) > 0 {
			line += " " + strings.Join(hf.Matches, ",")
		}
		lines = append(lines, line)
	}
	return lines
}
