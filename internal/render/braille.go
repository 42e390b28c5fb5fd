package render

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = rune(0x2800)

// Braille is a monochrome terminal surface. A canvas of Width x Height
// pixels is sampled onto Cols x Rows braille cells, each holding 2x4 dots.
// Text is kept on a separate layer that wins over dots.
type Braille struct {
	Cols, Rows int

	width, height float64
	grid          [][]rune
	text          [][]rune
}

func NewBraille(cols, rows int, width, height float64) *Braille {
	b := &Braille{Cols: cols, Rows: rows, width: width, height: height}
	b.alloc()
	return b
}

func (b *Braille) alloc() {
	b.grid = make([][]rune, b.Rows)
	b.text = make([][]rune, b.Rows)
	for i := range b.grid {
		b.grid[i] = make([]rune, b.Cols)
		b.text[i] = make([]rune, b.Cols)
	}
	b.Clear()
}

func (b *Braille) Size() (float64, float64) { return b.width, b.height }

// Resize changes the logical canvas size. The cell grid is unchanged.
func (b *Braille) Resize(w, h float64) {
	b.width, b.height = w, h
	b.Clear()
}

// SetCells changes the terminal cell grid and clears it.
func (b *Braille) SetCells(cols, rows int) {
	b.Cols, b.Rows = max(cols, 1), max(rows, 1)
	b.alloc()
}

func (b *Braille) Clear() {
	for i := range b.grid {
		for j := range b.grid[i] {
			b.grid[i][j] = blank
			b.text[i][j] = 0
		}
	}
}

// dot maps a canvas point to sub-pixel coordinates.
func (b *Braille) dot(p mgl64.Vec2) (int, int) {
	if b.width <= 0 || b.height <= 0 {
		return -1, -1
	}
	x := p.X() / b.width * float64(b.Cols*2)
	y := p.Y() / b.height * float64(b.Rows*4)
	return int(math.Floor(x)), int(math.Floor(y))
}

// Set sets a dot in sub-pixel coordinates.
func (b *Braille) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= b.Cols || row >= b.Rows {
		return
	}
	b.grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the dot at sub-pixel (x, y) is lit.
func (b *Braille) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= b.Cols || y/4 >= b.Rows {
		return false
	}
	return b.grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// Line draws using Bresenham's algorithm. Color is ignored.
func (b *Braille) Line(p, q mgl64.Vec2, _ string) {
	x0, y0 := b.dot(p)
	x1, y1 := b.dot(q)
	if !b.reachable(x0, y0, x1, y1) {
		return
	}
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		b.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// reachable rejects segments entirely on one side of the grid.
func (b *Braille) reachable(x0, y0, x1, y1 int) bool {
	w, h := b.Cols*2, b.Rows*4
	switch {
	case x0 < 0 && x1 < 0, y0 < 0 && y1 < 0:
		return false
	case x0 >= w && x1 >= w, y0 >= h && y1 >= h:
		return false
	}
	limit := 4 * (w + h)
	for _, v := range [...]int{x0, y0, x1, y1} {
		if absInt(v) > limit {
			return false
		}
	}
	return true
}

// Polygon draws the outline only.
func (b *Braille) Polygon(pts []mgl64.Vec2, _ Paint) {
	for i := range pts {
		b.Line(pts[i], pts[(i+1)%len(pts)], "")
	}
}

func (b *Braille) Rect(min, max mgl64.Vec2, p Paint) {
	b.Polygon(rectPoints(min, max), p)
}

func (b *Braille) Text(at mgl64.Vec2, s string, _ string, align Align) {
	x, y := b.dot(at)
	col, row := x/2, y/4
	runes := []rune(s)
	if align == AlignCenter {
		col -= len(runes) / 2
	}
	if row < 0 || row >= b.Rows {
		return
	}
	for i, r := range runes {
		if c := col + i; c >= 0 && c < b.Cols {
			b.text[row][c] = r
		}
	}
}

func (b *Braille) String() string {
	var sb strings.Builder
	for i, row := range b.grid {
		for j, r := range row {
			if t := b.text[i][j]; t != 0 {
				r = t
			}
			sb.WriteRune(r)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
