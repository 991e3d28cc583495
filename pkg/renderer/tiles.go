package renderer

import (
	"image"
	"math/rand"
)

// Tile is one rectangular region of the image.
type Tile struct {
	ID              int
	Bounds          image.Rectangle
	PassesCompleted int
	Random          *rand.Rand // Per-tile generator for deterministic renders
}

// NewTile creates a tile whose random generator is seeded from its ID.
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
		Random: rand.New(rand.NewSource(int64(id + 42))),
	}
}

// NewTileGrid covers a width x height image with tiles of the given size;
// edge tiles shrink to fit.
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1)))
			tileID++
		}
	}

	return tiles
}
