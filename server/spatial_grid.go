package server

import (
	"math"

	"github.com/lab1702/arena-bots/game"
)

// SpatialGrid buckets agents by ground position so collision and splash
// checks only look at nearby agents.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]int // agent ids per cell
}

// GridCellSize must be at least the largest distance a nearby query needs to
// cover (splash radius and body collisions).
const GridCellSize = 64.0

// NewSpatialGrid creates a grid covering a width×depth arena.
func NewSpatialGrid(width, depth float64) *SpatialGrid {
	cols := max(int(math.Ceil(width/GridCellSize)), 1)
	rows := max(int(math.Ceil(depth/GridCellSize)), 1)

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 4)
	}

	return &SpatialGrid{
		cellSize: GridCellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear empties the grid, keeping cell storage
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *SpatialGrid) cell(x, y float64) (int, int) {
	col := min(max(int(x/g.cellSize), 0), g.cols-1)
	row := min(max(int(y/g.cellSize), 0), g.rows-1)
	return col, row
}

// Insert adds an agent id at (x, y)
func (g *SpatialGrid) Insert(id int, x, y float64) {
	col, row := g.cell(x, y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], id)
}

// Nearby returns agent ids in the cell of (x, y) and the 8 around it.
// The caller must still check exact distances.
func (g *SpatialGrid) Nearby(x, y float64, dst []int) []int {
	col, row := g.cell(x, y)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			c, r := col+dc, row+dr
			if c < 0 || c >= g.cols || r < 0 || r >= g.rows {
				continue
			}
			dst = append(dst, g.cells[r*g.cols+c]...)
		}
	}
	return dst
}

// IndexAgents fills the grid with every live agent
func (g *SpatialGrid) IndexAgents(agents []*game.Agent) {
	g.Clear()
	for _, a := range agents {
		if a.Alive() {
			g.Insert(a.ID, a.Pos.X, a.Pos.Y)
		}
	}
}
