package resolver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/specialistvlad/filtergrid/internal/schema"
)

var dimsSeparator = regexp.MustCompile(`\s*[,xX]\s*|\s+`)

// MaxDimension bounds each side of a matrix.
const MaxDimension = 64

// ParseDims reads a matrix size written as `X`, `X,Y`, `X Y` or `XxY`. X is
// the column count. A missing Y copies X. Components above MaxDimension are
// rejected.
func ParseDims(raw string) (schema.Dims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return schema.Dims{}, fmt.Errorf("empty size")
	}
	parts := dimsSeparator.Split(raw, -1)
	if len(parts) > 2 {
		return schema.Dims{}, fmt.Errorf("too many components in %q", raw)
	}
	vals := make([]int, 0, 2)
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return schema.Dims{}, fmt.Errorf("invalid size component %q", p)
		}
		if n > MaxDimension {
			return schema.Dims{}, fmt.Errorf("size component %d exceeds %d", n, MaxDimension)
		}
		vals = append(vals, n)
	}
	d := schema.Dims{Cols: vals[0], Rows: vals[0]}
	if len(vals) == 2 {
		d.Rows = vals[1]
	}
	return d, nil
}

// Grid is a row-major matrix of textual cells.
type Grid struct {
	Dims  schema.Dims
	Cells [][]string
}

// parseCells splits a stored matrix into rows of cells. A single line whose
// cell count matches cols is re-chunked into rows.
func parseCells(stored string, cols int) [][]string {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return nil
	}
	lines := strings.Split(stored, "\n")
	var rows [][]string
	for _, line := range lines {
		rows = append(rows, strings.Fields(line))
	}
	if len(rows) == 1 && cols > 0 && len(rows[0]) > cols {
		flat := rows[0]
		rows = nil
		for len(flat) > 0 {
			n := min(cols, len(flat))
			rows = append(rows, flat[:n])
			flat = flat[n:]
		}
	}
	return rows
}

// storedDims is the shape of a previously stored grid.
func storedDims(stored string) schema.Dims {
	rows := parseCells(stored, 0)
	if len(rows) == 0 {
		return schema.Dims{}
	}
	return schema.Dims{Cols: len(rows[0]), Rows: len(rows)}
}

// NewGrid lays stored cells out on a grid of the given dims. Existing cells
// are kept; new or empty cells become 0.
func NewGrid(stored string, d schema.Dims) Grid {
	src := parseCells(stored, d.Cols)
	g := Grid{Dims: d, Cells: make([][]string, d.Rows)}
	for r := 0; r < d.Rows; r++ {
		row := make([]string, d.Cols)
		for c := 0; c < d.Cols; c++ {
			row[c] = "0"
			if r < len(src) && c < len(src[r]) && src[r][c] != "" {
				row[c] = src[r][c]
			}
		}
		g.Cells[r] = row
	}
	return g
}

// Compile renders the grid on one line.
func (g Grid) Compile() string {
	rows := make([]string, len(g.Cells))
	for i, row := range g.Cells {
		rows[i] = strings.Join(row, " ")
	}
	return strings.Join(rows, " ")
}

// Stored renders the grid with one row per line, the form kept in the store.
func (g Grid) Stored() string {
	rows := make([]string, len(g.Cells))
	for i, row := range g.Cells {
		rows[i] = strings.Join(row, " ")
	}
	return strings.Join(rows, "\n")
}

// Display renders one row per line with right-aligned columns.
func (g Grid) Display() string {
	widths := make([]int, g.Dims.Cols)
	for _, row := range g.Cells {
		for c, cell := range row {
			widths[c] = max(widths[c], len(cell))
		}
	}
	var sb strings.Builder
	for r, row := range g.Cells {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c, cell := range row {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%*s", widths[c], cell)
		}
	}
	return sb.String()
}
