package pptx

import (
	"strconv"

	"github.com/beevik/etree"
)

// Table wraps an a:tbl element inside a graphic frame.
type Table struct {
	el *etree.Element
}

// Row is one table row.
type Row struct {
	el *etree.Element
}

// Cell is one table cell.
type Cell struct {
	el *etree.Element
}

// Rows returns the table's rows in document order.
func (t *Table) Rows() []Row {
	els := t.el.SelectElements("a:tr")
	rows := make([]Row, len(els))
	for i, el := range els {
		rows[i] = Row{el: el}
	}
	return rows
}

// Cells returns the row's cells in document order.
func (r Row) Cells() []Cell {
	els := r.el.SelectElements("a:tc")
	cells := make([]Cell, len(els))
	for i, el := range els {
		cells[i] = Cell{el: el}
	}
	return cells
}

// TextFrame returns the cell's text container, or nil for cells without one.
func (c Cell) TextFrame() *TextFrame {
	txBody := c.el.SelectElement("a:txBody")
	if txBody == nil {
		return nil
	}
	return &TextFrame{el: txBody}
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}
