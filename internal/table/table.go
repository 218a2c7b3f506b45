// Package table is the in-memory form of the daily and weekly CSV files: an ordered
// list of columns and rows of column name to cell text.
package table

// Row maps a column name to its cell text, a missing column reads as empty.
type Row map[string]string

type Table struct {
	Columns []string
	Rows    []Row

	index map[string]struct{}
}

func New(columns ...string) *Table {
	t := &Table{}
	for _, c := range columns {
		t.addColumn(c)
	}
	return t
}

func (t *Table) addColumn(name string) {
	if t.index == nil {
		t.index = make(map[string]struct{}, len(t.Columns))
		for _, c := range t.Columns {
			t.index[c] = struct{}{}
		}
	}
	if _, ok := t.index[name]; ok {
		return
	}
	t.index[name] = struct{}{}
	t.Columns = append(t.Columns, name)
}

// Append adds a row, columns not yet known are added after the existing ones
// in the order `columns` lists them.
func (t *Table) Append(columns []string, row Row) {
	for _, c := range columns {
		t.addColumn(c)
	}
	t.Rows = append(t.Rows, row)
}

// Cell returns the value of `column` in row `i`.
func (t *Table) Cell(i int, column string) string {
	return t.Rows[i][column]
}

// Record returns row `i` laid out in column order.
func (t *Table) Record(i int) []string {
	out := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = t.Rows[i][c]
	}
	return out
}

// Concat appends every row of `others` to t, the columns of t become the union
// of all columns in first-seen order.
func (t *Table) Concat(others ...*Table) {
	for _, other := range others {
		for _, row := range other.Rows {
			t.Append(other.Columns, row)
		}
		// header-only tables still contribute their columns
		for _, c := range other.Columns {
			t.addColumn(c)
		}
	}
}

// SetColumn sets `column` to `value` on every row, adding the column if needed.
func (t *Table) SetColumn(column, value string) {
	t.addColumn(column)
	for _, row := range t.Rows {
		row[column] = value
	}
}
