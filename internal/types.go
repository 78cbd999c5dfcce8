package internal

type InputType string

const (
	InputText InputType = "text"
	InputHTML InputType = "html"
	InputEML  InputType = "eml"
	InputPDF  InputType = "pdf"
)

// Record is one entity's fields in source order.
type Record []string

type Column struct {
	Name   string
	Values []string
}

// Table is an ordered set of uniquely named columns that share one row count.
type Table struct {
	Columns []Column
}

func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

func (t *Table) Column(name string) *Column {
	idx := t.Index(name)
	if idx < 0 {
		return nil
	}
	return &t.Columns[idx]
}

func (t *Table) Drop(name string) bool {
	idx := t.Index(name)
	if idx < 0 {
		return false
	}
	t.Columns = append(t.Columns[:idx], t.Columns[idx+1:]...)
	return true
}

// Append adds a column at the end. A name already present is rejected.
func (t *Table) Append(col Column) bool {
	if t.Has(col.Name) {
		return false
	}
	t.Columns = append(t.Columns, col)
	return true
}

func (t *Table) Headers() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		out = append(out, c.Name)
	}
	return out
}

func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Rows returns the table row-major.
func (t *Table) Rows() [][]string {
	n := t.RowCount()
	out := make([][]string, n)
	for r := 0; r < n; r++ {
		row := make([]string, len(t.Columns))
		for c, col := range t.Columns {
			row[c] = col.Values[r]
		}
		out[r] = row
	}
	return out
}

type RunStatus string

const (
	RunProcessed RunStatus = "processed"
	RunFailed    RunStatus = "failed"
	RunSkipped   RunStatus = "skipped"
)

type RunRow struct {
	ID            int64     `db:"id"`
	TraceID       string    `db:"trace_id"`
	Source        string    `db:"source"`
	InputHash     string    `db:"input_hash"`
	Status        RunStatus `db:"status"`
	Rows          int       `db:"row_count"`
	ColumnsJSON   string    `db:"columns_json"`
	InvalidPhones int       `db:"invalid_phones"`
	DurationMs    int64     `db:"duration_ms"`
	Error         string    `db:"error"`
	OutputPath    string    `db:"output_path"`
	CreatedAt     string    `db:"created_at"`
}
