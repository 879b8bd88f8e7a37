package table

import (
	"maps"
	"math"
	"strconv"
	"strings"
)

// AgeField is the one column whose values are numeric by convention.
const AgeField = "age"

// Value is a cell value: either a string or a number.
type Value struct {
	str     string
	num     float64
	numeric bool
}

// String returns a string Value.
func String(s string) Value {
	return Value{str: s}
}

// Number returns a numeric Value. NaN and infinities become 0.
func Number(n float64) Value {
	return Value{num: finite(n), numeric: true}
}

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool {
	return v.numeric
}

// Float returns the numeric value, or the parsed string value when v is a string.
func (v Value) Float() float64 {
	if v.numeric {
		return v.num
	}
	return ParseNumber(v.str)
}

// String coerces v to text. Numbers use the shortest decimal form.
func (v Value) String() string {
	if v.numeric {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

// Any returns v as a string or float64, for encoders.
func (v Value) Any() any {
	if v.numeric {
		return v.num
	}
	return v.str
}

// ParseNumber parses trimmed decimal text. Empty, unparseable or
// non-finite text ("NaN", "inf") yields 0.
func ParseNumber(s string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return finite(n)
}

func finite(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// FieldValue builds the Value stored for a column from edited text:
// the age column is parsed as a number, every other column stays text.
func FieldValue(columnID, text string) Value {
	if columnID == AgeField {
		return Number(ParseNumber(text))
	}
	return String(text)
}

// Row is one data record keyed by a stable identifier.
type Row struct {
	ID     int
	Fields map[string]Value
}

// NewRow creates a row with the given id and fields.
func NewRow(id int, fields map[string]Value) Row {
	if fields == nil {
		fields = make(map[string]Value)
	}
	return Row{ID: id, Fields: fields}
}

// Get returns the value stored under columnID, or an empty string value.
func (r Row) Get(columnID string) Value {
	return r.Fields[columnID]
}

// Text returns the string-coerced value of columnID.
func (r Row) Text(columnID string) string {
	return r.Fields[columnID].String()
}

// Clone returns a deep copy of r.
func (r Row) Clone() Row {
	return Row{ID: r.ID, Fields: maps.Clone(r.Fields)}
}

// Merge returns a copy of r with draft values laid over matching keys.
// Keys absent from draft keep their committed values.
func (r Row) Merge(draft map[string]string) Row {
	out := r.Clone()
	if out.Fields == nil {
		out.Fields = make(map[string]Value, len(draft))
	}
	for k, v := range draft {
		out.Fields[k] = FieldValue(k, v)
	}
	return out
}

// Column is a named, orderable, independently hideable field definition.
type Column struct {
	ID      string
	Label   string
	Visible bool
}

// ThemeMode is the display theme preference.
type ThemeMode string

// Theme modes.
const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// ParseThemeMode validates a theme name.
func ParseThemeMode(s string) (ThemeMode, bool) {
	switch ThemeMode(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	}
	return "", false
}

// Toggle returns the opposite theme.
func (m ThemeMode) Toggle() ThemeMode {
	if m == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// State is a committed snapshot of the table.
type State struct {
	Rows    []Row
	Columns []Column
	Search  string
	Theme   ThemeMode
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	return State{
		Rows:    cloneRows(s.Rows),
		Columns: cloneColumns(s.Columns),
		Search:  s.Search,
		Theme:   s.Theme,
	}
}

// DefaultColumns returns the column set a new table starts with.
func DefaultColumns() []Column {
	return []Column{
		{ID: "name", Label: "Name", Visible: true},
		{ID: "email", Label: "Email", Visible: true},
		{ID: "age", Label: "Age", Visible: true},
		{ID: "role", Label: "Role", Visible: true},
	}
}

// DefaultRows returns the sample rows a new table starts with.
func DefaultRows() []Row {
	return []Row{
		NewRow(1, map[string]Value{
			"name": String("Alice"), "email": String("alice@example.com"),
			"age": Number(25), "role": String("Developer"),
		}),
		NewRow(2, map[string]Value{
			"name": String("Bob"), "email": String("bob@example.com"),
			"age": Number(30), "role": String("Designer"),
		}),
	}
}

func cloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

func cloneColumns(cols []Column) []Column {
	if cols == nil {
		return nil
	}
	out := make([]Column, len(cols))
	copy(out, cols)
	return out
}
