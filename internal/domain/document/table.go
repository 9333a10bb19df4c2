package document

import (
	"fmt"
	"strings"

	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// TableOrientation marks which axis of the source table carries headers.
type TableOrientation uint8

const (
	OrientationUnknown      TableOrientation = 0
	OrientationRowHeader    TableOrientation = 1 // first row is the header
	OrientationColumnHeader TableOrientation = 2 // first column is the header
)

func (o TableOrientation) String() string {
	switch o {
	case OrientationRowHeader:
		return "RowHeader"
	case OrientationColumnHeader:
		return "ColumnHeader"
	default:
		return "Unknown"
	}
}

// RawCell is one cell of a source table before structural interpretation.
type RawCell struct {
	Text       string `json:"text"`
	Bold       bool   `json:"bold"`
	MergedFull bool   `json:"merged_full"` // cell spans the entire row
	AlignRight bool   `json:"align_right"`
}

// RawTable is the layout-level table representation handed to ParseTable.
type RawTable struct {
	Rows [][]RawCell `json:"rows"`
}

// Table is the structural table node: orientation-tagged header/data cells
// with an optional trailing free-text notes field.
type Table struct {
	Orientation TableOrientation `json:"orientation"`
	Headers     []string         `json:"headers"`
	Rows        [][]string       `json:"rows"`
	Notes       string           `json:"notes,omitempty"`
}

func (t *Table) Type() NodeType { return NodeTypeTable }

// ParseTable interprets a raw table: detects header orientation, extracts a
// trailing notes row (fully merged into one cell and right-aligned), and
// disambiguates duplicate header text by suffixing _2, _3, …
func ParseTable(raw RawTable) (*Table, error) {
	rows := raw.Rows
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeDocTableMalformed, "table has no rows")
	}
	for _, r := range rows {
		if len(r) == 0 {
			return nil, errors.New(errors.ErrCodeDocTableMalformed, "table contains an empty row")
		}
	}

	var notes string
	if last := rows[len(rows)-1]; len(rows) > 1 && len(last) == 1 && last[0].MergedFull && last[0].AlignRight {
		notes = strings.TrimSpace(last[0].Text)
		rows = rows[:len(rows)-1]
	}

	orientation := detectOrientation(rows)

	var headers []string
	var data [][]string
	switch orientation {
	case OrientationColumnHeader:
		for _, r := range rows {
			headers = append(headers, strings.TrimSpace(r[0].Text))
			row := make([]string, 0, len(r)-1)
			for _, c := range r[1:] {
				row = append(row, strings.TrimSpace(c.Text))
			}
			data = append(data, row)
		}
	default:
		// Row-header orientation is also the fallback for tables with no
		// detectable emphasis: the first row is treated as the header.
		for _, c := range rows[0] {
			headers = append(headers, strings.TrimSpace(c.Text))
		}
		for _, r := range rows[1:] {
			row := make([]string, 0, len(r))
			for _, c := range r {
				row = append(row, strings.TrimSpace(c.Text))
			}
			data = append(data, row)
		}
		if orientation == OrientationUnknown {
			orientation = OrientationRowHeader
		}
	}

	return &Table{
		Orientation: orientation,
		Headers:     dedupeHeaders(headers),
		Rows:        data,
		Notes:       notes,
	}, nil
}

// detectOrientation checks whether the first row is uniformly emphasized
// (row-header) or the first column is uniformly emphasized (column-header).
// Row-header wins when both hold.
func detectOrientation(rows [][]RawCell) TableOrientation {
	firstRowBold := true
	for _, c := range rows[0] {
		if !c.Bold {
			firstRowBold = false
			break
		}
	}
	if firstRowBold {
		return OrientationRowHeader
	}

	firstColBold := true
	for _, r := range rows {
		if !r[0].Bold {
			firstColBold = false
			break
		}
	}
	if firstColBold {
		return OrientationColumnHeader
	}
	return OrientationUnknown
}

// dedupeHeaders suffixes repeated header text with _2, _3, … in order of
// appearance so that every header is unique.
func dedupeHeaders(headers []string) []string {
	seen := make(map[string]int, len(headers))
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		seen[h]++
		if n := seen[h]; n > 1 {
			out = append(out, fmt.Sprintf("%s_%d", h, n))
		} else {
			out = append(out, h)
		}
	}
	return out
}

// FlattenText renders the table as plain text, one row per line, for use in
// chunk bodies and as the fallback representation for malformed tables.
func (t *Table) FlattenText() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Headers, " | "))
	for _, r := range t.Rows {
		b.WriteString("\n")
		b.WriteString(strings.Join(r, " | "))
	}
	if t.Notes != "" {
		b.WriteString("\n")
		b.WriteString(t.Notes)
	}
	return b.String()
}

//Personal.AI order the ending
