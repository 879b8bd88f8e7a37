package table

import "strings"

// PageSize is the number of rows in one page window.
const PageSize = 10

// VisibleColumns returns the columns with Visible set, in store order.
func VisibleColumns(cols []Column) []Column {
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// FilterRows returns the rows where any visible column's text contains
// search, case-insensitively. An empty search returns rows unchanged.
func FilterRows(rows []Row, cols []Column, search string) []Row {
	if search == "" {
		return rows
	}
	q := strings.ToLower(search)
	visible := VisibleColumns(cols)
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		for _, c := range visible {
			if strings.Contains(strings.ToLower(r.Text(c.ID)), q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// PageCount returns the number of pages needed for n rows. Zero rows
// still occupy one (empty) page.
func PageCount(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// ClampPage pulls page into [0, PageCount(n)).
func ClampPage(page, n int) int {
	if last := PageCount(n) - 1; page > last {
		page = last
	}
	if page < 0 {
		page = 0
	}
	return page
}

// Paginate returns the page window of rows starting at page*PageSize.
// An out-of-range page yields an empty window; use ClampPage first to
// keep the view on the last valid page.
func Paginate(rows []Row, page int) []Row {
	start := page * PageSize
	if page < 0 || start >= len(rows) {
		return nil
	}
	end := min(start+PageSize, len(rows))
	return rows[start:end]
}

// View is everything a surface needs to render one frame.
type View struct {
	Columns  []Column // visible columns
	Filtered []Row    // rows matching the search
	Rows     []Row    // page window
	Page     int      // clamped page index
	Pages    int
	Total    int // rows in the store
	Search   string
	Theme    ThemeMode
}

// Derive computes the view of st for the requested page. The page is
// clamped to the last valid page when the filter shrinks the result.
func Derive(st State, page int) View {
	filtered := FilterRows(st.Rows, st.Columns, st.Search)
	page = ClampPage(page, len(filtered))
	return View{
		Columns:  VisibleColumns(st.Columns),
		Filtered: filtered,
		Rows:     Paginate(filtered, page),
		Page:     page,
		Pages:    PageCount(len(filtered)),
		Total:    len(st.Rows),
		Search:   st.Search,
		Theme:    st.Theme,
	}
}

// Range returns the 1-based first and last row numbers shown on the page
// and the filtered total, as in "11–20 of 42". Both bounds are 0 when empty.
func (v View) Range() (first, last, total int) {
	total = len(v.Filtered)
	if len(v.Rows) == 0 {
		return 0, 0, total
	}
	first = v.Page*PageSize + 1
	return first, first + len(v.Rows) - 1, total
}
