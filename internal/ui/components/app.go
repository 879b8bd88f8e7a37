package components

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/tablemgr/internal/cli/output"
	"github.com/leapstack-labs/tablemgr/internal/ui/resources"
	"github.com/leapstack-labs/tablemgr/pkg/table"
)

// DatastarScript is the client bundle the page loads.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// Page renders the full HTML document around the app.
func Page(title string, data AppData) templ.Component {
	signals, _ := json.Marshal(map[string]string{
		"search":    data.View.Search,
		"newcolumn": "",
		"active":    "",
		"over":      "",
	})
	return component(func(m *markup) {
		m.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		m.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		m.raw("<title>")
		m.text(title + " - tablemgr")
		m.raw("</title>")
		m.raw(`<link rel="stylesheet"`, attr("href", resources.StaticPath("tablemgr.css")), ">")
		m.raw(`<script type="module"`, attr("src", DatastarScript), "></script>")
		m.raw("</head>")
		m.raw("<body", attr("data-signals", string(signals)), ` data-init="@get('/updates')">`)
		renderApp(m, data)
		m.raw("</body></html>")
	})
}

// App renders the patchable application root.
func App(data AppData) templ.Component {
	return component(func(m *markup) { renderApp(m, data) })
}

func renderApp(m *markup, d AppData) {
	v := d.View
	m.raw(`<main id="app"`, attr("class", "theme-"+string(v.Theme)), ">")

	m.raw(`<header class="bar"><h1>tablemgr</h1>`)
	m.raw(`<button type="button" id="theme-toggle" data-on:click="@post('/api/theme')">`)
	m.text(output.ThemeLabel(v.Theme.Toggle()) + " mode")
	m.raw("</button>")
	m.raw(`<a href="/export.csv" download="table_data.csv">Export CSV</a>`)
	m.raw(`<a href="/export.xlsx" download="table_data.xlsx">Export XLSX</a>`)
	m.raw(`<form class="import" method="post" action="/import" enctype="multipart/form-data">`)
	m.raw(`<input type="file" name="file" accept=".csv,.xlsx"><button type="submit">Import</button></form>`)
	m.raw("</header>")

	renderNotice(m, d)

	m.raw(`<section class="toolbar">`)
	m.raw(`<input type="search" id="search" placeholder="Search..." data-bind:search data-on:input__debounce.200ms="@post('/api/search')">`)
	m.raw(`<button type="button" id="add-row" data-on:click="@post('/api/add')">Add Row</button>`)
	if d.Editing() {
		m.raw(`<button type="button" id="save-all" data-on:click="@post('/api/edits/save')">Save All</button>`)
		m.raw(`<button type="button" id="cancel-all" data-on:click="@post('/api/edits/cancel')">Cancel All</button>`)
	}
	m.raw("</section>")

	renderColumnManager(m, d)
	if d.Adding {
		renderAddForm(m, d)
	}
	renderTable(m, d)
	renderPagination(m, v)

	m.raw("</main>")
}

func renderNotice(m *markup, d AppData) {
	switch {
	case d.Error != "":
		m.raw(`<div id="notice" class="notice error" role="alert">`)
		m.text(d.Error)
		m.raw("</div>")
	case d.Notice != "":
		m.raw(`<div id="notice" class="notice" role="status">`)
		m.text(d.Notice)
		m.raw("</div>")
	}
}

func renderColumnManager(m *markup, d AppData) {
	m.raw(`<details id="columns" class="columns"><summary>Manage Columns</summary><ul>`)
	for i, c := range d.AllColumns {
		m.raw("<li><label><input type=\"checkbox\"")
		if c.Visible {
			m.raw(" checked")
		}
		m.rawf(` data-on:change="@post('/api/columns/%d/toggle')"> `, i)
		m.text(c.Label)
		m.raw("</label>")
		if c.Visible {
			m.rawf(`<button type="button" title="Move left" data-on:click="@post('/api/columns/%d/move?delta=-1')">&larr;</button>`, i)
			m.rawf(`<button type="button" title="Move right" data-on:click="@post('/api/columns/%d/move?delta=1')">&rarr;</button>`, i)
		}
		m.raw("</li>")
	}
	m.raw("</ul>")
	m.raw(`<input type="text" id="new-column" placeholder="Column name" data-bind:newcolumn>`)
	m.raw(`<button type="button" data-on:click="@post('/api/columns')">Add Column</button>`)
	m.raw("</details>")
}

func renderAddForm(m *markup, d AppData) {
	m.raw(`<section id="add-form" class="add-form"><h2>New Row</h2>`)
	for _, id := range d.NewFields {
		m.raw("<label>")
		m.text(d.columnLabel(id))
		m.raw(`<input type="text"`, attr("value", d.NewDraft[id]))
		m.rawf(` data-on:change="@post('/api/add/cells/%d?value=' + encodeURIComponent(el.value))">`, d.columnIndex(id))
		m.raw("</label>")
	}
	m.raw(`<button type="button" id="commit-add" data-on:click="@post('/api/add/commit')">Add</button>`)
	m.raw(`<button type="button" id="cancel-add" data-on:click="@post('/api/add/cancel')">Cancel</button>`)
	m.raw("</section>")
}

func renderTable(m *markup, d AppData) {
	v := d.View
	m.raw(`<table id="rows"><thead><tr><th>#</th>`)
	for _, c := range v.Columns {
		m.raw(`<th draggable="true"`, attr("data-key", c.ID))
		m.raw(` data-on:dragstart="$active = el.dataset.key"`)
		m.raw(` data-on:dragover="evt.preventDefault()"`)
		m.raw(` data-on:drop="evt.preventDefault(); $over = el.dataset.key; @post('/api/drag')">`)
		m.text(c.Label)
		m.raw("</th>")
	}
	m.raw("<th>Actions</th></tr></thead><tbody>")

	if len(v.Rows) == 0 {
		m.rawf(`<tr><td class="empty" colspan="%d">No rows</td></tr>`, len(v.Columns)+2)
	}
	for _, r := range v.Rows {
		draft, editing := d.Drafts[r.ID]
		m.raw(`<tr draggable="true"`, attr("id", "row-"+strconv.Itoa(r.ID)), attr("data-key", table.RowKey(r.ID)))
		if editing {
			m.raw(` class="editing"`)
		}
		m.raw(` data-on:dragstart="$active = el.dataset.key"`)
		m.raw(` data-on:dragover="evt.preventDefault()"`)
		m.raw(` data-on:drop="evt.preventDefault(); $over = el.dataset.key; @post('/api/drag')">`)
		m.rawf("<td>%d</td>", r.ID)
		for _, c := range v.Columns {
			m.raw("<td>")
			if editing {
				m.raw(`<input type="text"`, attr("value", draft[c.ID]))
				m.rawf(` data-on:change="@post('/api/rows/%d/cells/%d?value=' + encodeURIComponent(el.value))">`, r.ID, d.columnIndex(c.ID))
			} else {
				m.text(r.Text(c.ID))
			}
			m.raw("</td>")
		}
		m.raw(`<td class="actions">`)
		if editing {
			m.rawf(`<button type="button" data-on:click="@post('/api/rows/%d/save')">Save</button>`, r.ID)
			m.rawf(`<button type="button" data-on:click="@post('/api/rows/%d/cancel')">Cancel</button>`, r.ID)
		} else {
			m.rawf(`<button type="button" data-on:click="@post('/api/rows/%d/edit')">Edit</button>`, r.ID)
		}
		m.rawf(`<button type="button" data-on:click="confirm('Delete row %d?') && @post('/api/rows/%d/delete')">Delete</button>`, r.ID, r.ID)
		m.rawf(`<button type="button" title="Move up" data-on:click="@post('/api/rows/%d/move?delta=-1')">&uarr;</button>`, r.ID)
		m.rawf(`<button type="button" title="Move down" data-on:click="@post('/api/rows/%d/move?delta=1')">&darr;</button>`, r.ID)
		m.raw("</td></tr>")
	}
	m.raw("</tbody></table>")
}

func renderPagination(m *markup, v table.View) {
	first, last, total := v.Range()
	m.raw(`<nav id="pagination" class="pagination">`)
	m.raw(`<button type="button" data-on:click="@post('/api/page/prev')"`)
	if v.Page == 0 {
		m.raw(" disabled")
	}
	m.raw(">Previous</button>")
	m.raw(`<span class="range">`)
	m.text(fmt.Sprintf("%d–%d of %d", first, last, total))
	m.raw("</span>")
	m.raw(`<span class="pages">`)
	m.text(fmt.Sprintf("Page %d of %d", v.Page+1, v.Pages))
	m.raw("</span>")
	m.raw(`<button type="button" data-on:click="@post('/api/page/next')"`)
	if v.Page >= v.Pages-1 {
		m.raw(" disabled")
	}
	m.raw(">Next</button></nav>")
}
