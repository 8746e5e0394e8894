package result

import (
	"html"
	"regexp"
	"strconv"

	"github.com/kailas-cloud/recordbook/internal/domain/module"
	"github.com/kailas-cloud/recordbook/internal/domain/record"
	"github.com/kailas-cloud/recordbook/internal/domain/search/filter"
	"github.com/kailas-cloud/recordbook/internal/domain/search/query"
)

// EmptyMessage is shown in place of rows when nothing matched.
const EmptyMessage = "No matching records found"

// Cell is one rendered column of a row. Highlighted is HTML-escaped with
// matches of the highlight term wrapped in <mark>.
type Cell struct {
	Field       string `json:"field"`
	Value       string `json:"value"`
	Highlighted string `json:"highlighted"`
}

// Row is one rendered search hit.
type Row struct {
	ID        int64  `json:"id"`
	Cells     []Cell `json:"cells"`
	BestMatch bool   `json:"best_match"`
}

// Page is a rendered result set for one module.
type Page struct {
	Module    module.Module `json:"module"`
	Kind      query.Kind    `json:"kind"`
	Highlight string        `json:"highlight"`
	Rows      []Row         `json:"rows"`
}

// Total returns the number of rows.
func (p Page) Total() int { return len(p.Rows) }

// Message returns EmptyMessage for an empty page, "" otherwise.
func (p Page) Message() string {
	if len(p.Rows) == 0 {
		return EmptyMessage
	}
	return ""
}

// CitizenPage renders citizens in the order given. The first row is flagged
// as the best match.
func CitizenPage(cs []record.Citizen, plan query.Plan) Page {
	term := plan.Term()
	rows := make([]Row, len(cs))
	for i, c := range cs {
		rows[i] = Row{
			ID: c.ID(),
			Cells: []Cell{
				cell(filter.Name, c.Name(), term),
				cell(filter.Age, strconv.Itoa(c.Age()), term),
				cell(filter.Address, c.Address(), term),
				cell(filter.GovernmentID, c.GovernmentID(), term),
			},
		}
	}
	return newPage(module.Citizen, plan, rows)
}

// CriminalPage renders criminal records in the order given.
func CriminalPage(cs []record.Criminal, plan query.Plan) Page {
	term := plan.Term()
	rows := make([]Row, len(cs))
	for i, c := range cs {
		rows[i] = Row{
			ID: c.ID(),
			Cells: []Cell{
				cell(filter.Name, c.Name(), term),
				cell(filter.Crime, c.Crime(), term),
				cell(filter.DateArrested, record.FormatDate(c.DateArrested()), term),
				cell(filter.GovernmentID, c.GovernmentID(), term),
			},
		}
	}
	return newPage(module.Criminal, plan, rows)
}

func newPage(m module.Module, plan query.Plan, rows []Row) Page {
	if len(rows) > 0 {
		rows[0].BestMatch = true
	}
	return Page{Module: m, Kind: plan.Kind(), Highlight: plan.Term(), Rows: rows}
}

func cell(field, value, term string) Cell {
	return Cell{Field: field, Value: value, Highlighted: Highlight(value, term)}
}

// Highlight escapes value for HTML and wraps case-insensitive occurrences of
// term in <mark> tags. An empty term only escapes.
func Highlight(value, term string) string {
	escaped := html.EscapeString(value)
	if term == "" {
		return escaped
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(html.EscapeString(term)))
	if err != nil {
		return escaped
	}
	return re.ReplaceAllString(escaped, "<mark>$0</mark>")
}
