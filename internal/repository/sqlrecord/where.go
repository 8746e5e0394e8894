package sqlrecord

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/recordbook/internal/domain/record"
	"github.com/kailas-cloud/recordbook/internal/domain/search/query"
)

// columns maps canonical filter fields to table columns.
var columns = map[string]string{
	"name":         "name",
	"age":          "age",
	"address":      "address",
	"governmentId": "government_id",
	"crime":        "crime",
	"dateArrested": "date_arrested",
}

// whereClause compiles a plan into a WHERE fragment and its arguments. A match-all
// plan compiles to an empty clause.
func whereClause(plan query.Plan) (string, []any, error) {
	if plan.Kind() == query.All || len(plan.Predicates()) == 0 {
		return "", nil, nil
	}

	parts := make([]string, 0, len(plan.Predicates()))
	args := make([]any, 0, len(plan.Predicates()))
	for _, p := range plan.Predicates() {
		col, ok := columns[p.Field()]
		if !ok {
			return "", nil, fmt.Errorf("no column for field %q", p.Field())
		}
		switch p.Op() {
		case query.Contains:
			parts = append(parts, fmt.Sprintf("instr(fold(%s), fold(?)) > 0", col))
			args = append(args, p.Text())
		case query.Equals:
			parts = append(parts, col+" = ?")
			args = append(args, p.Text())
		case query.IntEquals:
			parts = append(parts, col+" = ?")
			args = append(args, p.Int())
		case query.DateEquals:
			parts = append(parts, col+" = ?")
			args = append(args, record.FormatDate(p.Date()))
		case query.DateContains:
			parts = append(parts, fmt.Sprintf("instr(%s, ?) > 0", col))
			args = append(args, p.Text())
		default:
			return "", nil, fmt.Errorf("unsupported operator %q", p.Op())
		}
	}

	joiner := " AND "
	if plan.Kind() == query.Fallback {
		joiner = " OR "
	}
	return " WHERE " + strings.Join(parts, joiner), args, nil
}
