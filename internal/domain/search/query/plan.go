package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/recordbook/internal/domain/module"
	"github.com/kailas-cloud/recordbook/internal/domain/record"
	"github.com/kailas-cloud/recordbook/internal/domain/search/filter"
)

// Kind describes which branch of the precedence rule a plan took.
type Kind string

// Kind constants.
const (
	// All returns the unfiltered module set ("browse all").
	All Kind = "all"
	// Specific AND-combines field-scoped predicates.
	Specific Kind = "specific"
	// Fallback OR-combines the free-text query across the module's fields.
	Fallback Kind = "fallback"
)

// Op is a predicate operator.
type Op string

// Op constants.
const (
	// Contains is a case-insensitive substring match.
	Contains Op = "contains"
	// Equals is an exact string match.
	Equals Op = "equals"
	// IntEquals is an exact integer match.
	IntEquals Op = "int_equals"
	// DateEquals matches a calendar day.
	DateEquals Op = "date_equals"
	// DateContains is a substring match against the YYYY-MM-DD rendering.
	DateContains Op = "date_contains"
)

// Predicate is a single field test.
type Predicate struct {
	field  string
	op     Op
	text   string
	number int
	date   time.Time
}

// Field returns the canonical field name.
func (p Predicate) Field() string { return p.field }

// Op returns the operator.
func (p Predicate) Op() Op { return p.op }

// Text returns the operand for string operators.
func (p Predicate) Text() string { return p.text }

// Int returns the operand for IntEquals.
func (p Predicate) Int() int { return p.number }

// Date returns the operand for DateEquals.
func (p Predicate) Date() time.Time { return p.date }

// Plan is a compiled lookup for one module.
type Plan struct {
	module     module.Module
	kind       Kind
	predicates []Predicate
	term       string
}

// Build compiles a filter set into a plan.
//
// Field filters win: if at least one of them could be applied, the fallback
// query is ignored. Age that is not an integer and dates that do not parse
// are skipped without error and do not count as applied.
func Build(fs filter.Set) Plan {
	m := fs.Module()
	p := Plan{module: m, kind: All, term: fs.Term()}

	for _, f := range filter.Fields(m) {
		v := fs.Value(f)
		if v == "" {
			continue
		}
		switch f {
		case filter.Name, filter.Address, filter.Crime:
			p.predicates = append(p.predicates, Predicate{field: f, op: Contains, text: v})
		case filter.GovernmentID:
			p.predicates = append(p.predicates, Predicate{field: f, op: Equals, text: v})
		case filter.Age:
			n, err := strconv.Atoi(v)
			if err != nil {
				continue
			}
			p.predicates = append(p.predicates, Predicate{field: f, op: IntEquals, number: n})
		case filter.DateArrested:
			d, ok := record.ParseDate(v)
			if !ok {
				continue
			}
			p.predicates = append(p.predicates, Predicate{field: f, op: DateEquals, date: d})
		}
	}
	if len(p.predicates) > 0 {
		p.kind = Specific
		return p
	}

	q := fs.Query()
	if q == "" {
		return p
	}
	p.kind = Fallback
	p.predicates = fallbackPredicates(m, q)
	return p
}

func fallbackPredicates(m module.Module, q string) []Predicate {
	preds := []Predicate{
		{field: filter.Name, op: Contains, text: q},
		{field: filter.GovernmentID, op: Contains, text: q},
	}
	switch m {
	case module.Citizen:
		preds = append(preds, Predicate{field: filter.Address, op: Contains, text: q})
		if n, err := strconv.Atoi(q); err == nil {
			preds = append(preds, Predicate{field: filter.Age, op: IntEquals, number: n})
		}
	case module.Criminal:
		preds = append(preds,
			Predicate{field: filter.Crime, op: Contains, text: q},
			Predicate{field: filter.DateArrested, op: DateContains, text: q},
		)
	}
	return preds
}

// Module returns the module the plan targets.
func (p Plan) Module() module.Module { return p.module }

// Kind returns the precedence branch taken.
func (p Plan) Kind() Kind { return p.kind }

// Predicates returns the predicates; AND-combined for Specific, OR-combined for Fallback.
func (p Plan) Predicates() []Predicate { return p.predicates }

// Term returns the text the UI should highlight.
func (p Plan) Term() string { return p.term }

// MatchCitizen evaluates the plan against a citizen.
func (p Plan) MatchCitizen(c record.Citizen) bool {
	return p.match(fields{
		text: map[string]string{
			filter.Name:         c.Name(),
			filter.Address:      c.Address(),
			filter.GovernmentID: c.GovernmentID(),
		},
		ints: map[string]int{filter.Age: c.Age()},
	})
}

// MatchCriminal evaluates the plan against a criminal record.
func (p Plan) MatchCriminal(c record.Criminal) bool {
	return p.match(fields{
		text: map[string]string{
			filter.Name:         c.Name(),
			filter.Crime:        c.Crime(),
			filter.GovernmentID: c.GovernmentID(),
		},
		dates: map[string]time.Time{filter.DateArrested: c.DateArrested()},
	})
}

// FilterCitizens keeps matching citizens in their original order.
func (p Plan) FilterCitizens(in []record.Citizen) []record.Citizen {
	out := make([]record.Citizen, 0, len(in))
	for _, c := range in {
		if p.MatchCitizen(c) {
			out = append(out, c)
		}
	}
	return out
}

// FilterCriminals keeps matching criminals in their original order.
func (p Plan) FilterCriminals(in []record.Criminal) []record.Criminal {
	out := make([]record.Criminal, 0, len(in))
	for _, c := range in {
		if p.MatchCriminal(c) {
			out = append(out, c)
		}
	}
	return out
}

type fields struct {
	text  map[string]string
	ints  map[string]int
	dates map[string]time.Time
}

func (p Plan) match(f fields) bool {
	switch p.kind {
	case Specific:
		for _, pr := range p.predicates {
			if !pr.eval(f) {
				return false
			}
		}
		return true
	case Fallback:
		for _, pr := range p.predicates {
			if pr.eval(f) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func (p Predicate) eval(f fields) bool {
	switch p.op {
	case Contains:
		return strings.Contains(strings.ToLower(f.text[p.field]), strings.ToLower(p.text))
	case Equals:
		return f.text[p.field] == p.text
	case IntEquals:
		v, ok := f.ints[p.field]
		return ok && v == p.number
	case DateEquals:
		d, ok := f.dates[p.field]
		return ok && !d.IsZero() && record.FormatDate(d) == record.FormatDate(p.date)
	case DateContains:
		d, ok := f.dates[p.field]
		return ok && !d.IsZero() && strings.Contains(record.FormatDate(d), p.text)
	default:
		return false
	}
}
