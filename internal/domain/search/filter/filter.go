package filter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/recordbook/internal/domain/module"
)

// Recognized field names (wire casing).
const (
	Name         = "name"
	Age          = "age"
	Address      = "address"
	GovernmentID = "governmentId"
	Crime        = "crime"
	DateArrested = "dateArrested"

	// Query is the generic free-text fallback parameter.
	Query = "query"
)

// moduleFields is the per-module allow-list, in field-list order.
var moduleFields = map[module.Module][]string{
	module.Citizen:  {Name, Age, Address, GovernmentID},
	module.Criminal: {Name, Crime, GovernmentID, DateArrested},
}

// aliases maps lower-cased spellings onto canonical field names.
var aliases = map[string]string{
	"name":          Name,
	"age":           Age,
	"address":       Address,
	"governmentid":  GovernmentID,
	"government_id": GovernmentID,
	"gov_id":        GovernmentID,
	"crime":         Crime,
	"datearrested":  DateArrested,
	"date_arrested": DateArrested,
	"query":         Query,
}

// Fields returns the allow-listed field names for m in field-list order.
func Fields(m module.Module) []string {
	out := make([]string, len(moduleFields[m]))
	copy(out, moduleFields[m])
	return out
}

// Canonical resolves a field name case-insensitively against m's allow-list.
func Canonical(m module.Module, raw string) (string, bool) {
	name, ok := aliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", false
	}
	for _, f := range moduleFields[m] {
		if f == name {
			return name, true
		}
	}
	return "", false
}

// Policy selects how the fallback query is composed from interpreter entities.
type Policy string

// Policy constants.
const (
	// Recompute joins the recognized filter values, discarding any query text
	// supplied by the interpreter.
	Recompute Policy = "recompute"
	// Preserve keeps an interpreter-supplied query entity verbatim. Without
	// one it behaves like Recompute.
	Preserve Policy = "preserve"
)

// ParsePolicy validates a policy name. Empty means Recompute.
func ParsePolicy(raw string) (Policy, error) {
	switch Policy(raw) {
	case "", Recompute:
		return Recompute, nil
	case Preserve:
		return Preserve, nil
	default:
		return "", fmt.Errorf("unknown fallback policy %q", raw)
	}
}

// Set is a normalized mapping of recognized fields to values plus the
// fallback query.
type Set struct {
	module module.Module
	values map[string]string
	query  string
}

// New keeps only allow-listed, non-blank values for m. Keys are matched
// case-insensitively.
func New(m module.Module, values map[string]string, query string) Set {
	s := Set{module: m, values: make(map[string]string), query: strings.TrimSpace(query)}
	for _, k := range sortedKeys(values) {
		name, ok := Canonical(m, k)
		if !ok {
			continue
		}
		v := strings.TrimSpace(values[k])
		if v == "" {
			continue
		}
		if _, dup := s.values[name]; !dup {
			s.values[name] = v
		}
	}
	return s
}

// Normalize converts the interpreter's free-form entities into a Set.
// List values are joined with a single space.
func Normalize(m module.Module, entities map[string]any, policy Policy) Set {
	values := make(map[string]string, len(entities))
	var supplied string
	for _, k := range sortedKeys(entities) {
		v, ok := stringValue(entities[k])
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(k), Query) {
			supplied = v
			continue
		}
		values[k] = v
	}

	s := New(m, values, "")
	switch policy {
	case Preserve:
		s.query = strings.TrimSpace(supplied)
		if s.query == "" {
			s.query = s.joined()
		}
	default:
		s.query = s.joined()
	}
	return s
}

// Module returns the module the set was built for.
func (s Set) Module() module.Module { return s.module }

// Value returns the value of a canonical field, or "".
func (s Set) Value(field string) string { return s.values[field] }

// Values returns a copy of the recognized field values.
func (s Set) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Query returns the fallback free-text query.
func (s Set) Query() string { return s.query }

// HasSpecific reports whether any field-scoped value is present.
func (s Set) HasSpecific() bool { return len(s.values) > 0 }

// IsEmpty reports whether the set has neither field values nor a query.
func (s Set) IsEmpty() bool { return len(s.values) == 0 && s.query == "" }

// Term is the text to highlight in results: the query, or the joined values.
func (s Set) Term() string {
	if s.query != "" {
		return s.query
	}
	return s.joined()
}

// MarshalJSON renders the set the way the search UI consumes it:
// field values plus "query".
func (s Set) MarshalJSON() ([]byte, error) {
	out := s.Values()
	if s.query != "" {
		out[Query] = s.query
	}
	return json.Marshal(out)
}

func (s Set) joined() string {
	parts := make([]string, 0, len(s.values))
	for _, f := range moduleFields[s.module] {
		if v := s.values[f]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// stringValue flattens one entity value. Objects and booleans are dropped.
func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case json.Number:
		return t.String(), true
	case []string:
		return strings.Join(t, " "), true
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := stringValue(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " "), true
	default:
		return "", false
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
