package module

import "strings"

// Module is one of the two record domains a command or search targets.
type Module string

// Module constants.
const (
	Citizen  Module = "citizen"
	Criminal Module = "criminal"
)

// interpreterTable maps the interpreter's plural module names onto sections.
var interpreterTable = map[string]Module{
	"citizens":  Citizen,
	"criminals": Criminal,
}

// FromInterpreter maps an interpreter module value ("Citizens", "criminals")
// onto a Module. Anything outside the table is unrecognized.
func FromInterpreter(raw string) (Module, bool) {
	m, ok := interpreterTable[strings.ToLower(strings.TrimSpace(raw))]
	return m, ok
}

// Parse accepts the singular section id used in URLs (?tab=criminal).
func Parse(raw string) (Module, bool) {
	m := Module(strings.ToLower(strings.TrimSpace(raw)))
	return m, m.IsValid()
}

// IsValid checks if the module is one of the supported values.
func (m Module) IsValid() bool {
	return m == Citizen || m == Criminal
}

// Plural returns the collection name ("citizens").
func (m Module) Plural() string {
	return string(m) + "s"
}

// SearchHandler returns the page handler selector for the module's search.
func (m Module) SearchHandler() string {
	switch m {
	case Citizen:
		return "SearchCitizens"
	case Criminal:
		return "SearchCriminals"
	default:
		return ""
	}
}

// FromSearchHandler is the inverse of SearchHandler.
func FromSearchHandler(handler string) (Module, bool) {
	switch handler {
	case "SearchCitizens":
		return Citizen, true
	case "SearchCriminals":
		return Criminal, true
	default:
		return "", false
	}
}
