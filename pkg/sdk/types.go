package recordbook

import (
	"time"

	"github.com/kailas-cloud/recordbook/internal/domain/command"
	domrec "github.com/kailas-cloud/recordbook/internal/domain/record"
	"github.com/kailas-cloud/recordbook/internal/domain/search/filter"
	"github.com/kailas-cloud/recordbook/internal/domain/search/result"
)

// Searchable field names.
const (
	FieldName         = filter.Name
	FieldAge          = filter.Age
	FieldAddress      = filter.Address
	FieldGovernmentID = filter.GovernmentID
	FieldCrime        = filter.Crime
	FieldDateArrested = filter.DateArrested
)

// Citizen is a registered person.
type Citizen struct {
	ID           int64
	Name         string
	Age          int
	Address      string
	GovernmentID string
}

// Criminal is a person with an arrest on record.
type Criminal struct {
	ID           int64
	Name         string
	Crime        string
	DateArrested time.Time
	GovernmentID string
}

// Report is an incident report filed by an officer.
type Report struct {
	ID              int64
	DateTime        time.Time
	OfficerName     string
	Location        string
	InvolvedPersons string
	Description     string
}

// NoMatchesMessage is SearchResult.Message for an empty result.
const NoMatchesMessage = result.EmptyMessage

// Mode tells which branch a search took.
type Mode string

// Search modes.
const (
	ModeAll      Mode = "all"
	ModeSpecific Mode = "specific"
	ModeFallback Mode = "fallback"
)

// Row is one rendered search hit. Highlighted maps a field to its value
// HTML-escaped with matches wrapped in <mark>.
type Row struct {
	ID          int64
	Values      map[string]string
	Highlighted map[string]string
	BestMatch   bool
}

// SearchResult is a rendered page of hits.
type SearchResult struct {
	Module    string
	Mode      Mode
	Highlight string
	Rows      []Row
	// Message is set when nothing matched.
	Message string
}

// Classification is an interpreter's reading of one command.
// Module is the raw value, "citizens" and "criminals" are recognized.
type Classification struct {
	Module   string
	Entities map[string]any
	Message  string
}

// CommandResult describes one dispatched command.
type CommandResult struct {
	ID             string
	Classification Classification
	// Module is "citizen" or "criminal", empty when unrecognized.
	Module     string
	Recognized bool
	// Filters are the normalized field filters plus "query".
	Filters map[string]string
	Rows    []Row
	Mode    Mode
	Status  string
}

func citizenFromDomain(c domrec.Citizen) Citizen {
	return Citizen{
		ID:           c.ID(),
		Name:         c.Name(),
		Age:          c.Age(),
		Address:      c.Address(),
		GovernmentID: c.GovernmentID(),
	}
}

func criminalFromDomain(c domrec.Criminal) Criminal {
	return Criminal{
		ID:           c.ID(),
		Name:         c.Name(),
		Crime:        c.Crime(),
		DateArrested: c.DateArrested(),
		GovernmentID: c.GovernmentID(),
	}
}

func reportFromDomain(r domrec.Report) Report {
	return Report{
		ID:              r.ID(),
		DateTime:        r.DateTime(),
		OfficerName:     r.OfficerName(),
		Location:        r.Location(),
		InvolvedPersons: r.InvolvedPersons(),
		Description:     r.Description(),
	}
}

func rowsFromPage(p result.Page) []Row {
	rows := make([]Row, len(p.Rows))
	for i, r := range p.Rows {
		row := Row{
			ID:          r.ID,
			Values:      make(map[string]string, len(r.Cells)),
			Highlighted: make(map[string]string, len(r.Cells)),
			BestMatch:   r.BestMatch,
		}
		for _, c := range r.Cells {
			row.Values[c.Field] = c.Value
			row.Highlighted[c.Field] = c.Highlighted
		}
		rows[i] = row
	}
	return rows
}

func resultFromPage(p result.Page) SearchResult {
	return SearchResult{
		Module:    string(p.Module),
		Mode:      Mode(p.Kind),
		Highlight: p.Highlight,
		Rows:      rowsFromPage(p),
		Message:   p.Message(),
	}
}

func classificationToDomain(c Classification) command.Classification {
	return command.Classification{Module: c.Module, Entities: c.Entities, Message: c.Message}
}

func classificationFromDomain(c command.Classification) Classification {
	return Classification{Module: c.Module, Entities: c.Entities, Message: c.Message}
}
