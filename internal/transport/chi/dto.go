package chi

import (
	"time"

	domrec "github.com/kailas-cloud/recordbook/internal/domain/record"
	"github.com/kailas-cloud/recordbook/internal/domain/search/query"
	"github.com/kailas-cloud/recordbook/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/recordbook/internal/usecase/health"
)

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// citizenRequest is the JSON body for POST /api/v1/citizens.
type citizenRequest struct {
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Address      string `json:"address"`
	GovernmentID string `json:"governmentId"`
}

// criminalRequest is the JSON body for POST /api/v1/criminals.
type criminalRequest struct {
	Name         string `json:"name"`
	Crime        string `json:"crime"`
	DateArrested string `json:"dateArrested"`
	GovernmentID string `json:"governmentId"`
}

// reportRequest is the JSON body for POST /api/v1/reports.
type reportRequest struct {
	DateTime        string `json:"dateTime"`
	OfficerName     string `json:"officerName"`
	Location        string `json:"location"`
	InvolvedPersons string `json:"involvedPersons"`
	Description     string `json:"description"`
}

type citizenResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Address      string `json:"address"`
	GovernmentID string `json:"governmentId"`
}

type criminalResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Crime        string `json:"crime"`
	DateArrested string `json:"dateArrested"`
	GovernmentID string `json:"governmentId"`
}

type reportResponse struct {
	ID              int64  `json:"id"`
	DateTime        string `json:"dateTime"`
	OfficerName     string `json:"officerName"`
	Location        string `json:"location"`
	InvolvedPersons string `json:"involvedPersons,omitempty"`
	Description     string `json:"description"`
}

type searchResponse struct {
	Items     []result.Row `json:"items"`
	Highlight string       `json:"highlight"`
	Total     int          `json:"total"`
	Mode      query.Kind   `json:"mode"`
	Message   string       `json:"message,omitempty"`
}

type recordsPageResponse struct {
	ActiveSection string             `json:"active_section"`
	Citizens      []citizenResponse  `json:"citizens"`
	Criminals     []criminalResponse `json:"criminals"`
}

type commandRequest struct {
	Command string `json:"command"`
	Source  string `json:"source"`
}

func citizenToResponse(c domrec.Citizen) citizenResponse {
	return citizenResponse{
		ID:           c.ID(),
		Name:         c.Name(),
		Age:          c.Age(),
		Address:      c.Address(),
		GovernmentID: c.GovernmentID(),
	}
}

func criminalToResponse(c domrec.Criminal) criminalResponse {
	return criminalResponse{
		ID:           c.ID(),
		Name:         c.Name(),
		Crime:        c.Crime(),
		DateArrested: domrec.FormatDate(c.DateArrested()),
		GovernmentID: c.GovernmentID(),
	}
}

func reportToResponse(r domrec.Report) reportResponse {
	return reportResponse{
		ID:              r.ID(),
		DateTime:        r.DateTime().UTC().Format(time.RFC3339),
		OfficerName:     r.OfficerName(),
		Location:        r.Location(),
		InvolvedPersons: r.InvolvedPersons(),
		Description:     r.Description(),
	}
}

func citizensToResponse(cs []domrec.Citizen) []citizenResponse {
	out := make([]citizenResponse, len(cs))
	for i, c := range cs {
		out[i] = citizenToResponse(c)
	}
	return out
}

func criminalsToResponse(cs []domrec.Criminal) []criminalResponse {
	out := make([]criminalResponse, len(cs))
	for i, c := range cs {
		out[i] = criminalToResponse(c)
	}
	return out
}

// dateTimeLayouts are accepted for report timestamps, in order.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// parseDateTime returns the zero time for empty or unparseable input so
// validation reports the field as missing.
func parseDateTime(s string) time.Time {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if d, ok := domrec.ParseDate(s); ok {
		return d
	}
	return time.Time{}
}

// parseArrestDate returns the zero time for empty or unparseable input.
func parseArrestDate(s string) time.Time {
	d, _ := domrec.ParseDate(s)
	return d
}
