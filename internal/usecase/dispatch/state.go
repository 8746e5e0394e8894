package dispatch

import (
	"maps"

	"github.com/kailas-cloud/recordbook/internal/domain/module"
	"github.com/kailas-cloud/recordbook/internal/domain/search/result"
)

// Status texts shown to the user.
const (
	StatusEmptyCommand  = "Please enter a command"
	StatusSendFailed    = "Error sending command."
	StatusUnknownModule = "Unrecognized module"
)

// State is what the records screen shows: the active tab, each tab's search
// box, the status area and the last result page.
type State struct {
	ActiveSection module.Module            `json:"active_section"`
	SearchInputs  map[module.Module]string `json:"search_inputs"`
	Status        string                   `json:"status"`
	Results       *result.Page             `json:"results,omitempty"`
	LastCommandID string                   `json:"last_command_id,omitempty"`
	Busy          bool                     `json:"busy"`
}

func initialState() State {
	return State{
		ActiveSection: module.Citizen,
		SearchInputs: map[module.Module]string{
			module.Citizen:  "",
			module.Criminal: "",
		},
	}
}

func (s State) clone() State {
	out := s
	out.SearchInputs = maps.Clone(s.SearchInputs)
	if s.Results != nil {
		page := *s.Results
		page.Rows = append([]result.Row(nil), s.Results.Rows...)
		out.Results = &page
	}
	return out
}
