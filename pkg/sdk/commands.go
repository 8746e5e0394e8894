package recordbook

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/recordbook/internal/domain/command"
	"github.com/kailas-cloud/recordbook/internal/usecase/dispatch"
)

// CommandService runs natural-language commands against the records.
// One command may be outstanding at a time per Client; a second concurrent
// call fails with ErrCommandInFlight.
type CommandService struct {
	svc dispatchUseCase
	obs *observer
}

// ScreenState is the records screen as the last command left it.
type ScreenState struct {
	ActiveSection string
	SearchInputs  map[string]string
	Status        string
	LastCommandID string
}

// Send dispatches typed command text.
func (s *CommandService) Send(ctx context.Context, text string) (CommandResult, error) {
	return s.send(ctx, text, command.SourceText)
}

// SendVoice dispatches a voice transcript.
func (s *CommandService) SendVoice(ctx context.Context, transcript string) (CommandResult, error) {
	return s.send(ctx, transcript, command.SourceVoice)
}

func (s *CommandService) send(ctx context.Context, text string, src command.Source) (_ CommandResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("command", start, err) }()

	out, err := s.svc.Dispatch(ctx, text, src)
	res := commandResultFromOutcome(out)
	if err != nil {
		return res, fmt.Errorf("dispatch command: %w", err)
	}
	return res, nil
}

// State returns the current screen state.
func (s *CommandService) State() ScreenState {
	st := s.svc.State()
	inputs := make(map[string]string, len(st.SearchInputs))
	for m, v := range st.SearchInputs {
		inputs[string(m)] = v
	}
	return ScreenState{
		ActiveSection: string(st.ActiveSection),
		SearchInputs:  inputs,
		Status:        st.Status,
		LastCommandID: st.LastCommandID,
	}
}

func commandResultFromOutcome(out dispatch.Outcome) CommandResult {
	res := CommandResult{
		ID:             out.CommandID,
		Classification: classificationFromDomain(out.Classification),
		Module:         string(out.Module),
		Recognized:     out.Recognized,
		Status:         out.Status,
	}
	if out.Recognized {
		res.Filters = out.Filters.Values()
		if q := out.Filters.Query(); q != "" {
			res.Filters["query"] = q
		}
	}
	if out.Page != nil {
		res.Rows = rowsFromPage(*out.Page)
		res.Mode = Mode(out.Page.Kind)
	}
	return res
}
