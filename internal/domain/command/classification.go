package command

import "strings"

// Source tells where the command text came from.
type Source string

// Source constants.
const (
	SourceText  Source = "text"
	SourceVoice Source = "voice"
)

// ParseSource defaults unknown values to SourceText.
func ParseSource(raw string) Source {
	if Source(strings.ToLower(strings.TrimSpace(raw))) == SourceVoice {
		return SourceVoice
	}
	return SourceText
}

// Classification is the interpreter's structured reading of one command.
// Module is the raw interpreter value ("citizens", "criminals", or anything else).
// Entity values are strings, numbers, or lists of those.
type Classification struct {
	Module   string         `json:"module"`
	Entities map[string]any `json:"entities"`
	Message  string         `json:"message,omitempty"`
}
