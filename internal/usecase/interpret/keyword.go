package interpret

import (
	"context"
	"regexp"
	"strings"

	"github.com/kailas-cloud/recordbook/internal/domain/command"
	"github.com/kailas-cloud/recordbook/internal/domain/module"
	"github.com/kailas-cloud/recordbook/internal/domain/search/filter"
)

var (
	criminalWords = []string{"criminal", "crime", "arrest", "convict", "suspect", "offender", "wanted"}
	citizenWords  = []string{"citizen", "resident", "person", "people", "civilian"}

	crimeRe   = regexp.MustCompile(`(?i)\b(?:charged with|arrested for|convicted of|crime(?: of)?)\s+([a-z][a-z ]*?)(?:\s+(?:on|in|since|with|and)\b|[,.]|$)`)
	nameRe    = regexp.MustCompile(`\b(?i:for|named|called|name is)\s+([A-Za-z][\w'.-]*(?:\s+[A-Z][\w'.-]*)*)`)
	ageRe     = regexp.MustCompile(`(?i)\b(?:aged?|age of)\s+(\d{1,3})\b|\b(\d{1,3})\s+years?\s+old\b`)
	govIDRe   = regexp.MustCompile(`(?i)\b(?:government id|gov(?:ernment)? ?id|id)\s*(?:number|no\.?|#)?\s*[:=]?\s*([A-Za-z0-9][A-Za-z0-9-]*\d[A-Za-z0-9-]*)`)
	addressRe = regexp.MustCompile(`(?i)\b(?:living (?:at|on|in)|lives (?:at|on|in)|address(?: is)?)\s+([^,]+?)(?:,|$)`)
	dateRe    = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}|\d{4}/\d{2}/\d{2}|\d{2}/\d{2}/\d{4})\b`)
)

// nameStopwords are words that follow "for" without naming anyone.
var nameStopwords = map[string]bool{
	"all": true, "everyone": true, "records": true, "the": true, "a": true, "an": true,
	"citizens": true, "criminals": true, "people": true, "anyone": true, "someone": true,
}

// Keyword is an offline classifier driven by keywords and simple patterns.
// It understands the same modules and fields as the remote interpreter.
type Keyword struct{}

// NewKeyword creates a keyword classifier.
func NewKeyword() *Keyword { return &Keyword{} }

// Classify implements Classifier. Text that names neither module yields an
// empty module with an explanatory message.
func (k *Keyword) Classify(_ context.Context, text string) (command.Classification, error) {
	lower := strings.ToLower(text)
	cls := command.Classification{Entities: map[string]any{}}

	var m module.Module
	switch {
	case containsAny(lower, criminalWords):
		m = module.Criminal
	case containsAny(lower, citizenWords):
		m = module.Citizen
	default:
		cls.Message = "could not determine which records to search"
		return cls, nil
	}
	cls.Module = m.Plural()

	rest := text
	if m == module.Criminal {
		if sm := crimeRe.FindStringSubmatchIndex(rest); sm != nil {
			cls.Entities[filter.Crime] = strings.TrimSpace(rest[sm[2]:sm[3]])
			rest = rest[:sm[0]] + rest[sm[1]:]
		}
		if sm := dateRe.FindStringSubmatch(rest); sm != nil {
			cls.Entities[filter.DateArrested] = sm[1]
		}
	}
	if m == module.Citizen {
		if sm := addressRe.FindStringSubmatchIndex(rest); sm != nil {
			cls.Entities[filter.Address] = strings.TrimSpace(rest[sm[2]:sm[3]])
			rest = rest[:sm[0]] + rest[sm[1]:]
		}
		if sm := ageRe.FindStringSubmatch(rest); sm != nil {
			age := sm[1]
			if age == "" {
				age = sm[2]
			}
			cls.Entities[filter.Age] = age
		}
	}
	if sm := govIDRe.FindStringSubmatchIndex(rest); sm != nil {
		cls.Entities[filter.GovernmentID] = rest[sm[2]:sm[3]]
		rest = rest[:sm[0]] + rest[sm[1]:]
	}
	if name := extractName(rest); name != "" {
		cls.Entities[filter.Name] = name
	}

	cls.Message = "search " + cls.Module
	return cls, nil
}

func extractName(text string) string {
	for _, sm := range nameRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimRight(strings.TrimSpace(sm[1]), ".")
		first := strings.ToLower(strings.Fields(name)[0])
		if nameStopwords[first] {
			continue
		}
		return name
	}
	return ""
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
