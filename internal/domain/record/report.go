package record

import (
	"strings"
	"time"
)

// Report is an incident report filed by an officer.
type Report struct {
	id              int64
	dateTime        time.Time
	officerName     string
	location        string
	involvedPersons string
	description     string
}

// NewReport validates and creates a Report. involvedPersons is optional.
func NewReport(dateTime time.Time, officerName, location, involvedPersons, description string) (Report, error) {
	var v validator
	v.check(!dateTime.IsZero(), "dateTime", "Date and time is required")
	v.required("officerName", officerName, "Officer name is required")
	v.required("location", location, "Location is required")
	v.required("description", description, "Description is required")
	if err := v.err(); err != nil {
		return Report{}, err
	}

	return Report{
		dateTime:        dateTime.UTC(),
		officerName:     strings.TrimSpace(officerName),
		location:        strings.TrimSpace(location),
		involvedPersons: strings.TrimSpace(involvedPersons),
		description:     strings.TrimSpace(description),
	}, nil
}

// ReconstructReport creates a Report without validation (storage hydration).
func ReconstructReport(
	id int64, dateTime time.Time, officerName, location, involvedPersons, description string,
) Report {
	return Report{
		id:              id,
		dateTime:        dateTime,
		officerName:     officerName,
		location:        location,
		involvedPersons: involvedPersons,
		description:     description,
	}
}

// WithID returns a copy carrying the store-assigned identifier.
func (r Report) WithID(id int64) Report {
	r.id = id
	return r
}

// ID returns the store-assigned identifier.
func (r Report) ID() int64 { return r.id }

// DateTime returns when the incident happened.
func (r Report) DateTime() time.Time { return r.dateTime }

// OfficerName returns the reporting officer.
func (r Report) OfficerName() string { return r.officerName }

// Location returns where the incident happened.
func (r Report) Location() string { return r.location }

// InvolvedPersons returns the free-text list of people involved.
func (r Report) InvolvedPersons() string { return r.involvedPersons }

// Description returns the incident narrative.
func (r Report) Description() string { return r.description }
