package record

import (
	"strings"
	"time"
)

// Criminal is an immutable criminal record.
type Criminal struct {
	id           int64
	name         string
	crime        string
	dateArrested time.Time
	governmentID string
}

// NewCriminal validates and creates a Criminal without an ID.
// dateArrested is kept at day granularity.
func NewCriminal(name, crime string, dateArrested time.Time, governmentID string) (Criminal, error) {
	var v validator
	v.required("name", name, "Name is required")
	v.required("crime", crime, "Crime is required")
	v.check(!dateArrested.IsZero(), "dateArrested", "Date arrested is required")
	v.required("governmentId", governmentID, "Government ID is required")
	if err := v.err(); err != nil {
		return Criminal{}, err
	}

	return Criminal{
		name:         strings.TrimSpace(name),
		crime:        strings.TrimSpace(crime),
		dateArrested: TruncateDay(dateArrested),
		governmentID: strings.TrimSpace(governmentID),
	}, nil
}

// ReconstructCriminal creates a Criminal without validation (storage hydration).
func ReconstructCriminal(id int64, name, crime string, dateArrested time.Time, governmentID string) Criminal {
	return Criminal{id: id, name: name, crime: crime, dateArrested: dateArrested, governmentID: governmentID}
}

// WithID returns a copy carrying the store-assigned identifier.
func (c Criminal) WithID(id int64) Criminal {
	c.id = id
	return c
}

// ID returns the store-assigned identifier (0 before persistence).
func (c Criminal) ID() int64 { return c.id }

// Name returns the offender's name.
func (c Criminal) Name() string { return c.name }

// Crime returns the crime description.
func (c Criminal) Crime() string { return c.crime }

// DateArrested returns the arrest date (UTC midnight).
func (c Criminal) DateArrested() time.Time { return c.dateArrested }

// GovernmentID returns the exact-match identity key.
func (c Criminal) GovernmentID() string { return c.governmentID }
