package record

import "strings"

// Age bounds for a citizen.
const (
	MinAge = 1
	MaxAge = 150
)

// Citizen is an immutable citizen record.
type Citizen struct {
	id           int64
	name         string
	age          int
	address      string
	governmentID string
}

// NewCitizen validates and creates a Citizen without an ID.
// All failing fields are reported together.
func NewCitizen(name string, age int, address, governmentID string) (Citizen, error) {
	var v validator
	v.required("name", name, "Name is required")
	v.check(age >= MinAge && age <= MaxAge, "age", "Age must be between 1 and 150")
	v.required("address", address, "Address is required")
	v.required("governmentId", governmentID, "Government ID is required")
	if err := v.err(); err != nil {
		return Citizen{}, err
	}

	return Citizen{
		name:         strings.TrimSpace(name),
		age:          age,
		address:      strings.TrimSpace(address),
		governmentID: strings.TrimSpace(governmentID),
	}, nil
}

// ReconstructCitizen creates a Citizen without validation (storage hydration).
func ReconstructCitizen(id int64, name string, age int, address, governmentID string) Citizen {
	return Citizen{id: id, name: name, age: age, address: address, governmentID: governmentID}
}

// WithID returns a copy carrying the store-assigned identifier.
func (c Citizen) WithID(id int64) Citizen {
	c.id = id
	return c
}

// ID returns the store-assigned identifier (0 before persistence).
func (c Citizen) ID() int64 { return c.id }

// Name returns the citizen's name.
func (c Citizen) Name() string { return c.name }

// Age returns the citizen's age in years.
func (c Citizen) Age() int { return c.age }

// Address returns the postal address.
func (c Citizen) Address() string { return c.address }

// GovernmentID returns the exact-match identity key.
func (c Citizen) GovernmentID() string { return c.governmentID }
