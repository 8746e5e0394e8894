package record

import (
	"fmt"
	"strconv"
	"time"

	domrec "github.com/kailas-cloud/recordbook/internal/domain/record"
)

func citizenToHash(c domrec.Citizen) map[string]string {
	return map[string]string{
		"id":            strconv.FormatInt(c.ID(), 10),
		"name":          c.Name(),
		"age":           strconv.Itoa(c.Age()),
		"address":       c.Address(),
		"government_id": c.GovernmentID(),
	}
}

func citizenFromHash(id int64, m map[string]string) (domrec.Citizen, error) {
	age, err := strconv.Atoi(m["age"])
	if err != nil {
		return domrec.Citizen{}, fmt.Errorf("citizen %d: invalid age %q: %w", id, m["age"], err)
	}
	return domrec.ReconstructCitizen(id, m["name"], age, m["address"], m["government_id"]), nil
}

func criminalToHash(c domrec.Criminal) map[string]string {
	return map[string]string{
		"id":            strconv.FormatInt(c.ID(), 10),
		"name":          c.Name(),
		"crime":         c.Crime(),
		"date_arrested": domrec.FormatDate(c.DateArrested()),
		"government_id": c.GovernmentID(),
	}
}

func criminalFromHash(id int64, m map[string]string) (domrec.Criminal, error) {
	arrested, err := time.Parse(domrec.DateLayout, m["date_arrested"])
	if err != nil {
		return domrec.Criminal{}, fmt.Errorf("criminal %d: invalid date_arrested %q: %w", id, m["date_arrested"], err)
	}
	return domrec.ReconstructCriminal(id, m["name"], m["crime"], arrested, m["government_id"]), nil
}

func reportToHash(r domrec.Report) map[string]string {
	return map[string]string{
		"id":               strconv.FormatInt(r.ID(), 10),
		"date_time":        r.DateTime().UTC().Format(time.RFC3339),
		"officer_name":     r.OfficerName(),
		"location":         r.Location(),
		"involved_persons": r.InvolvedPersons(),
		"description":      r.Description(),
	}
}

func reportFromHash(id int64, m map[string]string) (domrec.Report, error) {
	at, err := time.Parse(time.RFC3339, m["date_time"])
	if err != nil {
		return domrec.Report{}, fmt.Errorf("report %d: invalid date_time %q: %w", id, m["date_time"], err)
	}
	return domrec.ReconstructReport(
		id, at, m["officer_name"], m["location"], m["involved_persons"], m["description"],
	), nil
}
