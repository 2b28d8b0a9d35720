package records

import "strings"

// LocationParts is a "City, ST ZIP" string split into its components.
type LocationParts struct {
	City  string
	State string
	Zip   string
}

// ParseLocation splits a "City, ST ZIP" string. the zip is optional,
// anything without a comma yields empty parts instead of an error.
func ParseLocation(location string) LocationParts {
	parts := strings.Split(location, ",")
	if len(parts) < 2 {
		return LocationParts{}
	}

	result := LocationParts{City: strings.TrimSpace(parts[0])}
	stateZip := strings.Fields(parts[1])
	if len(stateZip) > 0 {
		result.State = stateZip[0]
	}
	if len(stateZip) > 1 {
		result.Zip = stateZip[1]
	}
	return result
}
