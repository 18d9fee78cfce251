// Package types provides type definitions for structured data used throughout the cv-shortlister system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EducationLevel is the highest academic attainment detected in a document.
// Levels are totally ordered by Rank.
type EducationLevel string

const (
	EducationUnknown     EducationLevel = "UNKNOWN"
	EducationCertificate EducationLevel = "CERTIFICATE"
	EducationDiploma     EducationLevel = "DIPLOMA"
	EducationBachelors   EducationLevel = "BACHELORS"
	EducationMasters     EducationLevel = "MASTERS"
	EducationPhD         EducationLevel = "PHD"
)

// educationRank maps levels to numeric ranks for comparison
var educationRank = map[EducationLevel]int{
	EducationUnknown:     0,
	EducationCertificate: 1,
	EducationDiploma:     2,
	EducationBachelors:   3,
	EducationMasters:     4,
	EducationPhD:         5,
}

// Rank returns the ordinal of the level, 0 for Unknown through 5 for PhD.
// Unrecognised values rank as Unknown.
func (l EducationLevel) Rank() int {
	return educationRank[l]
}

// Label returns a human readable name used in rationales and exports.
func (l EducationLevel) Label() string {
	switch l {
	case EducationPhD:
		return "PhD"
	case EducationMasters:
		return "Masters"
	case EducationBachelors:
		return "Bachelors"
	case EducationDiploma:
		return "Diploma"
	case EducationCertificate:
		return "Certificate"
	default:
		return "Unknown"
	}
}

// ParseEducationLevel converts a case-insensitive name into a level.
func ParseEducationLevel(s string) (EducationLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PHD", "PH.D", "DOCTORATE":
		return EducationPhD, nil
	case "MASTERS", "MASTER":
		return EducationMasters, nil
	case "BACHELORS", "BACHELOR":
		return EducationBachelors, nil
	case "DIPLOMA":
		return EducationDiploma, nil
	case "CERTIFICATE":
		return EducationCertificate, nil
	case "UNKNOWN", "":
		return EducationUnknown, nil
	}
	return EducationUnknown, fmt.Errorf("unknown education level %q", s)
}

// UnmarshalJSON accepts any casing of the level names.
func (l *EducationLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseEducationLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
