package models

// YearMapping maps a year identifier such as "2024" to a year level.
type YearMapping map[string]int

// YearMappingDocument is the upstream wire shape of the mapping.
type YearMappingDocument struct {
	YearIdentifierToLevel YearMapping `json:"yearIdentifierToLevel"`
}

// YearMappingEntry is one identifier with its derived display data.
type YearMappingEntry struct {
	YearIdentifier  string   `json:"yearIdentifier"`
	YearLevel       int      `json:"yearLevel"`
	LevelName       string   `json:"levelName"`
	AffectedBatches []string `json:"affectedBatches"`
}

// YearMappingOverview lists entries sorted by identifier.
type YearMappingOverview struct {
	Entries []YearMappingEntry `json:"entries"`
}
