package dto

// AddMappingRequest maps a year identifier to a year level.
type AddMappingRequest struct {
	YearIdentifier string `json:"yearIdentifier" validate:"required"`
	YearLevel      int    `json:"yearLevel" validate:"required,min=1,max=4"`
}

// ReplaceMappingRequest overwrites the whole mapping.
type ReplaceMappingRequest struct {
	YearIdentifierToLevel map[string]int `json:"yearIdentifierToLevel" validate:"required,dive,keys,required,endkeys,min=1,max=4"`
}
