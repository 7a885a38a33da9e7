package dto

// AuditListQuery filters GET /audit.
type AuditListQuery struct {
	Dataset string `form:"dataset"`
	Limit   int    `form:"limit" validate:"omitempty,min=1,max=500"`
}
