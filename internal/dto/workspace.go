package dto

// CreateSessionRequest opens a workspace. An empty dataset opens batches.
type CreateSessionRequest struct {
	Dataset string `json:"dataset" validate:"omitempty,oneof=batches faculty rooms courses"`
}

// SelectDatasetRequest switches the active dataset tab.
type SelectDatasetRequest struct {
	Dataset string `json:"dataset" validate:"required,oneof=batches faculty rooms courses"`
}

// SearchRequest sets the table filter.
type SearchRequest struct {
	Term string `json:"term" validate:"max=200"`
}

// SortRequest sorts by a column; repeating the key flips the direction.
type SortRequest struct {
	Key string `json:"key" validate:"required"`
}

// FieldRequest edits one draft or edit-buffer field.
type FieldRequest struct {
	Key   string      `json:"key" validate:"required"`
	Value interface{} `json:"value"`
}

// RecordFieldsRequest submits the add form or the inline editor. Fields are
// merged into the buffer before submission.
type RecordFieldsRequest struct {
	Fields map[string]interface{} `json:"fields"`
}

// ConfirmRequest accepts or cancels a pending confirmation.
type ConfirmRequest struct {
	ID string `json:"id" validate:"required"`
}

// UploadPanelRequest opens or closes the upload panel.
type UploadPanelRequest struct {
	Open bool `json:"open"`
}

// PreviewRequest opens the preview with a row count. Zero keeps the current size.
type PreviewRequest struct {
	Rows int `json:"rows" validate:"min=0,max=1000"`
}

// MessageResponse carries a confirmation text.
type MessageResponse struct {
	Message string `json:"message"`
}
