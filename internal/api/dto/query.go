package dto

// QueryRequest runs a statement against a stored connection (by id) or an
// ad-hoc one supplied inline. RowLimit accepts any JSON scalar; anything
// non-numeric coerces to the configured default rather than failing.
type QueryRequest struct {
	ConnectionID string             `json:"connectionId,omitempty"`
	Connection   *ConnectionPayload `json:"connection,omitempty"`
	SQL          string             `json:"sql"`
	RowLimit     any                `json:"rowLimit,omitempty"`
}

type QueryResponse struct {
	Columns     []string            `json:"columns"`
	Rows        []map[string]string `json:"rows"`
	RawXML      string              `json:"rawXml,omitempty"`
	DurationMs  int64               `json:"durationMs"`
	RowCount    int                 `json:"rowCount"`
	WarningNote string              `json:"warningNote,omitempty"`
}

type CapacityRequest struct {
	SQL      string `json:"sql"`
	RowLimit any    `json:"rowLimit,omitempty"`
}

type CapacityResponse struct {
	EncodedLength int  `json:"encodedLength"`
	ChunkCount    int  `json:"chunkCount"`
	MaxLength     int  `json:"maxLength"`
	Truncated     bool `json:"truncated"`
}
