// Package bip adapts ad-hoc SQL to the BI Publisher report web service:
// it encodes a statement into a runReport SOAP call and decodes the
// Base64-wrapped report output back into rows and columns.
package bip

// Connection describes one report-service endpoint. The adapter treats it
// as an immutable input per call; persistence lives elsewhere.
type Connection struct {
	ID           string
	Name         string
	BaseURL      string
	Username     string
	Password     string
	SOAPTemplate string
	ProxyURL     string
}

// QueryResult is the normalized tabular output of one execution. Columns
// is the union of all row keys in first-seen order; a row may lack keys
// for columns other rows have.
type QueryResult struct {
	Columns    []string
	Rows       []map[string]string
	RawXML     string
	DurationMs int64
}

// Capacity reports how much of the q1..q9 parameter space an encoded
// statement would occupy. Truncated means part of the statement would be
// dropped on the wire.
type Capacity struct {
	EncodedLength int
	ChunkCount    int
	MaxLength     int
	Truncated     bool
}
