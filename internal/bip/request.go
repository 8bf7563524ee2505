package bip

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	// MaxChunkSize is the largest value the service accepts in one
	// parameter slot.
	MaxChunkSize = 32767

	// MaxChunks is the number of parameter slots (q1..q9) the report
	// exposes. Input beyond MaxChunks*MaxChunkSize Base64 characters is
	// truncated on the wire; use CheckCapacity to detect this up front.
	MaxChunks = 9

	// DefaultRowLimit caps the rownum wrapper when the caller supplies no
	// usable limit.
	DefaultRowLimit = 100
)

// Placeholder tokens a custom SOAP template may carry. Substitution is
// plain string replacement, so the template must be valid XML around them.
const (
	TokenUsername   = "{{USERNAME}}"
	TokenPassword   = "{{PASSWORD}}"
	TokenParameters = "{{PARAMETERS}}"
)

const defaultReportPath = "/Custom/SQL/AdHocQuery.xdo"

var defaultTemplate = `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:v2="` + nsV2 + `">
  <soapenv:Header/>
  <soapenv:Body>
    <v2:runReport>
      <v2:reportRequest>
        <v2:reportAbsolutePath>` + defaultReportPath + `</v2:reportAbsolutePath>
        <v2:sizeOfDataChunkDownload>-1</v2:sizeOfDataChunkDownload>
        <v2:parameterNameValues>
          <v2:listOfParamNameValues>{{PARAMETERS}}</v2:listOfParamNameValues>
        </v2:parameterNameValues>
      </v2:reportRequest>
      <v2:userID>{{USERNAME}}</v2:userID>
      <v2:password>{{PASSWORD}}</v2:password>
    </v2:runReport>
  </soapenv:Body>
</soapenv:Envelope>`

// SanitizeSQL trims the statement and strips exactly one trailing
// semicolon; the target database rejects statements that end in one.
func SanitizeSQL(sqlText string) string {
	s := strings.TrimSpace(sqlText)
	return strings.TrimSuffix(s, ";")
}

func wrapRowLimit(sqlText string, rowLimit int) string {
	if rowLimit <= 0 {
		rowLimit = DefaultRowLimit
	}
	return fmt.Sprintf("SELECT * FROM (%s) WHERE rownum <= %d", sqlText, rowLimit)
}

func encodePayload(sqlText string, rowLimit int) string {
	wrapped := wrapRowLimit(SanitizeSQL(sqlText), rowLimit)
	return base64.StdEncoding.EncodeToString([]byte(wrapped))
}

func chunkPayload(encoded string) []string {
	chunks := make([]string, 0, MaxChunks)
	for off := 0; off < len(encoded) && len(chunks) < MaxChunks; off += MaxChunkSize {
		end := off + MaxChunkSize
		if end > len(encoded) {
			end = len(encoded)
		}
		chunks = append(chunks, encoded[off:end])
	}
	return chunks
}

func renderParams(chunks []string) string {
	var b strings.Builder
	for i, chunk := range chunks {
		fmt.Fprintf(&b, "<v2:item><v2:name>q%d</v2:name><v2:values><v2:item>%s</v2:item></v2:values></v2:item>", i+1, chunk)
	}
	return b.String()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// EncodeRequest builds the SOAP body for one statement. The statement is
// sanitized, wrapped in a rownum limit, Base64-encoded byte-safe, split
// across the q1..q9 slots and substituted into tmpl (or the built-in
// runReport envelope when tmpl is blank). Credentials are XML-escaped
// before substitution; the parameter block is generated XML and inserted
// verbatim.
func EncodeRequest(sqlText string, rowLimit int, tmpl, username, password string) string {
	params := renderParams(chunkPayload(encodePayload(sqlText, rowLimit)))

	if strings.TrimSpace(tmpl) == "" {
		tmpl = defaultTemplate
	}

	body := strings.ReplaceAll(tmpl, TokenParameters, params)
	body = strings.ReplaceAll(body, TokenUsername, escapeXML(username))
	body = strings.ReplaceAll(body, TokenPassword, escapeXML(password))
	return body
}

// CheckCapacity reports whether the encoded form of sqlText fits the nine
// parameter slots. EncodeRequest never fails on oversized input; it
// truncates silently, so callers that care should check first.
func CheckCapacity(sqlText string, rowLimit int) Capacity {
	encoded := encodePayload(sqlText, rowLimit)
	return Capacity{
		EncodedLength: len(encoded),
		ChunkCount:    len(chunkPayload(encoded)),
		MaxLength:     MaxChunks * MaxChunkSize,
		Truncated:     len(encoded) > MaxChunks*MaxChunkSize,
	}
}
