package bip

import (
	"encoding/base64"
	"errors"
	"testing"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func envelope(payload string) string {
	return `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/"><soapenv:Body>` +
		payload + `</soapenv:Body></soapenv:Envelope>`
}

func TestDecodeResponseFlattensRows(t *testing.T) {
	inner := `<ROWSET><ROW><A>1</A><B>2</B></ROW><ROW><A>3</A></ROW></ROWSET>`
	body := envelope(`<runReportReturn><reportBytes>` + b64(inner) + `</reportBytes></runReportReturn>`)

	res, err := DecodeResponse([]byte(body))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(res.Columns) != 2 || res.Columns[0] != "A" || res.Columns[1] != "B" {
		t.Fatalf("columns = %v, want [A B] in first-seen order", res.Columns)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(res.Rows))
	}
	if res.Rows[0]["A"] != "1" || res.Rows[0]["B"] != "2" {
		t.Fatalf("first row wrong: %v", res.Rows[0])
	}
	if _, ok := res.Rows[1]["B"]; ok {
		t.Fatalf("second row must not carry a B key: %v", res.Rows[1])
	}
	if res.RawXML != inner {
		t.Fatalf("raw xml not attached: %q", res.RawXML)
	}
}

func TestDecodeResponseEmptyRowset(t *testing.T) {
	body := envelope(`<runReportReturn><reportBytes>` + b64(`<ROWSET></ROWSET>`) + `</reportBytes></runReportReturn>`)

	res, err := DecodeResponse([]byte(body))
	if err != nil {
		t.Fatalf("empty rowset must not be an error: %v", err)
	}
	if len(res.Columns) != 0 || len(res.Rows) != 0 {
		t.Fatalf("want empty columns and rows, got %v / %v", res.Columns, res.Rows)
	}
}

func TestDecodeResponsePayloadSpellings(t *testing.T) {
	inner := b64(`<ROWSET><ROW><X>9</X></ROW></ROWSET>`)
	tests := []struct {
		name string
		body string
	}{
		{
			name: "unprefixed",
			body: envelope(`<runReportReturn><reportBytes>` + inner + `</reportBytes></runReportReturn>`),
		},
		{
			name: "v2 namespace",
			body: envelope(`<v2:runReportReturn xmlns:v2="` + nsV2 + `"><v2:reportBytes>` + inner + `</v2:reportBytes></v2:runReportReturn>`),
		},
		{
			name: "ns2 namespace",
			body: envelope(`<ns2:runReportReturn xmlns:ns2="` + nsPublicReport + `"><ns2:reportBytes>` + inner + `</ns2:reportBytes></ns2:runReportReturn>`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := DecodeResponse([]byte(tt.body))
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if len(res.Rows) != 1 || res.Rows[0]["X"] != "9" {
				t.Fatalf("payload not extracted: %+v", res)
			}
		})
	}
}

func TestDecodeResponseWrappedBase64(t *testing.T) {
	enc := b64(`<ROWSET><ROW><N>café</N></ROW></ROWSET>`)
	// The service line-wraps long payloads.
	wrapped := enc[:10] + "\n" + enc[10:20] + "\r\n  " + enc[20:]
	body := envelope(`<runReportReturn><reportBytes>` + wrapped + `</reportBytes></runReportReturn>`)

	res, err := DecodeResponse([]byte(body))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if res.Rows[0]["N"] != "café" {
		t.Fatalf("multi-byte value mangled: %q", res.Rows[0]["N"])
	}
}

func TestDecodeResponseFaults(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "bare faultstring",
			body: envelope(`<faultcode>soapenv:Server</faultcode><faultstring>ORA-00001: unique constraint violated</faultstring>`),
		},
		{
			name: "enveloped fault",
			body: envelope(`<soapenv:Fault xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/"><faultcode>soapenv:Server</faultcode><faultstring>ORA-00001: unique constraint violated</faultstring></soapenv:Fault>`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeResponse([]byte(tt.body))
			if !errors.Is(err, ErrServerFault) {
				t.Fatalf("want server fault, got %v", err)
			}
			var ce *CallError
			if !errors.As(err, &ce) {
				t.Fatalf("want *CallError, got %T", err)
			}
			if ce.Message != "ORA-00001: unique constraint violated" {
				t.Fatalf("fault text not surfaced: %q", ce.Message)
			}
		})
	}
}

func TestDecodeResponseFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind error
	}{
		{name: "malformed outer xml", body: `<Envelope><unclosed`, kind: ErrMalformedResponse},
		{name: "no payload element", body: envelope(`<runReportReturn></runReportReturn>`), kind: ErrEmptyPayload},
		{name: "blank payload", body: envelope(`<runReportReturn><reportBytes>   </reportBytes></runReportReturn>`), kind: ErrEmptyPayload},
		{name: "payload not xml", body: envelope(`<runReportReturn><reportBytes>` + b64("not xml at all") + `</reportBytes></runReportReturn>`), kind: ErrMalformedReport},
		{name: "payload not base64", body: envelope(`<runReportReturn><reportBytes>!!!not-base64!!!</reportBytes></runReportReturn>`), kind: ErrMalformedReport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := DecodeResponse([]byte(tt.body))
			if res != nil {
				t.Fatalf("no partial result allowed alongside an error")
			}
			if !errors.Is(err, tt.kind) {
				t.Fatalf("want %v, got %v", tt.kind, err)
			}
		})
	}
}

func TestFaultMessage(t *testing.T) {
	if _, ok := FaultMessage([]byte("plain text body")); ok {
		t.Fatalf("non-xml body must not report a fault")
	}
	msg, ok := FaultMessage([]byte(envelope(`<faultstring>ORA-01017: invalid username/password</faultstring>`)))
	if !ok || msg != "ORA-01017: invalid username/password" {
		t.Fatalf("fault not found: %q %v", msg, ok)
	}
}
