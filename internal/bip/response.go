package bip

import (
	"encoding/base64"
	"encoding/xml"
	"strings"
)

const (
	nsV2           = "http://xmlns.oracle.com/oxp/service/v2"
	nsPublicReport = "http://xmlns.oracle.com/oxp/service/PublicReportService"
	nsSOAPEnvelope = "http://schemas.xmlsoap.org/soap/envelope/"
)

// reportBytesCandidates lists the qualified names under which the service
// is known to return its Base64 payload, in priority order: unqualified,
// then the v2 namespace, then the PublicReportService namespace.
var reportBytesCandidates = []xml.Name{
	{Local: "reportBytes"},
	{Space: nsV2, Local: "reportBytes"},
	{Space: nsPublicReport, Local: "reportBytes"},
}

// faultCandidates lists the two fault shapes the service emits.
var faultCandidates = []xml.Name{
	{Local: "faultstring"},
	{Space: nsSOAPEnvelope, Local: "Fault"},
}

type xmlNode struct {
	XMLName  xml.Name
	Text     string    `xml:",chardata"`
	Children []xmlNode `xml:",any"`
}

func findNode(n *xmlNode, name xml.Name) *xmlNode {
	if n.XMLName.Local == name.Local && n.XMLName.Space == name.Space {
		return n
	}
	for i := range n.Children {
		if found := findNode(&n.Children[i], name); found != nil {
			return found
		}
	}
	return nil
}

func findFault(root *xmlNode) (string, bool) {
	for _, cand := range faultCandidates {
		node := findNode(root, cand)
		if node == nil {
			continue
		}
		if fs := findNode(node, xml.Name{Local: "faultstring"}); fs != nil {
			return strings.TrimSpace(fs.Text), true
		}
		return strings.TrimSpace(nodeText(node)), true
	}
	return "", false
}

func findReportBytes(root *xmlNode) (string, bool) {
	for _, cand := range reportBytesCandidates {
		if node := findNode(root, cand); node != nil {
			return node.Text, true
		}
	}
	return "", false
}

func nodeText(n *xmlNode) string {
	if len(n.Children) == 0 {
		return n.Text
	}
	var b strings.Builder
	b.WriteString(n.Text)
	for i := range n.Children {
		b.WriteString(nodeText(&n.Children[i]))
	}
	return b.String()
}

// decodeBase64Lenient reverses the encoder's byte-safe Base64. The service
// wraps long payloads in whitespace, so that is stripped first. A decode
// failure yields an empty string rather than an error; the empty string
// then fails the inner XML parse.
func decodeBase64Lenient(s string) string {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)

	raw, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return ""
	}
	return string(raw)
}

func flattenRows(root *xmlNode, raw string) *QueryResult {
	columns := make([]string, 0)
	seen := make(map[string]bool)
	rows := make([]map[string]string, 0, len(root.Children))

	for i := range root.Children {
		rowEl := &root.Children[i]
		row := make(map[string]string, len(rowEl.Children))
		for j := range rowEl.Children {
			cell := &rowEl.Children[j]
			name := cell.XMLName.Local
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
			row[name] = cell.Text
		}
		rows = append(rows, row)
	}

	return &QueryResult{Columns: columns, Rows: rows, RawXML: raw}
}

// DecodeResponse turns a raw SOAP response body into a QueryResult, or
// fails with one of the classified call errors. Zero report rows is a
// success; the decoded report XML is attached to the result either way.
func DecodeResponse(body []byte) (*QueryResult, error) {
	var root xmlNode
	if err := xml.Unmarshal(body, &root); err != nil {
		return nil, malformedResponse(err)
	}

	if msg, ok := findFault(&root); ok {
		return nil, serverFault(msg)
	}

	payload, ok := findReportBytes(&root)
	if !ok || strings.TrimSpace(payload) == "" {
		return nil, emptyPayload()
	}

	decoded := decodeBase64Lenient(payload)

	var report xmlNode
	if err := xml.Unmarshal([]byte(decoded), &report); err != nil {
		return nil, malformedReportXML(err)
	}

	return flattenRows(&report, decoded), nil
}

// FaultMessage scans an arbitrary response body for a SOAP fault string.
// Used to surface the fault text from non-2xx responses in place of the
// raw body.
func FaultMessage(body []byte) (string, bool) {
	var root xmlNode
	if err := xml.Unmarshal(body, &root); err != nil {
		return "", false
	}
	return findFault(&root)
}
