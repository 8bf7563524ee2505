package bip

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

const proxyHint = "; if the service blocks cross-origin requests, configure a CORS proxy for this connection"

// Client executes report calls. It holds no per-connection state and is
// safe for concurrent use; the connection record travels with each call.
type Client struct {
	http *http.Client
}

// NewClient wraps an http.Client. Timeouts and retry policy belong to the
// caller: pass a client with a deadline or cancel via context.
func NewClient(h *http.Client) *Client {
	if h == nil {
		h = &http.Client{}
	}
	return &Client{http: h}
}

// Execute runs one statement against the connection's report service and
// returns the flattened result. Elapsed time is measured around the full
// round trip, encode and decode included.
func (c *Client) Execute(ctx context.Context, conn Connection, sqlText string, rowLimit int) (*QueryResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()

	body := EncodeRequest(sqlText, rowLimit, conn.SOAPTemplate, conn.Username, conn.Password)
	fetchURL := BuildFetchURL(conn.ProxyURL, ResolveServiceURL(conn.BaseURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fetchURL, strings.NewReader(body))
	if err != nil {
		return nil, networkError("invalid request target "+fetchURL, err)
	}
	req.Header.Set("Content-Type", "text/xml;charset=UTF-8")
	req.Header.Set("SOAPAction", `""`)

	resp, err := c.http.Do(req)
	if err != nil {
		msg := "request failed: " + err.Error()
		if strings.TrimSpace(conn.ProxyURL) == "" {
			msg += proxyHint
		}
		return nil, networkError(msg, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError("reading response failed", err)
	}

	// A well-formed fault wins over the HTTP status; the service has been
	// seen returning faults under both 200 and 500.
	if fault, ok := FaultMessage(raw); ok {
		return nil, serverFault(fault)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, httpError(resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	result, err := DecodeResponse(raw)
	if err != nil {
		return nil, err
	}

	result.DurationMs = time.Since(start).Milliseconds()
	return result, nil
}
