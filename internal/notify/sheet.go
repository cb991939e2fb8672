package notify

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// Record is one spreadsheet row. Field names map 1:1 onto the query keys
// the logging endpoint recognises.
type Record struct {
	OrderID         string
	FirstName       string
	LastName        string
	Coach           string
	PackName        string
	JerseySize      string
	ShirtSize       string
	HoodieSize      string
	Extras          string
	ExtrasJSON      string
	Total           string
	ReferenceNumber string
	IBAN            string
	Model           string
}

// SheetClient appends rows to the spreadsheet endpoint via GET. The
// response is opaque and deliberately ignored; failures are swallowed by
// design and only logged for diagnostics.
type SheetClient struct {
	url    string
	secret string
	client *http.Client
	logger *zap.Logger
}

// NewSheetClient builds a client for the given endpoint URL. An empty URL
// yields a disabled client.
func NewSheetClient(url, secret string, client *http.Client, logger *zap.Logger) *SheetClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &SheetClient{url: url, secret: secret, client: client, logger: logger}
}

// Enabled reports whether an endpoint URL is configured.
func (c *SheetClient) Enabled() bool {
	return c.url != ""
}

// Append fires the logging request. Best-effort: the caller never sees an
// error and must not depend on the response.
func (c *SheetClient) Append(ctx context.Context, rec Record) {
	if !c.Enabled() {
		return
	}
	q := url.Values{}
	q.Set("secret", c.secret)
	q.Set("orderId", rec.OrderID)
	q.Set("firstName", rec.FirstName)
	q.Set("lastName", rec.LastName)
	q.Set("coach", rec.Coach)
	q.Set("packName", rec.PackName)
	q.Set("jerseySize", rec.JerseySize)
	q.Set("shirtSize", rec.ShirtSize)
	q.Set("hoodieSize", rec.HoodieSize)
	q.Set("extras", rec.Extras)
	q.Set("extrasJson", rec.ExtrasJSON)
	q.Set("total", rec.Total)
	q.Set("referenceNumber", rec.ReferenceNumber)
	q.Set("iban", rec.IBAN)
	q.Set("model", rec.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?"+q.Encode(), nil)
	if err != nil {
		c.logger.Debug("sheet request build failed", zap.Error(err))
		return
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("sheet append failed", zap.Error(err))
		return
	}
	// drain and drop; the endpoint's response is not inspectable
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	_ = resp.Body.Close()
}
