// Package backend implements the client for the remote submission
// collaborator: the REST service that persists customer records. The service
// itself is opaque; this package only encodes the contract the wizard relies
// on.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"leadfunnel/internal/funnel"
	"leadfunnel/pkg/types"
)

// Client talks to the collaborator. The default http.Client applies no
// timeout, leaving the transport to decide; callers that want one inject
// their own client.
type Client struct {
	base string
	http *http.Client
	log  zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger installs a structured logger for request diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a client for the collaborator at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{},
		log:  zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CreateCustomer posts a multipart payload with the serialized personal
// info, the location string, and the utility-bill attachment. On success it
// returns the stored record including the server-issued `_id`.
func (c *Client) CreateCustomer(ctx context.Context, info types.PersonalInfo, location string, bill types.UtilityBill) (types.Customer, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	pi, err := json.Marshal(info)
	if err != nil {
		return types.Customer{}, fmt.Errorf("marshal personal info: %w", err)
	}
	if err := mw.WriteField("personalInfo", string(pi)); err != nil {
		return types.Customer{}, err
	}
	if err := mw.WriteField("location", location); err != nil {
		return types.Customer{}, err
	}
	fw, err := mw.CreateFormFile("utilityBill", bill.Name)
	if err != nil {
		return types.Customer{}, err
	}
	if _, err := fw.Write(bill.Content); err != nil {
		return types.Customer{}, err
	}
	if err := mw.Close(); err != nil {
		return types.Customer{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/customers", &body)
	if err != nil {
		return types.Customer{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.http.Do(req)
	if err != nil {
		return types.Customer{}, funnel.RemoteCallError{Message: "Network error. Please check your connection and try again.", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.Customer{}, c.remoteError(resp)
	}
	var cust types.Customer
	if err := json.NewDecoder(resp.Body).Decode(&cust); err != nil {
		return types.Customer{}, funnel.RemoteCallError{Err: fmt.Errorf("decode create response: %w", err)}
	}
	c.log.Debug().Str("customer", cust.ID).Msg("customer created")
	return cust, nil
}

// UpdateCustomer merges patch into the identified record via a JSON PUT.
func (c *Client) UpdateCustomer(ctx context.Context, id string, patch map[string]any) error {
	b, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal patch: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.customerURL(id), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return funnel.RemoteCallError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.remoteError(resp)
	}
	return nil
}

// ListCustomers returns the full record list for the admin view.
func (c *Client) ListCustomers(ctx context.Context) ([]types.Customer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/customers", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, funnel.RemoteCallError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.remoteError(resp)
	}
	var customers []types.Customer
	if err := json.NewDecoder(resp.Body).Decode(&customers); err != nil {
		return nil, funnel.RemoteCallError{Err: fmt.Errorf("decode list response: %w", err)}
	}
	return customers, nil
}

// DeleteCustomer removes a record by identifier.
func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.customerURL(id), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return funnel.RemoteCallError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.remoteError(resp)
	}
	return nil
}

// DownloadBill fetches the raw attachment bytes for a record. The returned
// name comes from the Content-Disposition header when the collaborator sets
// one.
func (c *Client) DownloadBill(ctx context.Context, id string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.customerURL(id)+"/file", nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", funnel.RemoteCallError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", c.remoteError(resp)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", funnel.RemoteCallError{Err: err}
	}
	name := ""
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			name = params["filename"]
		}
	}
	return b, name, nil
}

func (c *Client) customerURL(id string) string {
	return c.base + "/api/customers/" + id
}

// remoteError decodes the collaborator's JSON error body when present so a
// server-supplied message can be surfaced to the user.
func (c *Client) remoteError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)
	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	c.log.Error().Int("status", resp.StatusCode).Str("msg", msg).Msg("collaborator call failed")
	return funnel.RemoteCallError{
		Message: msg,
		Err:     fmt.Errorf("unexpected status %d", resp.StatusCode),
	}
}
