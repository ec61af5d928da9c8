package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"murmur/internal/domain"
)

// HTTP talks to the key directory over its JSON API.
type HTTP struct {
	Base string
	HTTP *http.Client
}

// NewHTTP returns an HTTP directory client for base.
func NewHTTP(base string) *HTTP { return &HTTP{Base: base, HTTP: http.DefaultClient} }

type keyRecord struct {
	Account   domain.AccountID `json:"account"`
	PublicKey string           `json:"publicKey"`
}

// Publish uploads account's current public key, replacing any previous one.
func (c *HTTP) Publish(ctx context.Context, account domain.AccountID, publicKeyB64 string) error {
	rec := keyRecord{Account: account, PublicKey: publicKeyB64}
	if err := c.post(ctx, "/keys/"+url.PathEscape(string(account)), rec); err != nil {
		return domain.Wrap(domain.CodeTransport, "publish public key", err)
	}
	return nil
}

// Resolve fetches the directory's current key for account. A directory miss
// is reported via the bool, not an error.
func (c *HTTP) Resolve(ctx context.Context, account domain.AccountID) (string, bool, error) {
	var rec keyRecord
	ok, err := c.getJSON(ctx, "/keys/"+url.PathEscape(string(account)), &rec)
	if err != nil {
		return "", false, domain.Wrap(domain.CodeTransport, "resolve public key", err)
	}
	if !ok || rec.PublicKey == "" {
		return "", false, nil
	}
	return rec.PublicKey, true, nil
}

func (c *HTTP) post(ctx context.Context, path string, in any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("directory post %s: %s", path, resp.Status)
	}
	return nil
}

// getJSON returns (false, nil) on a 404 so callers can distinguish absence.
func (c *HTTP) getJSON(ctx context.Context, path string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode/100 != 2 {
		return false, fmt.Errorf("directory get %s: %s", path, resp.Status)
	}
	return true, json.NewDecoder(resp.Body).Decode(out)
}

// Compile-time assertion that HTTP implements domain.KeyDirectory.
var _ domain.KeyDirectory = (*HTTP)(nil)
