package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"murmur/internal/domain"
)

// DefaultPollInterval is how often the HTTP transport polls the inbox when
// subscribed.
const DefaultPollInterval = 2 * time.Second

// HTTP talks to the relay's inbox API. Subscribe is implemented as polling
// over Fetch; the relay keeps envelopes until they are deleted.
type HTTP struct {
	Base         string
	HTTP         *http.Client
	PollInterval time.Duration
}

// NewHTTP returns an HTTP transport for base.
func NewHTTP(base string) *HTTP {
	return &HTTP{Base: base, HTTP: http.DefaultClient, PollInterval: DefaultPollInterval}
}

// Publish drops env into recipient's inbox.
func (c *HTTP) Publish(ctx context.Context, recipient domain.AccountID, env domain.WireEnvelope) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(env); err != nil {
		return domain.Wrap(domain.CodeTransport, "encode envelope", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.Base+"/inbox/"+url.PathEscape(string(recipient)), buf)
	if err != nil {
		return domain.Wrap(domain.CodeTransport, "publish envelope", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.do(req, nil); err != nil {
		return domain.Wrap(domain.CodeTransport, "publish envelope", err)
	}
	return nil
}

// Fetch returns every envelope currently queued for account.
func (c *HTTP) Fetch(ctx context.Context, account domain.AccountID) ([]domain.WireEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.Base+"/inbox/"+url.PathEscape(string(account)), nil)
	if err != nil {
		return nil, domain.Wrap(domain.CodeTransport, "fetch inbox", err)
	}
	var envs []domain.WireEnvelope
	if err := c.do(req, &envs); err != nil {
		return nil, domain.Wrap(domain.CodeTransport, "fetch inbox", err)
	}
	return envs, nil
}

// Subscribe polls account's inbox until the returned Unsubscribe is called
// or ctx is cancelled. Redelivery of not-yet-deleted envelopes is expected;
// the handler must tolerate duplicates.
func (c *HTTP) Subscribe(ctx context.Context, account domain.AccountID, fn domain.EnvelopeHandler) (domain.Unsubscribe, error) {
	interval := c.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			envs, err := c.Fetch(ctx, account)
			if err != nil {
				continue // transient; next tick retries
			}
			for _, env := range envs {
				fn(env)
			}
		}
	}()

	return domain.Unsubscribe(cancel), nil
}

// Delete removes a picked-up envelope from account's inbox.
func (c *HTTP) Delete(ctx context.Context, account domain.AccountID, envelopeID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.Base+"/inbox/"+url.PathEscape(string(account))+"/"+url.PathEscape(envelopeID), nil)
	if err != nil {
		return domain.Wrap(domain.CodeTransport, "delete envelope", err)
	}
	if err := c.do(req, nil); err != nil {
		return domain.Wrap(domain.CodeTransport, "delete envelope", err)
	}
	return nil
}

func (c *HTTP) do(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay %s %s: %s", req.Method, req.URL.Path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Compile-time assertion that HTTP implements domain.Transport.
var _ domain.Transport = (*HTTP)(nil)
