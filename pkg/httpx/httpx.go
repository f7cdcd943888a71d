package httpx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/honeycarbs/jobscout/pkg/apierr"
	"github.com/honeycarbs/jobscout/pkg/logging"
)

const maxErrorBody = 4096

// Doer performs a single HTTP round trip. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ProxyDoer sends the request directly and, when the transport fails,
// retries it through each configured proxy prefix in turn
type ProxyDoer struct {
	next    Doer
	proxies []string
	logger  *logging.Logger
}

// NewProxyDoer wraps next with proxy fallback. With no proxies it is a passthrough.
func NewProxyDoer(next Doer, proxies []string, logger *logging.Logger) *ProxyDoer {
	if next == nil {
		next = http.DefaultClient
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	cleaned := make([]string, 0, len(proxies))
	for _, p := range proxies {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}

	return &ProxyDoer{next: next, proxies: cleaned, logger: logger}
}

// Do implements Doer
func (d *ProxyDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.next.Do(req)
	if err == nil {
		return resp, nil
	}
	if req.Context().Err() != nil || len(d.proxies) == 0 {
		return nil, err
	}

	d.logger.Debug("direct request failed, trying proxies", "host", req.URL.Host, "err", err)

	target := req.URL.String()
	for i, prefix := range d.proxies {
		proxied, perr := url.Parse(prefix + url.QueryEscape(target))
		if perr != nil {
			d.logger.Warn("skipping malformed proxy", "index", i, "err", perr)
			continue
		}

		preq := req.Clone(req.Context())
		preq.URL = proxied
		preq.Host = proxied.Host
		preq.Header.Set("X-Requested-With", "XMLHttpRequest")

		presp, perr := d.next.Do(preq)
		if perr == nil {
			d.logger.Debug("proxy request succeeded", "index", i)
			return presp, nil
		}
		d.logger.Debug("proxy request failed", "index", i, "err", perr)
	}

	return nil, fmt.Errorf("direct request and %d proxies failed: %w", len(d.proxies), err)
}

// Send performs req and converts transport failures and non-2xx statuses
// into classified apierr errors. On success the caller owns resp.Body.
func Send(doer Doer, provider string, req *http.Request) (*http.Response, error) {
	resp, err := doer.Do(req)
	if err != nil {
		return nil, apierr.Wrap(provider, apierr.ErrNetwork, err)
	}

	if err := Classify(provider, resp); err != nil {
		_ = resp.Body.Close()
		return nil, err
	}

	return resp, nil
}

// Classify returns nil for 2xx responses and a classified error otherwise.
// The body is read (bounded) but not closed.
func Classify(provider string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &apierr.Error{
		Provider: provider,
		Kind:     apierr.FromStatus(resp.StatusCode),
		Status:   resp.StatusCode,
		Message:  strings.TrimSpace(string(body)),
	}
}

// DecodeJSON decodes resp.Body into v and closes it. Malformed payloads are provider errors.
func DecodeJSON(provider string, resp *http.Response, v any) error {
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return apierr.Wrap(provider, apierr.ErrProvider, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
