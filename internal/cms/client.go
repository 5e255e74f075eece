// internal/cms/client.go
package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second
	maxBodySize    = 8 << 20
)

// Config configures a Client. Endpoint is the repository API root,
// e.g. https://spacetraveling.cdn.prismic.io/api/v2.
type Config struct {
	Endpoint    string
	AccessToken string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client talks to the content API. A single Client is meant to be shared
// across requests.
type Client struct {
	endpoint *url.URL
	token    string
	client   *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("cms: endpoint is required")
	}
	u, err := url.Parse(strings.TrimRight(cfg.Endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("cms: invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("cms: endpoint must be http or https, got %q", u.Scheme)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		transport := &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          20,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			ResponseHeaderTimeout: timeout,
			TLSHandshakeTimeout:   5 * time.Second,
		}
		httpClient = &http.Client{Timeout: timeout, Transport: transport, CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		}}
	}

	return &Client{endpoint: u, token: cfg.AccessToken, client: httpClient}, nil
}

// Endpoint returns the API root the client was configured with.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Ref resolves the current master ref.
func (c *Client) Ref(ctx context.Context) (string, error) {
	var info apiInfo
	if err := c.getJSON(ctx, "ref", c.withToken(*c.endpoint), &info); err != nil {
		return "", err
	}
	for _, r := range info.Refs {
		if r.IsMasterRef {
			return r.Ref, nil
		}
	}
	return "", &TransportError{Op: "ref", URL: redact(c.endpoint), Err: errors.New("no master ref in api response")}
}

// GetByType returns one page of documents of the given type.
func (c *Client) GetByType(ctx context.Context, docType string, opts QueryOptions) (*Response, error) {
	ref, err := c.Ref(ctx)
	if err != nil {
		return nil, err
	}
	u := c.searchURL(ref, fmt.Sprintf(`[[at(document.type,%q)]]`, docType), opts)

	var resp Response
	if err := c.getJSON(ctx, "search", u, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetByUID returns the document of the given type whose uid matches.
func (c *Client) GetByUID(ctx context.Context, docType, uid string) (*Document, error) {
	ref, err := c.Ref(ctx)
	if err != nil {
		return nil, err
	}
	u := c.searchURL(ref, fmt.Sprintf(`[[at(my.%s.uid,%q)]]`, docType, uid), QueryOptions{PageSize: 1})

	var resp Response
	if err := c.getJSON(ctx, "search", u, &resp); err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			nf.Type, nf.UID = docType, uid
		}
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, &NotFoundError{Type: docType, UID: uid}
	}
	return &resp.Results[0], nil
}

// Follow fetches a next_page URL previously returned by the API. Only URLs
// on the configured API host are followed.
func (c *Client) Follow(ctx context.Context, rawURL string) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &TransportError{Op: "follow", URL: rawURL, Err: fmt.Errorf("invalid cursor: %w", err)}
	}
	if u.Scheme != c.endpoint.Scheme || u.Host != c.endpoint.Host {
		return nil, &TransportError{Op: "follow", URL: redact(u), Err: fmt.Errorf("cursor host %q does not match api host %q", u.Host, c.endpoint.Host)}
	}

	var resp Response
	if err := c.getJSON(ctx, "follow", c.withToken(*u), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) searchURL(ref, q string, opts QueryOptions) url.URL {
	u := *c.endpoint
	u.Path = strings.TrimRight(u.Path, "/") + "/documents/search"
	v := url.Values{}
	v.Set("ref", ref)
	v.Set("q", q)
	if len(opts.Fetch) > 0 {
		v.Set("fetch", strings.Join(opts.Fetch, ","))
	}
	if opts.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	if opts.Page > 0 {
		v.Set("page", strconv.Itoa(opts.Page))
	}
	if len(opts.Orderings) > 0 {
		v.Set("orderings", "["+strings.Join(opts.Orderings, ",")+"]")
	}
	u.RawQuery = v.Encode()
	return c.withToken(u)
}

func (c *Client) withToken(u url.URL) url.URL {
	if c.token == "" {
		return u
	}
	v := u.Query()
	if v.Get("access_token") == "" {
		v.Set("access_token", c.token)
		u.RawQuery = v.Encode()
	}
	return u
}

func (c *Client) getJSON(ctx context.Context, op string, u url.URL, out any) error {
	display := redact(&u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &TransportError{Op: op, URL: display, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Op: op, URL: display, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &NotFoundError{}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &TransportError{Op: op, URL: display, StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		return &TransportError{Op: op, URL: display, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// redact strips the access token so URLs are safe to log.
func redact(u *url.URL) string {
	cp := *u
	v := cp.Query()
	if v.Has("access_token") {
		v.Set("access_token", "REDACTED")
		cp.RawQuery = v.Encode()
	}
	return cp.String()
}
