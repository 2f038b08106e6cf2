// Package practicum implements homework.Source over the Practicum homework statuses API.
package practicum

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
	"time"

	"homework_notification_bot/internal/domain/homework"
)

// DefaultEndpoint is the production homework statuses URL.
const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

const userAgent = "homework-notification-bot"

// maxResponseBytes caps how much of a response body is decoded.
const maxResponseBytes = 4 << 20

// Compile-time interface satisfaction check.
var _ homework.Source = (*Client)(nil)

// Client polls the review API with a static OAuth token.
type Client struct {
	http     *http.Client
	endpoint string
	token    string
}

// NewClient creates a Client whose requests are bounded by timeout.
func NewClient(endpoint, token string, timeout time.Duration) *Client {
	return NewClientWithHTTPClient(&http.Client{Timeout: timeout}, endpoint, token)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
func NewClientWithHTTPClient(httpClient *http.Client, endpoint, token string) *Client {
	return &Client{http: httpClient, endpoint: endpoint, token: token}
}

// Fetch requests all reviews changed since from. Anything other than a
// 200 response with a JSON body is reported as a KindRequest error.
// The body is decoded with UseNumber so integer fields keep their exact value.
func (c *Client) Fetch(ctx context.Context, from int64) (any, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, c.failure(0, fmt.Errorf("parsing endpoint: %w", err))
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(from, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, c.failure(0, fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.failure(0, transportCause(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.failure(resp.StatusCode, nil)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, c.failure(resp.StatusCode, fmt.Errorf("decoding response body: %w", err))
	}
	return payload, nil
}

// transportCause strips the parts of a transport error that change between
// attempts: the request URL (it carries from_date) and the local address
// (an ephemeral port). A recurring outage then keeps one error identity.
func transportCause(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &net.OpError{Op: opErr.Op, Net: opErr.Net, Addr: opErr.Addr, Err: opErr.Err}
	}
	return err
}

func (c *Client) failure(status int, err error) error {
	return &homework.Error{
		Kind:       homework.KindRequest,
		Op:         "fetch homework statuses",
		Endpoint:   c.endpoint,
		StatusCode: status,
		Err:        err,
	}
}
