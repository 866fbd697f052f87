package node

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

	"github.com/google/uuid"

	"github.com/pyropy/ringaudit/core/model"
)

// ErrNotFound is the expected negative answer from a storage node: this node
// does not hold the entity. Callers must treat it differently from every
// other failure.
var ErrNotFound = errors.New("not found")

// StatusError is an unexpected response status, anything outside 2xx that is
// not a plain 404.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return "unexpected status " + strconv.Itoa(e.Code)
}

// Timeouts carries the two independent budgets every node RPC runs under:
// one for establishing the connection, one for the full response.
type Timeouts struct {
	Connect  time.Duration
	Response time.Duration
}

// Client speaks the storage-node HTTP protocol. Safe for use from many
// goroutines.
type Client struct {
	http     *http.Client
	timeouts Timeouts
}

func NewClient(t Timeouts) *Client {
	dialer := &net.Dialer{Timeout: t.Connect}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConnsPerHost: 8,
	}

	return &Client{
		http:     &http.Client{Transport: transport},
		timeouts: t,
	}
}

// ListAccountPage fetches one page of an account listing starting after
// marker. An empty slice means the listing is exhausted.
func (c *Client) ListAccountPage(ctx context.Context, n model.Node, part uint64, account, marker string) ([]model.ContainerEntry, error) {
	var entries []model.ContainerEntry
	err := c.list(ctx, n, part, model.Path{Account: account}, marker, &entries)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// ListContainerPage fetches one page of a container listing starting after
// marker. An empty slice means the listing is exhausted.
func (c *Client) ListContainerPage(ctx context.Context, n model.Node, part uint64, account, container, marker string) ([]model.ObjectEntry, error) {
	var entries []model.ObjectEntry
	err := c.list(ctx, n, part, model.Path{Account: account, Container: container}, marker, &entries)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// HeadObject checks whether the node holds a replica of the object. It
// returns nil when the replica exists, ErrNotFound on a clean 404 and an
// error describing the failure otherwise.
func (c *Client) HeadObject(ctx context.Context, n model.Node, part uint64, account, container, object string) error {
	resp, err := c.do(ctx, http.MethodHead, n, part, model.Path{Account: account, Container: container, Object: object}, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return statusToError(resp.StatusCode)
}

// DeleteContainerEntry writes a tombstone for the object into the container
// listing held by the node. The timestamp distinguishes this delete from the
// original write under last-write-wins semantics.
func (c *Client) DeleteContainerEntry(ctx context.Context, n model.Node, part uint64, account, container, object, timestamp string) error {
	headers := map[string]string{"X-Timestamp": timestamp}
	resp, err := c.do(ctx, http.MethodDelete, n, part, model.Path{Account: account, Container: container, Object: object}, nil, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return statusToError(resp.StatusCode)
}

func (c *Client) list(ctx context.Context, n model.Node, part uint64, p model.Path, marker string, out any) error {
	q := url.Values{"format": {"json"}}
	if marker != "" {
		q.Set("marker", marker)
	}

	resp, err := c.do(ctx, http.MethodGet, n, part, p, q, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := statusToError(resp.StatusCode); err != nil {
		return err
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) do(ctx context.Context, method string, n model.Node, part uint64, p model.Path, q url.Values, headers map[string]string) (*http.Response, error) {
	// the response budget covers reading the body as well, so the timer is
	// released by the body wrapper, not here
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Response)
	defer func() {
		if cancel != nil {
			cancel()
		}
	}()

	u := &url.URL{
		Scheme: "http",
		Host:   n.HostPort(),
		Path:   requestPath(n, part, p),
	}
	if q != nil {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("X-Trans-Id", "tx-"+uuid.NewString())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	cancel = nil
	return resp, nil
}

// requestPath builds the decoded on-wire path; url.URL takes care of
// percent-encoding when the request is serialized.
func requestPath(n model.Node, part uint64, p model.Path) string {
	s := fmt.Sprintf("/%s/%d/%s", n.Device, part, p.Account)
	if p.Container != "" {
		s += "/" + p.Container
	}
	if p.Object != "" {
		s += "/" + p.Object
	}

	return s
}

func statusToError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return &StatusError{Code: code}
	}
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
