// Package prtg proxies device and group management to a PRTG monitoring
// server. All operations are pass-through: parameters are forwarded and the
// remote response (or error) is relayed.
package prtg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Device mirrors one row of the PRTG device table.
type Device struct {
	ObjID  int    `json:"objid"`
	Device string `json:"device"`
	Host   string `json:"host"`
	Group  string `json:"group"`
	Probe  string `json:"probe"`
	Status string `json:"status"`
}

// RemoteError carries a PRTG response body that reported a failure. The body
// is relayed to the caller verbatim, as the reference backend does.
type RemoteError struct {
	Body string
}

func (e *RemoteError) Error() string {
	return e.Body
}

// Client wraps the PRTG HTTP API. PRTG authenticates every call with a
// username/passhash pair in the query string.
type Client struct {
	baseURL    string
	username   string
	passhash   string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(baseURL, username, passhash string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		passhash: passhash,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AddDevice creates a device under the given parent group. PRTG signals
// failures inside a 200 response, so the body is inspected for an error tag.
func (c *Client) AddDevice(ctx context.Context, name, host, parentID string) (string, error) {
	params := url.Values{}
	params.Set("name", strings.TrimSpace(name))
	params.Set("host", strings.TrimSpace(host))
	params.Set("id", strings.TrimSpace(parentID))
	body, err := c.get(ctx, "/api/adddevice.htm", params)
	if err != nil {
		return "", err
	}
	if strings.Contains(string(body), "<error>") {
		return "", &RemoteError{Body: string(body)}
	}
	return string(body), nil
}

type deviceTable struct {
	Devices []Device `json:"devices"`
}

// ListDevices fetches the device table.
func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	params := url.Values{}
	params.Set("content", "devices")
	params.Set("columns", "objid,device,host,group,probe,status")
	body, err := c.get(ctx, "/api/table.json", params)
	if err != nil {
		return nil, err
	}
	var table deviceTable
	if err := json.Unmarshal(body, &table); err != nil {
		return nil, fmt.Errorf("prtg: decode device table: %w", err)
	}
	return table.Devices, nil
}

// RenameDevice sets the name property of an object.
func (c *Client) RenameDevice(ctx context.Context, id, newName string) (string, error) {
	params := url.Values{}
	params.Set("id", id)
	params.Set("name", "name")
	params.Set("value", strings.TrimSpace(newName))
	body, err := c.get(ctx, "/api/setobjectproperty.htm", params)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// DeleteDevice removes an object, pre-approving the confirmation prompt.
func (c *Client) DeleteDevice(ctx context.Context, id string) (string, error) {
	params := url.Values{}
	params.Set("id", id)
	params.Set("approve", "1")
	body, err := c.get(ctx, "/api/deleteobject.htm", params)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ListGroups fetches the group table. The whole response object is relayed,
// matching the reference behavior for this endpoint.
func (c *Client) ListGroups(ctx context.Context) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("content", "groups")
	params.Set("columns", "objid,group,probe")
	body, err := c.get(ctx, "/api/table.json", params)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("prtg: group table is not valid JSON")
	}
	return json.RawMessage(body), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	params.Set("username", c.username)
	params.Set("passhash", c.passhash)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode()), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("prtg: %s returned status %d", path, resp.StatusCode)
	}
	return body, nil
}
