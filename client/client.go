package client

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/foomo/sitecheck/pkg/handler"
	"github.com/foomo/sitecheck/pkg/utils"
	"github.com/foomo/sitecheck/requests"
	"github.com/foomo/sitecheck/responses"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to the http surface of a running sitecheck server
type Client struct {
	t transport
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(t transport) *Client {
	return &Client{
		t: t,
	}
}

// NewHTTPClient server is the base url of the handler, including its base path
func NewHTTPClient(server string, opts ...HTTPTransportOption) (*Client, error) {
	if !utils.IsValidURL(server) {
		return nil, errors.Errorf("invalid server url: %q", server)
	}
	return New(NewHTTPTransport(server, opts...)), nil
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Report the last validation report of the server
func (c *Client) Report(ctx context.Context) (*responses.Report, error) {
	return c.report(ctx, http.MethodGet, handler.RouteReport, nil)
}

// Validate triggers a validation run and returns its report, with update the
// server reloads its bundle first
func (c *Client) Validate(ctx context.Context, update bool) (*responses.Report, error) {
	return c.report(ctx, http.MethodPost, handler.RouteValidate, &requests.Validate{Update: update})
}

// Sitemap the rendered sitemap.xml
func (c *Client) Sitemap(ctx context.Context) ([]byte, error) {
	return c.t.call(ctx, http.MethodGet, handler.RouteSitemap, nil)
}

// Robots the rendered robots.txt
func (c *Client) Robots(ctx context.Context) (string, error) {
	data, err := c.t.call(ctx, http.MethodGet, handler.RouteRobots, nil)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Bundle the raw bundle the server currently works on
func (c *Client) Bundle(ctx context.Context) (map[string]interface{}, error) {
	data, err := c.t.call(ctx, http.MethodGet, handler.RouteBundle, nil)
	if err != nil {
		return nil, err
	}
	var ret map[string]interface{}
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, errors.Wrap(err, "failed to decode bundle")
	}
	return ret, nil
}

func (c *Client) ShutDown() {
	c.t.shutdown()
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (c *Client) report(ctx context.Context, method string, route handler.Route, request interface{}) (*responses.Report, error) {
	data, err := c.t.call(ctx, method, route, request)
	if err != nil {
		return nil, err
	}
	ret := &responses.Report{}
	if err := json.Unmarshal(data, ret); err != nil {
		return nil, errors.Wrap(err, "failed to decode report")
	}
	return ret, nil
}
