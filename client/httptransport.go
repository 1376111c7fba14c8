package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/foomo/sitecheck/pkg/handler"
	"github.com/foomo/sitecheck/responses"
)

type (
	httpTransport struct {
		client   *http.Client
		endpoint string
	}
	HTTPTransportOption func(*httpTransport)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewHTTPTransport will create a new http transport for the given server.
// Caution: the provided server url is not validated!
func NewHTTPTransport(server string, opts ...HTTPTransportOption) *httpTransport { //nolint:revive
	inst := &httpTransport{
		endpoint: strings.TrimRight(server, "/"),
		client:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func HTTPTransportWithHTTPClient(v *http.Client) HTTPTransportOption {
	return func(o *httpTransport) {
		o.client = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (ht *httpTransport) shutdown() {
	ht.client.CloseIdleConnections()
}

func (ht *httpTransport) call(ctx context.Context, method string, route handler.Route, request interface{}) ([]byte, error) {
	var body io.Reader
	if request != nil {
		requestBytes, err := json.Marshal(request)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal request")
		}
		body = bytes.NewReader(requestBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, ht.endpoint+"/"+string(route), body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ht.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, responses.NewError(resp.StatusCode, resp.StatusCode, strings.TrimSpace(string(responseBytes)))
	}
	return responseBytes, nil
}
