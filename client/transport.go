package client

import (
	"context"

	"github.com/foomo/sitecheck/pkg/handler"
)

type transport interface {
	call(ctx context.Context, method string, route handler.Route, request interface{}) ([]byte, error)
	shutdown()
}
