// Package huma re-exports the huma error constructors the handlers use, so
// error mapping reads the same across the api packages.
package huma

import base "github.com/danielgtaylor/huma/v2"

var (
	Error403Forbidden  = base.Error403Forbidden
	Error404NotFound   = base.Error404NotFound
	Error502BadGateway = base.Error502BadGateway
)
