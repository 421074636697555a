// Package api holds the OpenAPI contract of the HTTP API.
package api

import (
	_ "embed"
)

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen --config=oapi-codegen.yml openapi.yml

// Spec is the raw OpenAPI document.
//
//go:embed openapi.yml
var Spec []byte
