package servers

import (
	"fmt"

	"storefront/api"

	"github.com/getkin/kin-openapi/openapi3"
)

// GetSwagger parses and validates the embedded OpenAPI document. Each call
// returns a fresh copy, so callers may modify it.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	swagger, err := loader.LoadFromData(api.Spec)
	if err != nil {
		return nil, fmt.Errorf("error loading OpenAPI document: %w", err)
	}

	if err = swagger.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	return swagger, nil
}
