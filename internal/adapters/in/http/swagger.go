package http

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

type openAPIDoc struct {
	doc []byte
}

func (d openAPIDoc) ReadDoc() string {
	return string(d.doc)
}

var registerDocOnce sync.Once

// registerSwaggerDoc publishes the API contract under swag's default
// instance, which is what the swagger UI handler serves as doc.json.
func registerSwaggerDoc(swagger *openapi3.T) error {
	doc, err := json.Marshal(swagger)
	if err != nil {
		return fmt.Errorf("marshal openapi document: %w", err)
	}

	registerDocOnce.Do(func() {
		if swag.GetSwagger(swag.Name) == nil {
			swag.Register(swag.Name, openAPIDoc{doc: doc})
		}
	})

	return nil
}
