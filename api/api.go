// Package api embeds the OpenAPI document of the HTTP interface.
package api

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openAPIYAML []byte

var (
	loadOnce sync.Once
	loaded   *openapi3.T
	loadErr  error

	registerOnce sync.Once
	registerErr  error
)

// Load parses and validates the embedded document. The result is cached.
func Load(ctx context.Context) (*openapi3.T, error) {
	loadOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(openAPIYAML)
		if err != nil {
			loadErr = fmt.Errorf("failed to load openapi document: %w", err)
			return
		}
		if err = doc.Validate(ctx); err != nil {
			loadErr = fmt.Errorf("invalid openapi document: %w", err)
			return
		}
		loaded = doc
	})
	return loaded, loadErr
}

// JSON returns the document rendered as JSON.
func JSON(ctx context.Context) ([]byte, error) {
	doc, err := Load(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

type swaggerDoc struct {
	body string
}

func (d swaggerDoc) ReadDoc() string {
	return d.body
}

// RegisterSwagger makes the document available to the Swagger UI handler. Only
// the first call registers.
func RegisterSwagger(ctx context.Context) error {
	registerOnce.Do(func() {
		body, err := JSON(ctx)
		if err != nil {
			registerErr = err
			return
		}
		swag.Register(swag.Name, swaggerDoc{body: string(body)})
	})
	return registerErr
}
