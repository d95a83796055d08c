package http

import (
	"context"
	_ "embed"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/m-mizutani/goerr/v2"
)

//go:embed openapi.yaml
var openapiYAML []byte

// LoadAPISpec parses and validates the OpenAPI document of the server
func LoadAPISpec(ctx context.Context) (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openapiYAML)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load OpenAPI document")
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, goerr.Wrap(err, "invalid OpenAPI document")
	}
	return doc, nil
}

// queryParam returns the schema of a query parameter declared for the GET operation of path
func queryParam(doc *openapi3.T, path, name string) (*openapi3.Schema, error) {
	item := doc.Paths.Value(path)
	if item == nil || item.Get == nil {
		return nil, goerr.New("operation not declared", goerr.V("path", path))
	}
	p := item.Get.Parameters.GetByInAndName(openapi3.ParameterInQuery, name)
	if p == nil || p.Schema == nil || p.Schema.Value == nil {
		return nil, goerr.New("query parameter not declared", goerr.V("path", path), goerr.V("name", name))
	}
	return p.Schema.Value, nil
}

func handleAPISpec(doc *openapi3.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, doc)
	}
}
