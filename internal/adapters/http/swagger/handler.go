// Package swagger serves the OpenAPI description of the dashboard API and a
// plain index of its operations.
package swagger

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
)

// Error constants.
var (
	ErrServe = errors.New("swagger serve failed")
	ErrSpec  = errors.New("invalid openapi document")
)

// OpenAPI is the embedded OpenAPI document.
//
//go:embed openapi.yaml
var OpenAPI []byte

// Operation is one method and path of the API.
type Operation struct {
	Method  string
	Path    string
	Summary string
}

var methodOrder = map[string]int{"get": 0, "post": 1, "put": 2, "patch": 3, "delete": 4}

// Operations parses doc and lists its operations sorted by path, then method.
func Operations(doc []byte) ([]Operation, error) {
	raw, err := yaml.Parser().Unmarshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpec, err)
	}
	paths, ok := raw["paths"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: missing paths", ErrSpec)
	}

	var ops []Operation
	for path, item := range paths {
		methods, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		for method, body := range methods {
			if _, known := methodOrder[method]; !known {
				continue
			}
			summary := ""
			if m, ok := body.(map[string]interface{}); ok {
				summary, _ = m["summary"].(string)
			}
			ops = append(ops, Operation{Method: strings.ToUpper(method), Path: path, Summary: summary})
		}
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Path != ops[j].Path {
			return ops[i].Path < ops[j].Path
		}
		return methodOrder[strings.ToLower(ops[i].Method)] < methodOrder[strings.ToLower(ops[j].Method)]
	})
	return ops, nil
}

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>API Docs</title>
  </head>
  <body>
    <h1>Elevatos dashboard API</h1>
    <p><a href="/openapi.yaml">openapi.yaml</a></p>
    <table>
{{- range .}}
      <tr><td><code>{{.Method}}</code></td><td><code>{{.Path}}</code></td><td>{{.Summary}}</td></tr>
{{- end}}
    </table>
  </body>
</html>
`))

// Register attaches the API docs routes to mux.
//
//	GET /api-docs      -> HTML index of operations
//	GET /openapi.yaml  -> embedded OpenAPI document
func Register(_ context.Context, mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("%w: mux is nil", ErrServe)
	}
	ops, err := Operations(OpenAPI)
	if err != nil {
		return err
	}

	mux.HandleFunc("GET /api-docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTmpl.Execute(w, ops); err != nil {
			http.Error(w, ErrServe.Error(), http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("GET /openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})
	return nil
}
