package adminhttp

import "net/http"

// swaggerDoc is a hand-written OpenAPI document for the admin surface
// described by docs/docs.go's annotations. It stands in for swag's
// generated docs.json, which would normally be produced by running the
// swag CLI against those annotations.
const swaggerDoc = `{
  "swagger": "2.0",
  "info": {
    "title": "go-mcp-sdk admin API",
    "version": "0.1.0",
    "description": "Health, metrics, and session introspection for an MCP server embedding this SDK.",
    "license": {"name": "MIT"}
  },
  "basePath": "/",
  "schemes": ["http", "https"],
  "paths": {
    "/healthz": {
      "get": {
        "tags": ["Health"],
        "summary": "Liveness probe",
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/metrics": {
      "get": {
        "tags": ["Metrics"],
        "summary": "Prometheus metrics in exposition format",
        "produces": ["text/plain"],
        "responses": {"200": {"description": "metrics"}}
      }
    },
    "/api/v1/sessions": {
      "get": {
        "tags": ["Sessions"],
        "summary": "List active sessions",
        "responses": {"200": {"description": "sessions"}}
      }
    }
  }
}`

func handleSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(swaggerDoc))
}
