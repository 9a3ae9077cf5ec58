// Package docs carries the swag annotation source for the admin HTTP
// surface. The generated swagger.json this package's annotations describe
// is served by adminhttp directly (see adminhttp/swagger.go) rather than
// through swag's generated embed, since running the swag CLI is outside
// this repository's build step.
package docs

// General API Info
//
//	@title				go-mcp-sdk admin API
//	@version			0.1.0
//	@description		Health, metrics, and session introspection for an MCP server embedding this SDK.
//
//	@license.name		MIT
//
//	@BasePath			/
//	@schemes			http https
//
//	@tag.name			Health
//	@tag.description	Liveness and readiness probes
//	@tag.name			Metrics
//	@tag.description	Prometheus metrics in exposition format
//	@tag.name			Sessions
//	@tag.description	Introspection over currently connected sessions
