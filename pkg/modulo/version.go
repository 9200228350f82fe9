// Package modulo exposes build identity shared by the CLI and the HTTP API.
package modulo

// Version is the semantic version reported by `modulod version` and the
// /healthz endpoint.
const Version = "0.4.0"
