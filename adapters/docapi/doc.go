// Package docapi is the transport-agnostic HTTP controller for document
// generation, preview and login endpoints. The net/http and go-router
// adapters implement Request and Response on top of it.
package docapi
