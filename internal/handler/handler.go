// Package handler is the first layer after the router.
//
// The article resource is served through a normalized request/response
// envelope (Request, Response) that does not depend on Echo; HandleEnvelope
// adapts it to Echo routes. System endpoints (health, docs) are plain Echo
// handlers.
package handler
