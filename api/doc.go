// Package api exposes the admin HTTP surface.
//
// The server carries monitor CRUD, live status, persisted check history,
// liveness/readiness probes and the Prometheus metrics endpoint. Everything
// under /api/v1 is protected by a static API key when one is configured;
// the probe and metrics endpoints are always open.
package api
