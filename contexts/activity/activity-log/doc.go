// Package activitylog records one activity row per inbound request.
//
// Layering:
// - domain: the Activity entity and its errors
// - application: record command, list query, retention sweeper worker
// - ports: persistence, clock, id and observer boundaries
// - adapters: request middleware, HTTP listing, memory and postgres stores
// - transport: module-private DTOs for HTTP contracts
//
// The middleware runs on every route of the process and must never change the
// response it observes; persistence failures are logged and counted only.
package activitylog
