// Package httputil provides the JSON plumbing of the graphlab HTTP API.
//
// # Responses
//
// [WriteJSON] encodes a value with a status code. [WriteError] maps a
// structured error from pkg/errors to an HTTP status and writes it as
//
//	{"error": {"code": "DUPLICATE_ID", "message": "node A already exists"}}
//
// [StatusFor] exposes the mapping on its own.
//
// # Requests
//
// [DecodeJSON] reads a size-limited JSON body and rejects unknown fields.
//
// # Logging
//
// [RequestLogger] is a middleware that logs one line per request with the
// method, path, status, size and duration.
package httputil
