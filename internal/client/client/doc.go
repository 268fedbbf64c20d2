// Package client talks to the Entrust server.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     the member collection resource, sign-in, identifier recovery, card
//     export and the assistant.
//  2. A JSON/HTTP implementation (see HTTPClient) that keeps the session's
//     tokens, attaches the bearer token to every call, transparently refreshes
//     an expired access token once and maps status codes to sentinel errors.
//  3. A reachability check (see HealthChecker) over the server's standard gRPC
//     health service, used by the REPL's online/offline indicator.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx answers are *StatusError
// values that unwrap to ErrUnauthorized or the matching common sentinel
// (ErrorNotFound, ErrorForbidden, ErrorValidation, ErrorAlreadyExists, ErrVersionConflict), so
// callers match them with errors.Is.
package client
