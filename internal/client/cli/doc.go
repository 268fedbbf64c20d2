// Package cli provides the interactive Entrust terminal client.
//
// It wires configuration, the API client, the client services and a REPL
// that plays the role of the single-page site: a view router, registration
// with ID card issuance, sign-in, the member dashboard, downloads, the
// devotional assistant and, for admins, member verification.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// A background watcher pings the server's gRPC health endpoint and shows
// online/offline in the prompt.
package cli
