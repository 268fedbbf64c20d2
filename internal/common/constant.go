// Package common contains shared constants and sentinel errors used across
// the Entrust server, client and admin tool.
package common

// AuthorizationHeaderName carries the bearer access token on HTTP requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "
