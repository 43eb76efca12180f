// Package client contains the GophChat gRPC client used by the CLI.
//
// GRPCClient manages a connection, sends every call with the JSON content
// subtype, injects the access token through an interceptor and transparently
// refreshes it once when the server reports it expired. gRPC status codes
// are mapped to the sentinel errors in errors.go so callers can use
// errors.Is.
package client
