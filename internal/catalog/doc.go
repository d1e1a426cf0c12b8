// Package catalog provides an HTTP client for the series catalog REST API.
//
// # Overview
//
// The catalog API owns every series, category and episode record. This package
// only maps its endpoints onto typed Go calls; it holds no state beyond the
// bearer token of the current session.
//
// # Clients
//
// A Client carries two *http.Client values sharing one base URL:
//
//   - the authenticated client, whose transport attaches
//     "Authorization: Bearer <token>" whenever a token is set
//   - the public client, used only by Login, which never attaches a token
//
// Both transports stamp an X-Request-ID header so individual calls can be
// matched against server logs.
//
// # Resources
//
//	client.Series()      PATCH updates, plus Page and ListByYear
//	client.Categories()  PUT updates
//	client.Episodes()    Create only
//
// Every call maps to exactly one request. Nothing is retried: a failed call
// returns immediately and the caller decides what to show.
//
// # Errors
//
// Non-2xx responses become *StatusError. Use errors.Is with ErrNotFound or
// ErrUnauthorized to branch on the status class:
//
//	if errors.Is(err, catalog.ErrUnauthorized) {
//		// token expired or revoked
//	}
//
// Transport failures are wrapped with "execute request" and decoding failures
// with "decode response".
package catalog
