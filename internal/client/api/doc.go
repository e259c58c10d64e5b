// Package api is the request/response contract with the furniture-store REST
// API.
//
// It provides:
//  1. HeaderBuilder, which produces the JSON and bearer headers for a request,
//     falling back to the durable token when the caller has none.
//  2. ToList / ToPage / ExtractErrorMessage, which normalise list payloads
//     (raw arrays or {results, count} envelopes) and error payloads.
//  3. Client, the HTTP transport used by the login exchange and the typed
//     resource calls (products, categories, orders, users).
//
// # Error Handling
//
// A 401 on any authenticated call is reported to the session through the
// handler registered with UseSession and surfaces as ErrUnauthorized. Other
// non-2xx responses become *APIError. Transport failures wrap ErrNetwork.
// Nothing is retried.
package api
