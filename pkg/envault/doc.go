// Package envault is the official Go client for the Envault secrets
// management API.
//
// A Client is constructed from a Config whose only required field is the
// bearer token:
//
//	client, err := envault.New(envault.Config{
//	    Token:    os.Getenv("ENVAULT_TOKEN"),
//	    CacheTTL: 5 * time.Minute,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	secrets, err := client.ExportSecrets(ctx, "proj_123", "production")
//
// Every method issues exactly one HTTP request (SetSecret may issue two, see
// below), applies the configured timeout and returns either a typed result
// or an *APIError. There are no retries and no logging; failures surface
// once, to the caller.
//
// # Errors
//
// All failures are *APIError values carrying the service's message, the
// HTTP status, and optionally a machine-readable code and details map.
// Status 0 means the request never produced an HTTP response (DNS, refused
// connection, broken transport) and status 408 means the client-side
// timeout fired. The IsNotFound, IsUnauthorized, IsForbidden, IsTimeout and
// IsNetworkError helpers inspect errors without unwrapping by hand.
//
// # Upserts
//
// SetSecret attempts an update first and creates the secret only when the
// update fails with a 404; any other failure stops the operation. Callers
// who know whether a key exists can use CreateSecret or UpdateSecret
// directly and save the fallback request.
//
// # Export cache
//
// When Config.CacheTTL is positive the client memoizes ExportSecrets
// results per (project, environment) pair. Mutations through the same
// client invalidate the affected pair immediately; mutations made elsewhere
// are invisible until the TTL lapses or the caller invalidates manually
// with InvalidateCache, InvalidateProjectCache or ClearCache. The cache is
// strictly per Client instance and never persisted.
package envault
