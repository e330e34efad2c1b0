// Package google manages the OAuth2 credential duesync uses for the Google
// Classroom API.
//
// The Manager loads the credential cached on disk, refreshes it when it has
// expired, and falls back to an interactive login when neither is possible.
// Every new or refreshed credential is written back to the cache file, so the
// next run starts from it.
//
// The cache uses Google's "authorized user" JSON layout (token, refresh_token,
// token_uri, client_id, client_secret, scopes, expiry). Because the client id
// and secret travel with the token, a refresh does not need the client-secret
// file; that file is only read when a fresh login is required.
//
// The interactive login is pluggable through the Authenticator interface. The
// default LocalServerAuthenticator listens on a loopback port, prints the
// consent URL, and exchanges the returned authorization code.
package google
