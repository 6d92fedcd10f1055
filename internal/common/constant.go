package common

// AccessTokenHeaderName is the HTTP header / gRPC metadata key carrying the
// transport-level access token. It is also the name of the credential cookie.
const AccessTokenHeaderName = "access_token"

// AuthStateCookieName is the client-visible cookie flagging an authenticated
// browser session. It carries no credential.
const AuthStateCookieName = "is_authenticated"

// AuthorizationHeaderName is the standard bearer header, consulted last.
const AuthorizationHeaderName = "authorization"

// BearerPrefix prefixes the token inside the credential cookie.
const BearerPrefix = "Bearer "

// DefaultProfileID is used when a chat turn arrives without a profile.
const DefaultProfileID = "default"
