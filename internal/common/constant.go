package common

// SessionCookieName is the cookie that mirrors the issued session handle on
// signup and signin. Protected routes read the Authorization header; only
// the index greeting falls back to the cookie.
const SessionCookieName = "jti"

// TokenTypeAccess and TokenTypeRefresh are the token record kinds stored in
// the durable token store.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)
