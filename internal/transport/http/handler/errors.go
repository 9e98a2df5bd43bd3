package handler

// Client-facing messages stay coarse on purpose: the response never reveals
// whether a token was malformed, expired or of the wrong kind.
const (
	errInternalServer   = "Internal server error"
	errLinkInvalid      = "Link is invalid or expired"
	errNotAuthenticated = "Not authenticated"
	errDomainNotAllowed = "Email domain is not allowed"
	errDeliveryFailed   = "Could not send the sign-in email"
)
