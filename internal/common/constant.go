package common

// AccessTokenHeaderName is the HTTP header used to carry the access token
// on authenticated requests.
const AccessTokenHeaderName = "access_token"

// MaskToken replaces every blacklisted word in moderated output.
const MaskToken = "***"
