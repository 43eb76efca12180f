package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Roles a principal can hold.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)
