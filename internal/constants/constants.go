package constants

const (
	JWKSIssuer = "jwks-issuer"

	QueryParamExpired = "expired"

	KeyTypeRSA      = "RSA"
	KeyUseSignature = "sig"

	DefaultSubject = "mock_user"
	SeedKeyID      = "expired_key"

	OpenIDSubjectType = "public"

	MessageMethodNotAllowed    = "Method Not Allowed"
	MessageNoExpiredKeys       = "No expired keys available"
	MessageInternalServerError = "Internal Server Error"
)
