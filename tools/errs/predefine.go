package errs

// Error codes. 1xxx are request-level, 12xx storage, 15xx credential.
const (
	ServerInternalError = 500
	ArgsError           = 1001
	NoPermissionError   = 1002
	RecordNotFoundError = 1004
	DatabaseError       = 1201
	TokenExpiredError   = 1501
	TokenInvalidError   = 1503
)

var (
	ErrInternalServer = NewCodeError(ServerInternalError, "ServerInternalError")
	ErrArgs           = NewCodeError(ArgsError, "ArgsError")

	// ErrNoPermission: authenticated caller that the gate refuses.
	ErrNoPermission = NewCodeError(NoPermissionError, "NoPermissionError")

	// ErrRecordNotFound: referenced message or identity absent.
	ErrRecordNotFound = NewCodeError(RecordNotFoundError, "RecordNotFoundError")

	// ErrDatabase: persistence backend failure, surfaced without retry.
	ErrDatabase = NewCodeError(DatabaseError, "DatabaseError")

	// Token errors both mean "unauthenticated"; the split keeps expiry
	// distinguishable for clients that can refresh.
	ErrTokenExpired = NewCodeError(TokenExpiredError, "TokenExpiredError")
	ErrTokenInvalid = NewCodeError(TokenInvalidError, "TokenInvalidError")
)
