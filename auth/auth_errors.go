package auth

// Messages returned to API callers
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgMissingToken       = "Unauthorized: Missing token"
	MsgInvalidToken       = "Unauthorized: Invalid or expired token"
	MsgForbidden          = "Forbidden"
	MsgUserNotFound       = "User not found"
	MsgWrongOldPassword   = "Old password is incorrect"
)
