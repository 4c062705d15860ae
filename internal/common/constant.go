package common

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "linkgate_session"

// UnlockCodeBytes is the amount of random bytes behind a generated unlock code.
const UnlockCodeBytes = 6
