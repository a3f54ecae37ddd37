// File: utils/constants.go
package utils

// CalendarLockPrefix is the prefix used for Redis calendar lock keys.
const CalendarLockPrefix = "calendar:"

// LoggerContextKey is where request-scoped loggers live in the gin context.
const LoggerContextKey = "logger"
