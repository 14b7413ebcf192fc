// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// SessionKeyPrefix is the prefix for booking session snapshot keys.
const SessionKeyPrefix = "booking:session:"

// SessionTTL is how long an idle booking session survives in Redis.
// Every mutation refreshes the TTL.
const SessionTTL = 30 * time.Minute
