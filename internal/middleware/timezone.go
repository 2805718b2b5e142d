package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	timezoneHeader = "X-Timezone"
	// ContextTimezoneKey is the gin context key storing the resolved location.
	ContextTimezoneKey = "timezone"
)

// Timezone resolves the caller's display timezone from the X-Timezone header.
// Internally every instant stays UTC; the location is only used when
// rendering responses. Unknown or missing names fall back to UTC.
func Timezone() gin.HandlerFunc {
	return func(c *gin.Context) {
		loc := time.UTC
		if name := c.GetHeader(timezoneHeader); name != "" {
			if parsed, err := time.LoadLocation(name); err == nil {
				loc = parsed
			}
		}
		c.Set(ContextTimezoneKey, loc)
		c.Next()
	}
}

// Location returns the timezone stored in the gin context, defaulting to UTC.
func Location(c *gin.Context) *time.Location {
	if v, exists := c.Get(ContextTimezoneKey); exists {
		if loc, ok := v.(*time.Location); ok && loc != nil {
			return loc
		}
	}
	return time.UTC
}
