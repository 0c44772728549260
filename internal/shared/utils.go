package shared

import (
	"time"

	"github.com/gin-gonic/gin"
)

// ParseEnabledFilter parses the enabled query parameter and returns a pointer to bool or nil
func ParseEnabledFilter(c *gin.Context) *bool {
	enabledStr := c.Query("enabled")
	if enabledStr == "" {
		return nil
	}

	switch enabledStr {
	case "true":
		return &[]bool{true}[0]
	case "false":
		return &[]bool{false}[0]
	default:
		return nil
	}
}

// ParseDateParam parses a YYYY-MM-DD query parameter and returns nil when
// absent or unparseable
func ParseDateParam(c *gin.Context, name string) *time.Time {
	return ParseDate(c.Query(name))
}

// ParseDate parses a YYYY-MM-DD string and returns nil when absent or
// unparseable
func ParseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}

	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}
