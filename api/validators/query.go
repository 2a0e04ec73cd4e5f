package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/repairshop-backend/pkg/errors"
)

// ParseQueryInt reads an integer query parameter bounded by [min, max]. A
// missing or blank parameter yields defaultVal.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := QueryString(r, key)
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < min || value > max {
		return 0, pkgerrors.Validation(key, fmt.Sprintf("must be an integer between %d and %d", min, max))
	}
	return value, nil
}

// QueryString returns the trimmed query parameter key.
func QueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
