package validators

import (
	"net/http"
	"strconv"

	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
)

const maxQueryLen = 200

// QueryString returns the trimmed query value, capped at maxQueryLen bytes.
func QueryString(r *http.Request, key string) string {
	return SanitizeString(r.URL.Query().Get(key), maxQueryLen)
}

func ParseQueryBool(r *http.Request, key string, defaultVal bool) (bool, error) {
	raw := QueryString(r, key)
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a boolean").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}
