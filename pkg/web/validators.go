package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// ParseOptionalFloat parses an optional float query parameter. A missing
// parameter is not an error and yields a nil pointer. Returns the parsed
// value and a boolean indicating whether the request may proceed.
func ParseOptionalFloat(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string) (*float64, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, true
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, value))
		return nil, false
	}
	return &floatValue, true
}
