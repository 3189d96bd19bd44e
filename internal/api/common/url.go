package common

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

// GetAndValidateURLParam extracts and decodes a path parameter such as a
// username or metric name. The decoded value must be non-empty and must not
// contain whitespace.
func GetAndValidateURLParam(r *http.Request, paramName string) (string, error) {
	decoded, err := url.PathUnescape(chi.URLParam(r, paramName))
	if err != nil {
		return "", fmt.Errorf("invalid URL encoding in %s", paramName)
	}

	if strings.TrimSpace(decoded) == "" {
		return "", fmt.Errorf("%s cannot be empty", paramName)
	}
	if strings.ContainsAny(decoded, " \t\n\r") {
		return "", fmt.Errorf("%s cannot contain whitespace", paramName)
	}

	return decoded, nil
}
