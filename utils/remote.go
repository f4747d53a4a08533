package utils

import (
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of a failed response body is kept as the error message
const maxErrorBody = 4 << 10

// ReadErrorMessage returns the trimmed text body of a failed response,
// or fallback when the body is empty or unreadable.
func ReadErrorMessage(resp *http.Response, fallback string) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fallback
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fallback
	}
	return msg
}
