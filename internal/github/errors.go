package github

import (
	"errors"
	"net/http"

	"github.com/google/go-github/v57/github"
)

// IsNotFound reports whether an API error means the resource no longer
// exists. Not-found responses are treated as absent data, never as failures.
func IsNotFound(err error) bool {
	var apiErr *github.ErrorResponse
	return errors.As(err, &apiErr) && apiErr.Response != nil && apiErr.Response.StatusCode == http.StatusNotFound
}

// wrapAPIError converts a go-github error response into an HTTPError so the
// status code survives error wrapping. Other errors pass through unchanged.
func wrapAPIError(err error) error {
	var apiErr *github.ErrorResponse
	if errors.As(err, &apiErr) && apiErr.Response != nil {
		reqURL := ""
		if apiErr.Response.Request != nil && apiErr.Response.Request.URL != nil {
			reqURL = apiErr.Response.Request.URL.String()
		}
		return &HTTPError{StatusCode: apiErr.Response.StatusCode, URL: reqURL}
	}
	return err
}
