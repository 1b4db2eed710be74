// Package huberr converts Xena hub client failures into API errors.
package huberr

import (
	"errors"

	"github.com/deppfellow/xenaviz/internal/errs"
	"github.com/deppfellow/xenaviz/internal/xena"
)

// Error codes returned to clients for hub failures.
const (
	CodeHubUnavailable     = "HUB_UNAVAILABLE"
	CodeHubResponseInvalid = "HUB_RESPONSE_INVALID"
)

// HandleError converts a low-level hub error into an application error.
//
//   - *errs.HTTPError: returned unchanged
//   - *xena.FetchError: 502 HUB_UNAVAILABLE
//   - *xena.DecodeError: 502 HUB_RESPONSE_INVALID
//   - anything else: 500
//
// Hub details stay out of the client message; callers log the original error.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var decodeErr *xena.DecodeError
	if errors.As(err, &decodeErr) {
		return errs.NewBadGatewayError(CodeHubResponseInvalid, "The data hub returned an empty or unexpected response")
	}

	var fetchErr *xena.FetchError
	if errors.As(err, &fetchErr) {
		return errs.NewBadGatewayError(CodeHubUnavailable, "The data hub could not be reached")
	}

	return errs.NewInternalServerError()
}
