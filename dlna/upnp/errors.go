package upnp

import (
	"errors"
	"fmt"

	"github.com/kevincox/rustymedia/dlna/soap"
	"github.com/kevincox/rustymedia/internal/rmerr"
)

// UPnP-defined error codes used by ContentDirectory and friends.
const (
	InvalidActionErrorCode     = 401
	InvalidArgsErrorCode       = 402
	ActionFailedErrorCode      = 501
	NoSuchObjectErrorCode      = 701
	InvalidCurrentTagErrorCode = 720
	InvalidSortCriteriaCode    = 709
)

// Error is a UPnP error: a numeric code and description, satisfying the
// error interface so it can flow through ordinary Go error handling
// until it reaches the SOAP response writer.
type Error struct {
	Code        int
	Description string
}

func (e *Error) Error() string {
	return fmt.Sprintf("upnp error %d: %s", e.Code, e.Description)
}

// Errorf builds an Error with a formatted description.
func Errorf(code int, format string, args ...any) error {
	return &Error{Code: code, Description: fmt.Sprintf(format, args...)}
}

// ConvertError maps an arbitrary error into a UPnP error code, falling
// back to ActionFailed for anything it doesn't recognize. Errors already
// carrying a UPnP code pass through unchanged.
func ConvertError(err error) soap.UPnPErrorDetail {
	var upnpErr *Error
	if errors.As(err, &upnpErr) {
		return soap.UPnPErrorDetail{ErrorCode: upnpErr.Code, ErrorDescription: upnpErr.Description}
	}
	switch {
	case errors.Is(err, rmerr.NotFound):
		return soap.UPnPErrorDetail{ErrorCode: NoSuchObjectErrorCode, ErrorDescription: err.Error()}
	case errors.Is(err, rmerr.Unimplemented):
		return soap.UPnPErrorDetail{ErrorCode: InvalidActionErrorCode, ErrorDescription: err.Error()}
	default:
		return soap.UPnPErrorDetail{ErrorCode: ActionFailedErrorCode, ErrorDescription: err.Error()}
	}
}
