package book

import (
	"context"
	"errors"
	"fmt"
)

type ErrResponse struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_message"`
}

func (e ErrResponse) Error() string {
	return e.Message
}

// Is matches by code, so a response carrying extra detail in its message
// still matches the sentinel it was built from.
func (e ErrResponse) Is(target error) bool {
	t, ok := target.(ErrResponse)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var ErrResponseBookEntryBlankFields = ErrResponse{100, "all the fields - title, author and price - must be filled correctly."}
var ErrResponseBookNotFound = ErrResponse{101, "book not found"}
var ErrResponseEntryInvalidJSON = ErrResponse{102, "invalid json request."}
var ErrResponseIdInvalidFormat = ErrResponse{103, "the endpoint is not a valid format ID. Must be /books/{id}"}
var ErrResponsePriceOutOfRange = ErrResponse{104, "the price must be lower than 100000000 in absolute value, with at most 20 decimal places."}
var ErrResponseInternal = ErrResponse{107, "unexpected internal error."}
var ErrResponseFromRepository = ErrResponse{108, "error from repository:"}
var ErrResponseRequestTimeout = ErrResponse{109, "error from context:"}

/* Packs an error coming from the repository into an ErrResponse, keeping NotFound and PriceOutOfRange as they are. */
func repositoryError(err error) error {
	if errors.Is(err, ErrResponseBookNotFound) {
		return ErrResponseBookNotFound
	}
	if errors.Is(err, ErrResponsePriceOutOfRange) {
		return ErrResponsePriceOutOfRange
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrResponse{
			Code:    ErrResponseRequestTimeout.Code,
			Message: ErrResponseRequestTimeout.Message + contextCause(err).Error(),
		}
	}
	return ErrResponse{
		Code:    ErrResponseFromRepository.Code,
		Message: ErrResponseFromRepository.Message + err.Error(),
	}
}

func contextCause(err error) error {
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	return context.DeadlineExceeded
}

type ErrNotificationFailed struct {
	statusCode int
}

func (e ErrNotificationFailed) Error() string {
	return fmt.Sprintf("ntfy wrong response - want: 200 OK, got: %d", e.statusCode)
}

func NewErrNotificationFailed(statusCode int) ErrNotificationFailed {
	return ErrNotificationFailed{statusCode: statusCode}
}
