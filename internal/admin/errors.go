package admin

import (
	"context"
	"errors"

	"github.com/Skotchmaster/meat_shop/pkg/apiclient"
)

var (
	ErrCategoryInUse = errors.New("category is used by products")
	ErrNotFound      = errors.New("not found")
	// ErrNotSynced is returned for edits of a record the server has not
	// confirmed yet.
	ErrNotSynced = errors.New("still saving, try again in a moment")
)

const (
	MsgNetwork  = "Network error, please try again"
	MsgRejected = "Request failed, changes were reverted"
)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// failureMessage is the toast text for a failed background write.
func failureMessage(err error) string {
	if errors.Is(err, apiclient.ErrTransport) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return MsgNetwork
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return MsgRejected
}
