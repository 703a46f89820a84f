package cli

import (
	"errors"

	"github.com/Skotchmaster/meat_shop/internal/admin"
	"github.com/Skotchmaster/meat_shop/internal/cart"
	"github.com/Skotchmaster/meat_shop/internal/whatsapp"
	"github.com/Skotchmaster/meat_shop/pkg/apiclient"
)

var userMessages = []struct {
	err error
	msg string
}{
	{whatsapp.ErrNameRequired, "Please enter your name"},
	{whatsapp.ErrEmptyCart, "Cart is empty"},
	{whatsapp.ErrPhoneRequired, "WhatsApp number is not configured"},
	{admin.ErrCategoryInUse, "Category is used by products"},
	{admin.ErrNotSynced, "Still saving, try again in a moment"},
	{cart.ErrNonPositiveQuantity, "Quantity must be greater than zero"},
	{cart.ErrOutOfRange, "Quantity or price is too large"},
	{cart.ErrNotInCart, "Product is not in the cart"},
}

// Message turns a command error into the line shown to the user.
func Message(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	var vErr *admin.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, apiclient.ErrTransport) {
		return admin.MsgNetwork
	}
	return err.Error()
}
