// Package whatsapp renders a cart as a plain-text order and wraps it in a
// click-to-chat link.
package whatsapp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/Skotchmaster/meat_shop/internal/cart"
	"github.com/Skotchmaster/meat_shop/internal/quantity"
)

const (
	DefaultCurrency = "₹"
	baseURL         = "https://wa.me/"
	separator       = "--------------------------"
)

var (
	ErrNameRequired  = errors.New("customer name is required")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrPhoneRequired = errors.New("whatsapp number is not configured")
)

type Order struct {
	Shop     string
	Customer string
	Currency string
	Items    []cart.Item
	At       time.Time
}

// Message renders the order text.
func Message(o Order) (string, error) {
	name := strings.TrimSpace(o.Customer)
	if name == "" {
		return "", ErrNameRequired
	}
	if len(o.Items) == 0 {
		return "", ErrEmptyCart
	}
	cur := o.Currency
	if cur == "" {
		cur = DefaultCurrency
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Order\n\n", strings.TrimSpace(o.Shop))
	fmt.Fprintf(&b, "Name: %s\n", name)
	if !o.At.IsZero() {
		fmt.Fprintf(&b, "Date: %s\n", o.At.Format("02 Jan 2006 15:04"))
	}
	b.WriteString(separator + "\n")

	for i, it := range o.Items {
		qty := quantity.Format(it.Unit, it.Quantity)
		fmt.Fprintf(&b, "%d) %s - %s %s\n", i+1, it.Label, qty, quantity.DisplayUnit(it.Unit))
		fmt.Fprintf(&b, "Price: %s%s × %s = %s%s\n\n",
			cur, it.Price.StringFixed(2), qty, cur, it.Total.StringFixed(2))
	}

	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "Grand Total: %s%s\n", cur, cart.GrandTotal(o.Items).StringFixed(2))
	b.WriteString(separator + "\n")
	b.WriteString("Thank you! Please confirm delivery time.\n")
	return b.String(), nil
}

// Link builds the wa.me URL for phone. Everything but digits is dropped from
// the phone number and spaces in the text are encoded as %20.
func Link(phone, text string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return "", ErrPhoneRequired
	}
	enc := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return baseURL + digits + "?text=" + enc, nil
}

// Checkout renders the order and returns its link.
func Checkout(phone string, o Order) (string, error) {
	msg, err := Message(o)
	if err != nil {
		return "", err
	}
	return Link(phone, msg)
}
