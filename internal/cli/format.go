package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Skotchmaster/meat_shop/internal/cart"
	"github.com/Skotchmaster/meat_shop/internal/models"
	"github.com/Skotchmaster/meat_shop/internal/quantity"
)

func printProducts(w io.Writer, ps []models.Product) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tCATEGORY\tPRICE")
	for _, p := range ps {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s / %s\n",
			p.ID, p.Label, p.Category.Label, p.PricePerUnit.StringFixed(2), quantity.DisplayUnit(p.Unit))
	}
	_ = tw.Flush()
}

func printCategories(w io.Writer, cs []models.Category) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tVALUE\tUNIT")
	for _, c := range cs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Label, c.Value, c.Unit)
	}
	_ = tw.Flush()
}

func printCart(w io.Writer, c *cart.Cart) {
	if c.Len() == 0 {
		fmt.Fprintln(w, "Cart is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tQTY\tPRICE\tTOTAL")
	for _, it := range c.Items() {
		fmt.Fprintf(tw, "%d\t%s\t%s %s\t%s\t%s\n",
			it.ID, it.Label, quantity.Format(it.Unit, it.Quantity), quantity.DisplayUnit(it.Unit),
			it.Price.StringFixed(2), it.Total.StringFixed(2))
	}
	fmt.Fprintf(tw, "\t\t\tGrand Total\t%s\n", c.GrandTotal().StringFixed(2))
	_ = tw.Flush()
}
