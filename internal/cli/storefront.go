package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/meat_shop/internal/cart"
	"github.com/Skotchmaster/meat_shop/internal/quantity"
	"github.com/Skotchmaster/meat_shop/internal/whatsapp"
)

func (a *app) productsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			ps, err := c.ListProducts(cmd.Context())
			if err != nil {
				return err
			}
			printProducts(a.out, ps)
			return nil
		},
	}
}

func (a *app) searchCmd() *cobra.Command {
	var page, size int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search products",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Search(cmd.Context(), strings.Join(args, " "), page, size)
			if err != nil {
				return err
			}
			printProducts(a.out, res.Data)
			fmt.Fprintf(a.out, "page %d of %d, %d result(s)\n", res.Meta.Page, res.Meta.TotalPages, res.Meta.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&size, "size", 20, "page size")
	return cmd
}

func (a *app) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the cart",
	}

	show := func(c *cart.Cart) error {
		printCart(a.out, c)
		return nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the cart",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				c, err := a.openCart()
				if err != nil {
					return err
				}
				return show(c)
			},
		},
		&cobra.Command{
			Use:   "add <product-id> [quantity]",
			Short: "Add a product, one step of its unit unless a quantity is given",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				api, err := a.client()
				if err != nil {
					return err
				}
				p, err := api.GetProduct(cmd.Context(), id)
				if err != nil {
					return err
				}

				sel := quantity.NewSelection()
				if len(args) == 2 {
					if _, ok := sel.Set(id, p.Unit, args[1]); !ok {
						return fmt.Errorf("invalid quantity %q", args[1])
					}
				}
				q := sel.Get(id, p.Unit)

				c, err := a.openCart()
				if err != nil {
					return err
				}
				if err := c.AddOrUpdate(cart.FromProduct(*p, q)); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Added %s %s %s\n", quantity.Format(p.Unit, q), quantity.DisplayUnit(p.Unit), p.Label)
				return show(c)
			},
		},
		a.cartEdit("set <product-id> <quantity>", "Set a quantity; zero or invalid input removes the line", 2,
			func(c *cart.Cart, id uint, args []string) error { return c.SetQuantity(id, args[1]) }),
		a.cartEdit("inc <product-id>", "Step a quantity up", 1,
			func(c *cart.Cart, id uint, _ []string) error { return c.Increment(id) }),
		a.cartEdit("dec <product-id>", "Step a quantity down; the line goes at zero", 1,
			func(c *cart.Cart, id uint, _ []string) error { return c.Decrement(id) }),
		a.cartEdit("remove <product-id>", "Remove a line", 1,
			func(c *cart.Cart, id uint, _ []string) error { return c.Remove(id) }),
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				c, err := a.openCart()
				if err != nil {
					return err
				}
				if err := c.ClearAll(); err != nil {
					return err
				}
				return show(c)
			},
		},
		a.checkoutCmd(),
	)
	return cmd
}

func (a *app) cartEdit(use, short string, nargs int, fn func(c *cart.Cart, id uint, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.openCart()
			if err != nil {
				return err
			}
			if err := fn(c, id, args); err != nil {
				return err
			}
			printCart(a.out, c)
			return nil
		},
	}
}

func (a *app) checkoutCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Print the WhatsApp order link and empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			c, err := a.openCart()
			if err != nil {
				return err
			}
			n := c.Len()
			link, err := whatsapp.Checkout(a.cfg.WhatsApp, whatsapp.Order{
				Shop:     a.cfg.ShopName,
				Customer: name,
				Items:    c.Items(),
				At:       time.Now(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, link)
			if err := c.ClearAll(); err != nil {
				return fmt.Errorf("order link created but the cart was not cleared: %w", err)
			}
			a.log.Info("checkout_done", "items", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "your name")
	return cmd
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}
