package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/meat_shop/internal/admin"
	"github.com/Skotchmaster/meat_shop/pkg/apiclient"
)

var errNoAdmin = errors.New("admin credentials are not configured (--admin-user, --admin-password)")

func (a *app) adminSession(ctx context.Context) (*apiclient.Client, error) {
	if a.cfg.AdminUser == "" || a.cfg.AdminPassword == "" {
		return nil, errNoAdmin
	}
	api, err := a.client()
	if err != nil {
		return nil, err
	}
	role, err := api.Login(ctx, a.cfg.AdminUser, a.cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if role != "admin" {
		return nil, fmt.Errorf("user %q is not an admin", a.cfg.AdminUser)
	}
	return api, nil
}

// dashboard logs in and loads the catalog into an admin controller. Toasts
// are printed as they arrive.
func (a *app) dashboard(ctx context.Context) (*admin.Controller, error) {
	api, err := a.adminSession(ctx)
	if err != nil {
		return nil, err
	}

	ctl := admin.New(api, admin.Options{
		Timeout: a.cfg.Timeout,
		Logger:  a.log,
		Notifier: admin.NotifierFunc(func(level admin.Level, msg string) {
			if level == admin.Error {
				fmt.Fprintln(a.out, "error:", msg)
				return
			}
			fmt.Fprintln(a.out, msg)
		}),
	})
	if err := ctl.Load(ctx); err != nil {
		return nil, err
	}
	return ctl, nil
}

func (a *app) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin dashboard",
	}
	cmd.AddCommand(
		a.adminListCmd(),
		a.adminProductAddCmd(),
		a.adminProductUpdateCmd(),
		a.adminProductDeleteCmd(),
		a.adminCategoryAddCmd(),
		a.adminCategoryDeleteCmd(),
		a.adminSeedCmd(),
	)
	return cmd
}

func (a *app) adminListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show categories and products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctl, err := a.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			printCategories(a.out, ctl.Categories())
			fmt.Fprintln(a.out)
			printProducts(a.out, ctl.Products())
			return nil
		},
	}
}

func productFlags(cmd *cobra.Command, in *admin.ProductInput) {
	cmd.Flags().StringVar(&in.Label, "label", "", "product name")
	cmd.Flags().StringVar(&in.Price, "price", "", "price per unit")
	cmd.Flags().UintVar(&in.CategoryID, "category", 0, "category id")
}

// settle waits for the background write and shows the resulting list.
func (a *app) settle(ctl *admin.Controller) {
	ctl.Wait()
	printProducts(a.out, ctl.Products())
}

func (a *app) adminProductAddCmd() *cobra.Command {
	var in admin.ProductInput
	cmd := &cobra.Command{
		Use:   "product-add",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctl, err := a.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := ctl.CreateProduct(in); err != nil {
				return err
			}
			a.settle(ctl)
			return nil
		},
	}
	productFlags(cmd, &in)
	return cmd
}

func (a *app) adminProductUpdateCmd() *cobra.Command {
	var (
		in       admin.ProductInput
		inactive bool
		active   bool
	)
	cmd := &cobra.Command{
		Use:   "product-update <product-id>",
		Short: "Edit a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctl, err := a.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range ctl.Products() {
				if p.ID != id {
					continue
				}
				if in.Label == "" {
					in.Label = p.Label
				}
				if in.Price == "" {
					in.Price = p.PricePerUnit.String()
				}
				if in.CategoryID == 0 {
					in.CategoryID = p.CategoryID
				}
			}
			switch {
			case active && inactive:
				return errors.New("--active and --inactive are exclusive")
			case active:
				in.IsActive = &active
			case inactive:
				v := false
				in.IsActive = &v
			}
			if _, err := ctl.UpdateProduct(id, in); err != nil {
				return err
			}
			a.settle(ctl)
			return nil
		},
	}
	productFlags(cmd, &in)
	cmd.Flags().BoolVar(&active, "active", false, "restore the product")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "hide the product")
	return cmd
}

func (a *app) adminProductDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product-delete <product-id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctl, err := a.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if err := ctl.DeleteProduct(id); err != nil {
				return err
			}
			a.settle(ctl)
			return nil
		},
	}
}

func (a *app) adminCategoryAddCmd() *cobra.Command {
	var in admin.CategoryInput
	cmd := &cobra.Command{
		Use:   "category-add",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctl, err := a.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := ctl.CreateCategory(in); err != nil {
				return err
			}
			ctl.Wait()
			printCategories(a.out, ctl.Categories())
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Label, "label", "", "category name")
	cmd.Flags().StringVar(&in.Unit, "unit", "kg", "sale unit (kg, piece, dozen, liter, pack)")
	return cmd
}

func (a *app) adminCategoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "category-delete <category-id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctl, err := a.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if err := ctl.DeleteCategory(id); err != nil {
				return err
			}
			ctl.Wait()
			printCategories(a.out, ctl.Categories())
			return nil
		},
	}
}

func (a *app) adminSeedCmd() *cobra.Command {
	var secret string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed default categories and configured admins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := a.client()
			if err != nil {
				return err
			}
			res, err := api.Seed(cmd.Context(), secret)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "categories: %d, created: %v, existing: %v\n", res.Categories, res.Created, res.Existing)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "seed secret")
	_ = cmd.MarkFlagRequired("secret")
	return cmd
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Log in with the admin credentials and show the session user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := a.adminSession(cmd.Context())
			if err != nil {
				return err
			}
			me, err := api.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s (%s)\n", me.Username, me.Role)
			return nil
		},
	}
}
