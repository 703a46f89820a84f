// Package cli implements shopctl, the terminal storefront and admin
// dashboard.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Skotchmaster/meat_shop/internal/cart"
	"github.com/Skotchmaster/meat_shop/internal/logging"
	"github.com/Skotchmaster/meat_shop/pkg/apiclient"
)

type Config struct {
	APIURL        string
	CartDir       string
	ShopName      string
	WhatsApp      string
	AdminUser     string
	AdminPassword string
	Timeout       time.Duration
	LogLevel      string
}

type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
	log    *slog.Logger
	cfg    Config
}

// flag name, env var, default, usage
var settings = [][4]string{
	{"api-url", "SHOP_API_URL", "http://localhost:8080", "shop API base URL"},
	{"cart-dir", "SHOP_CART_DIR", ".shopctl", "directory the cart is kept in"},
	{"shop-name", "SHOP_NAME", "VK Proteins", "shop name used in orders"},
	{"whatsapp", "WHATSAPP_NUMBER", "", "WhatsApp number orders are sent to"},
	{"admin-user", "SHOP_ADMIN_USER", "", "admin username"},
	{"admin-password", "SHOP_ADMIN_PASSWORD", "", "admin password"},
	{"timeout", "SHOP_REQUEST_TIMEOUT", "10s", "request timeout"},
	{"log-level", "SHOP_LOG_LEVEL", "warn", "log level written to stderr"},
}

func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "shopctl",
		Short:         "Browse the shop, manage the cart and run the admin dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	for _, s := range settings {
		root.PersistentFlags().String(s[0], s[2], s[3])
		_ = a.v.BindPFlag(s[0], root.PersistentFlags().Lookup(s[0]))
		_ = a.v.BindEnv(s[0], s[1])
	}

	root.AddCommand(
		a.productsCmd(),
		a.searchCmd(),
		a.cartCmd(),
		a.adminCmd(),
		a.whoamiCmd(),
	)
	return root
}

func (a *app) load() error {
	timeout, err := time.ParseDuration(a.v.GetString("timeout"))
	if err != nil || timeout <= 0 {
		return fmt.Errorf("invalid timeout %q", a.v.GetString("timeout"))
	}
	a.cfg = Config{
		APIURL:        a.v.GetString("api-url"),
		CartDir:       a.v.GetString("cart-dir"),
		ShopName:      a.v.GetString("shop-name"),
		WhatsApp:      a.v.GetString("whatsapp"),
		AdminUser:     a.v.GetString("admin-user"),
		AdminPassword: a.v.GetString("admin-password"),
		Timeout:       timeout,
		LogLevel:      a.v.GetString("log-level"),
	}
	a.log = logging.New(a.cfg.LogLevel, a.errOut).With("service", "shopctl")
	return nil
}

func (a *app) client() (*apiclient.Client, error) {
	return apiclient.NewClient(a.cfg.APIURL, a.cfg.Timeout)
}

// openCart loads the saved cart. An unreadable one has already been reset by
// cart.Open; the user is told so once.
func (a *app) openCart() (*cart.Cart, error) {
	c, err := cart.Open(&cart.FileStorage{Dir: a.cfg.CartDir})
	if err != nil {
		return nil, err
	}
	if rErr := c.Recovered(); rErr != nil {
		a.log.Warn("cart_reset", "error", rErr, "kept_as", cart.BadKey)
		fmt.Fprintln(a.errOut, "Your saved cart could not be read and was emptied.")
	}
	return c, nil
}
