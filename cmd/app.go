// Package cmd implements the tnd subcommands.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tienda"
	"github.com/etnz/tienda/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&insumoAddCmd{}, "insumos")
	c.Register(&insumoEditCmd{}, "insumos")
	c.Register(&insumoRmCmd{}, "insumos")
	c.Register(&insumosCmd{}, "insumos")

	c.Register(&productoCmd{}, "productos")
	c.Register(&productoRmCmd{}, "productos")
	c.Register(&productosCmd{}, "productos")

	c.Register(&venderCmd{}, "ventas")
	c.Register(&ventaEditCmd{}, "ventas")
	c.Register(&ventaRmCmd{}, "ventas")
	c.Register(&detalleCmd{}, "ventas")

	c.Register(&mesCmd{}, "reportes")
	c.Register(&exportarCmd{}, "reportes")
	c.Register(&hojaCmd{}, "reportes")
	c.Register(&queryCmd{}, "reportes")

	c.Register(&serveCmd{}, "")
	c.Register(&topicCmd{}, "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var storeFlag = flag.String("store", "", "Location of the data: a directory, sqlite://<file>, redis://<host> or mem://")
var currencyFlag = flag.String("currency", "", "Currency of the amounts (defaults to USD)")
var verboseFlag = flag.Bool("v", false, "Log debug messages")
var plainFlag = flag.Bool("plain", false, "Print raw markdown instead of rendering it")

// outputs, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Config is the resolved configuration of the application.
type Config struct {
	Store    string `mapstructure:"store"`
	Currency string `mapstructure:"currency"`
	LogLevel string `mapstructure:"log_level"`
	Addr     string `mapstructure:"addr"`
}

// LoadConfig resolves the configuration from, by increasing priority, the
// defaults, the optional tienda.yaml file, the TIENDA_* environment variables
// and the global flags.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("store", "tienda-data")
	v.SetDefault("currency", "USD")
	v.SetDefault("log_level", "info")
	v.SetDefault("addr", ":8080")

	v.SetEnvPrefix("TIENDA")
	v.AutomaticEnv()

	v.SetConfigName("tienda")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("could not read configuration: %w", err)
		}
	}

	if *storeFlag != "" {
		v.Set("store", *storeFlag)
	}
	if *currencyFlag != "" {
		v.Set("currency", *currencyFlag)
	}
	if *verboseFlag {
		v.Set("log_level", "debug")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.Currency = strings.ToUpper(strings.TrimSpace(cfg.Currency))
	return cfg, nil
}

// SetupLogging sends the global logger to stderr in a human readable form.
func SetupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	return nil
}

// configOf returns the Config passed to Execute by the main package.
func configOf(args []interface{}) Config {
	for _, a := range args {
		if cfg, ok := a.(Config); ok {
			return cfg
		}
	}
	return Config{Store: "tienda-data", Currency: "USD", LogLevel: "info", Addr: ":8080"}
}

// session is an opened store and the shop loaded from it.
type session struct {
	store store.Store
	shop  *tienda.Shop
}

func openSession(ctx context.Context, cfg Config) (*session, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("could not open store: %w", err)
	}
	shop, err := tienda.LoadShop(ctx, st, cfg.Currency)
	if err != nil {
		st.Close()
		return nil, err
	}
	return &session{store: st, shop: shop}, nil
}

// save writes the given collections back.
func (s *session) save(ctx context.Context, keys ...string) error {
	return s.shop.Save(ctx, s.store, keys...)
}

func (s *session) Close() error { return s.store.Close() }

// fail reports err and returns the matching exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if tienda.IsValidation(err) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// setFlags returns the names of the flags given on the command line.
func setFlags(f *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return set
}

// printMarkdown renders md for the terminal.
func printMarkdown(md string) {
	if *plainFlag {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		log.Warn().Err(err).Msg("could not render markdown")
		out = md
	}
	fmt.Fprint(stdout, out)
}
