package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hrygo/fechador/internal/profile"
	"github.com/hrygo/fechador/server"
	"github.com/hrygo/fechador/internal/observability"
	"github.com/hrygo/fechador/store"
	"github.com/hrygo/fechador/store/db"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type cli struct {
	v          *viper.Viper
	configFile string
	envFile    string
	debug      bool
}

func newRootCmd() *cobra.Command {
	c := &cli{v: profile.NewViper()}

	rootCmd := &cobra.Command{
		Use:           "fechador",
		Short:         "Resolve Spanish and Catalan temporal expressions into dates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.envFile != "" {
				return profile.LoadDotEnv(c.envFile)
			}
			return profile.LoadDotEnv()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (yaml, toml or json)")
	flags.StringVar(&c.envFile, "env-file", "", ".env file to load (default ./.env when present)")
	flags.BoolVar(&c.debug, "debug", false, "log at debug level")
	flags.String("mode", "dev", `mode of server, can be "prod" or "dev"`)
	flags.String("timezone", "Europe/Madrid", "default IANA zone for requests without zona_horaria")
	flags.String("journal", "", "sqlite DSN of the resolution journal; empty disables it")
	flags.String("llm-provider", "none", "model fallback provider: openai, deepseek, anthropic or none")
	mustBind(c.v, profile.KeyMode, flags.Lookup("mode"))
	mustBind(c.v, profile.KeyDefaultTimezone, flags.Lookup("timezone"))
	mustBind(c.v, profile.KeyJournalDSN, flags.Lookup("journal"))
	mustBind(c.v, profile.KeyLLMProvider, flags.Lookup("llm-provider"))

	rootCmd.AddCommand(
		newServeCmd(c),
		newResolveCmd(c),
		newJournalCmd(c),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			},
		},
	)
	return rootCmd
}

func mustBind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// loadProfile reads, validates and logs the profile, and installs the logger.
func (c *cli) loadProfile() (*profile.Profile, error) {
	p, err := profile.FromViper(c.v, c.configFile)
	if err != nil {
		return nil, err
	}
	p.Version = version
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid profile")
	}

	level := slog.LevelInfo
	if c.debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(observability.NewLogger(os.Stderr, p.IsDev(), level))
	return p, nil
}

// openJournal opens and migrates the journal. It returns nil when no DSN is set.
func openJournal(ctx context.Context, p *profile.Profile) (*store.Store, error) {
	if p.JournalDSN == "" {
		return nil, nil
	}
	driver, err := db.NewDBDriver(p)
	if err != nil {
		return nil, err
	}
	st := store.New(driver)
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, errors.Wrap(err, "failed to migrate journal")
	}
	return st, nil
}

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP resolver",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := c.loadProfile()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			st, err := openJournal(ctx, p)
			if err != nil {
				return err
			}
			s, err := server.NewServer(ctx, p, st)
			if err != nil {
				return errors.Wrap(err, "failed to create server")
			}
			if err := s.Start(ctx); err != nil {
				return errors.Wrap(err, "failed to start server")
			}
			printGreetings(cmd, p, s.Addr())

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh
			s.Shutdown(ctx)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.String("addr", "", "address of server")
	flags.Int("port", 8081, "port of server")
	flags.String("api-key", "", "require this X-API-Key on API requests")
	mustBind(c.v, profile.KeyAddr, flags.Lookup("addr"))
	mustBind(c.v, profile.KeyPort, flags.Lookup("port"))
	mustBind(c.v, profile.KeyAPIKey, flags.Lookup("api-key"))
	return cmd
}

func printGreetings(cmd *cobra.Command, p *profile.Profile, addr string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "fechador %s started successfully!\n", p.Version)
	fmt.Fprintf(out, "Mode: %s\n", p.Mode)
	fmt.Fprintf(out, "Listening on: http://%s\n", addr)
	fmt.Fprintf(out, "Default timezone: %s\n", p.DefaultTimezone)
	fmt.Fprintf(out, "Model fallback: %s\n", p.LLMProvider)
	if p.JournalDSN != "" {
		fmt.Fprintf(out, "Journal: %s\n", p.JournalDSN)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
