package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/buildinfo"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/logging"
	"github.com/cleared-dev/tally/internal/render"
	"github.com/cleared-dev/tally/internal/session"
)

// globals holds state shared by all subcommands after flag parsing.
type globals struct {
	configPath string
	logLevel   string

	cfg *config.Config
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Personal ledger for the terminal",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default tally.yaml, env "+config.EnvConfig+")")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (overrides config)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newShellCommand(g))
	rootCmd.AddCommand(newRunCommand(g))

	return rootCmd
}

// load reads .env, the config file and environment overrides, then builds the logger.
func (g *globals) load(cmd *cobra.Command) error {
	// A missing .env is normal.
	_ = godotenv.Load()

	path := g.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	explicit := path != ""
	if !explicit {
		path = config.FileName
	}

	var (
		cfg *config.Config
		err error
	)
	if explicit {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return fmt.Errorf("applying environment: %w", err)
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	log := logging.NewConsole(cmd.ErrOrStderr(), level)
	log.Debug().Str("config", path).Msg("configuration loaded")

	g.cfg = cfg
	cmd.SetContext(logging.WithContext(cmd.Context(), log))
	return nil
}

// newSession builds a fresh ledger and session writing to the command's
// stdout, logging through the logger stored on the command context.
func (g *globals) newSession(cmd *cobra.Command) *session.Session {
	log := logging.FromContext(cmd.Context())
	l := ledger.New(ledger.WithLogger(log))
	return session.New(l, render.New(g.cfg.Display), cmd.OutOrStdout(), log)
}
