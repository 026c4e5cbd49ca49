package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/coursenote/chatseg/config"
	"github.com/coursenote/chatseg/credentials"
)

// InitCommandDeps holds the dependencies for the init command.
type InitCommandDeps struct {
	LoadConfig   func() (*config.CLIConfig, error)
	SaveConfig   func(*config.CLIConfig) error
	Credentials  credentials.Store
	ReadPassword func(fd int) ([]byte, error)
	Stdin        io.Reader
}

// DefaultInitDeps returns the default dependencies for production use.
func DefaultInitDeps() *InitCommandDeps {
	return &InitCommandDeps{
		LoadConfig:   config.LoadConfig,
		SaveConfig:   config.SaveConfig,
		Credentials:  credentials.NewKeyringStore(),
		ReadPassword: term.ReadPassword,
		Stdin:        os.Stdin,
	}
}

// Init command flags.
var (
	initWithDB         bool
	initWithCache      bool
	initNonInteractive bool
)

// NewInitCommand creates the init command.
func NewInitCommand(deps *InitCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultInitDeps()
	}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize chatseg configuration",
		Long: `Initialize chatseg for first-time use.

This command will:
1. Prompt for the default output format
2. Optionally prompt for PostgreSQL settings (--with-db)
3. Optionally prompt for Redis cache settings (--with-cache)
4. Create ~/.chatseg/config.yaml

The database password is stored in the system keyring, never in the
config file. When no keyring is available, it is stored in an encrypted
file under the config directory, protected by a passphrase.

Examples:
  chatseg init
  chatseg init --with-db
  chatseg init --with-db --with-cache`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, deps)
		},
	}

	cmd.Flags().BoolVar(&initWithDB, "with-db", false, "Configure PostgreSQL storage for ingest")
	cmd.Flags().BoolVar(&initWithCache, "with-cache", false, "Configure the Redis segmentation cache")
	cmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "Skip prompts, keep existing or default values")

	return cmd
}

// runInit executes the init command.
func runInit(cmd *cobra.Command, deps *InitCommandDeps) error {
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(deps.Stdin)

	fmt.Fprintln(out, "chatseg initialization")
	fmt.Fprintln(out, "======================")
	fmt.Fprintln(out)

	// Preserve existing settings where present.
	cfg, err := deps.LoadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	// Step 1: output format.
	if !initNonInteractive {
		format := promptWithDefault(reader, out, "Default output format (text, json, yaml)", cfg.OutputFormat.String())
		cfg.OutputFormat = config.OutputFormat(format)
		if !cfg.OutputFormat.IsValid() {
			return fmt.Errorf("invalid output format: %s", format)
		}
	}

	// Step 2: storage.
	if initWithDB {
		if err := initStorage(reader, out, deps, cfg); err != nil {
			return err
		}
	}

	// Step 3: cache.
	if initWithCache {
		if err := initCache(reader, out, cfg); err != nil {
			return err
		}
	}

	// Step 4: save.
	if err := deps.SaveConfig(cfg); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}

	configPath, _ := config.ConfigPath()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Initialization complete!")
	fmt.Fprintf(out, "  Config file:   %s\n", configPath)
	fmt.Fprintf(out, "  Output format: %s\n", cfg.OutputFormat)
	if cfg.Storage.IsConfigured() {
		fmt.Fprintf(out, "  Storage:       %s:%d/%s\n", cfg.Storage.Host, cfg.Storage.Port, cfg.Storage.Database)
	}
	if cfg.Cache.IsConfigured() {
		fmt.Fprintf(out, "  Cache:         %s\n", cfg.Cache.Addr)
	}

	return nil
}

// initStorage prompts for PostgreSQL settings and stores the password.
func initStorage(reader *bufio.Reader, out io.Writer, deps *InitCommandDeps, cfg *config.CLIConfig) error {
	if cfg.Storage == nil {
		cfg.Storage = &config.StorageConfig{}
	}
	s := cfg.Storage

	fmt.Fprintln(out)
	fmt.Fprintln(out, "PostgreSQL storage")
	fmt.Fprintln(out, "------------------")

	s.Host = promptWithDefault(reader, out, "Host", defaultString(s.Host, "localhost"))
	portStr := promptWithDefault(reader, out, "Port", defaultString(strconv.Itoa(s.Port), "5432"))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port: %s", portStr)
	}
	s.Port = port
	s.Database = promptWithDefault(reader, out, "Database", defaultString(s.Database, "chatseg"))
	s.User = promptWithDefault(reader, out, "User", defaultString(s.User, "chatseg"))
	s.SSLMode = promptWithDefault(reader, out, "SSL mode", defaultString(s.SSLMode, "prefer"))

	fmt.Fprint(out, "Password (stored in "+deps.Credentials.Description()+"): ")
	password, err := deps.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	if len(password) == 0 {
		fmt.Fprintln(out, "  \033[33mWarning:\033[0m empty password, nothing stored")
		return nil
	}

	if err := deps.Credentials.Set(string(password)); err != nil {
		if !errors.Is(err, credentials.ErrKeyringUnavailable) {
			return fmt.Errorf("storing password: %w", err)
		}
		return initFileStoreFallback(reader, out, deps, string(password))
	}

	fmt.Fprintf(out, "  \033[32m✓\033[0m Password stored in %s\n", deps.Credentials.Description())
	return nil
}

// initFileStoreFallback stores the password in an encrypted file when no
// system keyring is available.
func initFileStoreFallback(reader *bufio.Reader, out io.Writer, deps *InitCommandDeps, password string) error {
	fmt.Fprintln(out, "  \033[33mWarning:\033[0m system keyring unavailable, falling back to encrypted file")

	fmt.Fprint(out, "Passphrase for the credential file: ")
	passphrase, err := deps.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("reading passphrase: %w", err)
	}
	if len(passphrase) == 0 {
		return fmt.Errorf("passphrase must not be empty")
	}

	dir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("resolving config directory: %w", err)
	}

	fileStore := credentials.NewFileStore(dir, passphrase)
	if err := fileStore.Set(password); err != nil {
		return fmt.Errorf("storing password: %w", err)
	}

	fmt.Fprintf(out, "  \033[32m✓\033[0m Password stored in %s\n", fileStore.Description())
	return nil
}

// initCache prompts for Redis cache settings.
func initCache(reader *bufio.Reader, out io.Writer, cfg *config.CLIConfig) error {
	if cfg.Cache == nil {
		cfg.Cache = &config.CacheConfig{}
	}
	c := cfg.Cache

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Redis cache")
	fmt.Fprintln(out, "-----------")

	c.Addr = promptWithDefault(reader, out, "Address", defaultString(c.Addr, "localhost:6379"))
	dbStr := promptWithDefault(reader, out, "Database number", strconv.Itoa(c.DB))
	db, err := strconv.Atoi(dbStr)
	if err != nil {
		return fmt.Errorf("invalid database number: %s", dbStr)
	}
	c.DB = db

	return nil
}

// promptWithDefault prompts for input, keeping the default when the user
// just presses enter.
func promptWithDefault(reader *bufio.Reader, out io.Writer, prompt, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprintf(out, "%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Fprintf(out, "%s: ", prompt)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		return defaultValue
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return defaultValue
	}
	return input
}

// defaultString returns value unless it is empty or "0".
func defaultString(value, fallback string) string {
	if value == "" || value == "0" {
		return fallback
	}
	return value
}
