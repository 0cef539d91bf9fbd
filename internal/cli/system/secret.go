package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/taskmaster/internal/cli"
	"github.com/julianstephens/taskmaster/internal/keyring"
	"github.com/julianstephens/taskmaster/internal/storage"
	"github.com/julianstephens/taskmaster/internal/storage/postgres"
)

// PromptSecretFunc reads a secret without echo. Swapped in tests.
var PromptSecretFunc = func(name string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(fmt.Sprintf("Value for %s", name)).
		EchoMode(huh.EchoModePassword).
		Value(&value).
		WithTheme(huh.ThemeDracula()).
		Run()
	return strings.TrimSpace(value), err
}

// SecretSetCmd stores a secret in the OS keyring
type SecretSetCmd struct {
	Name  string `arg:"" enum:"database-connection,telegram-token" help:"Secret name (database-connection|telegram-token)."`
	Value string `arg:"" optional:"" help:"Secret value. Prompted for when omitted."`
}

func (c *SecretSetCmd) Run(ctx *cli.Context) error {
	value := c.Value
	if value == "" {
		v, err := PromptSecretFunc(c.Name)
		if err != nil {
			return err
		}
		value = v
	}

	if c.Name == keyring.SecretDatabase {
		if !storage.IsPostgresDSN(value) && !strings.Contains(value, "host=") {
			return errors.New("connection string must be a valid PostgreSQL connection string")
		}
		if err := postgres.ValidateConnString(value); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			// the keyring is encrypted, so embedded credentials are acceptable here
			ctx.Println("⚠️  Connection string contains embedded credentials; it will be stored as-is in the OS keyring.")
		}
	}

	if err := keyring.Set(c.Name, value); err != nil {
		return err
	}
	ctx.Printf("✓ %s stored in OS keyring\n", c.Name)
	return nil
}

// SecretDeleteCmd removes a secret from the OS keyring
type SecretDeleteCmd struct {
	Name string `arg:"" enum:"database-connection,telegram-token" help:"Secret name (database-connection|telegram-token)."`
}

func (c *SecretDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.Delete(c.Name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", c.Name)
		}
		return err
	}
	ctx.Printf("✓ %s deleted from OS keyring\n", c.Name)
	return nil
}

// SecretStatusCmd reports which secrets are stored
type SecretStatusCmd struct{}

func (c *SecretStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	ctx.Println("✓ OS keyring is available")

	for _, name := range keyring.KnownSecrets {
		value, err := keyring.Get(name)
		switch {
		case errors.Is(err, keyring.ErrNotFound):
			ctx.Printf("ℹ %s: not set\n", name)
		case err != nil:
			ctx.Printf("❌ %s: %v\n", name, err)
		case name == keyring.SecretDatabase:
			ctx.Printf("✓ %s: %s\n", name, maskPassword(value))
		default:
			ctx.Printf("✓ %s: set\n", name)
		}
	}
	return nil
}

// maskPassword hides the password in URL or key=value connection strings.
func maskPassword(connStr string) string {
	if storage.IsPostgresDSN(connStr) {
		idx := strings.Index(connStr, "://")
		rest := connStr[idx+3:]
		if at := strings.LastIndex(rest, "@"); at != -1 {
			userInfo := rest[:at]
			if colon := strings.Index(userInfo, ":"); colon != -1 {
				return connStr[:idx+3] + userInfo[:colon] + ":****" + rest[at:]
			}
		}
		return connStr
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}
	return connStr
}
