// Package keyring stores named secrets in the OS keyring under the
// application's service name.
package keyring

import (
	"errors"
	"fmt"

	"github.com/julianstephens/taskmaster/internal/constants"
	"github.com/zalando/go-keyring"
)

var (
	// ErrNotFound is returned when no secret is stored under the requested name
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Secret names accepted by Get, Set and Delete.
const (
	SecretDatabase = constants.DefaultKeyringUser
	SecretTelegram = constants.TelegramKeyringKey
)

// KnownSecrets lists the secrets the application reads.
var KnownSecrets = []string{SecretDatabase, SecretTelegram}

// IsKnown reports whether name is one of KnownSecrets.
func IsKnown(name string) bool {
	for _, s := range KnownSecrets {
		if s == name {
			return true
		}
	}
	return false
}

// Get retrieves a secret. Returns ErrNotFound if nothing is stored.
func Get(name string) (string, error) {
	value, err := keyring.Get(constants.AppName, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Set stores a secret, replacing any previous value.
func Set(name, value string) error {
	if name == "" {
		return errors.New("secret name cannot be empty")
	}
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if err := keyring.Set(constants.AppName, name, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", name, err)
	}
	return nil
}

// Delete removes a secret.
func Delete(name string) error {
	err := keyring.Delete(constants.AppName, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", name, err)
	}
	return nil
}

// GetConnectionString retrieves the database connection string.
func GetConnectionString() (string, error) {
	return Get(SecretDatabase)
}

// GetTelegramToken retrieves the Telegram bot token.
func GetTelegramToken() (string, error) {
	return Get(SecretTelegram)
}

// IsAvailable is a best-effort check that the OS keyring can be read.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
