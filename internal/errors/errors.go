package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/taskmaster/internal/logger"
	"github.com/julianstephens/taskmaster/internal/models"
	"github.com/julianstephens/taskmaster/internal/taskstore"
)

// Exit codes returned by the CLI
const (
	ExitFailure    = 1
	ExitValidation = 2
	ExitNotFound   = 3
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// ExitCode maps an error to the process exit code. Validation problems and
// missing records get their own codes so scripts can tell them apart.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, models.ErrInvalid):
		return ExitValidation
	case stderrors.Is(err, taskstore.ErrNotFound):
		return ExitNotFound
	default:
		return ExitFailure
	}
}

// Fatal logs an error and exits the program with the code from ExitCode
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(ExitCode(err))
	}
}
