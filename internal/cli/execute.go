package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dquimper/rscribd/faults"
	"github.com/dquimper/rscribd/internal/cli/common"
)

func Execute() error {
	return ExecuteWith(common.DefaultDependencies())
}

func ExecuteWith(deps common.CommandDependencies) error {
	root := NewRootCommand(deps)
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(root.ErrOrStderr(), formatExecutionError(err))
		return err
	}
	return nil
}

func formatExecutionError(err error) string {
	message := strings.TrimSpace(err.Error())

	var typed *faults.TypedError
	if !errors.As(err, &typed) {
		return "error: " + message
	}

	switch typed.Category {
	case faults.AuthError:
		return "auth error: " + message
	case faults.ValidationError:
		return "invalid request: " + message
	case faults.NotFoundError:
		return "not found: " + message
	case faults.RemoteError:
		return "remote error: " + message
	case faults.TransportError:
		return "transport error: " + message
	default:
		return "error: " + message
	}
}

// ExitCode maps an execution error to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if faults.IsCategory(err, faults.ValidationError) {
		return 2
	}
	return 1
}
