package common

import (
	"github.com/dquimper/rscribd/faults"
)

func ValidationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func AuthError(message string, cause error) error {
	return faults.NewTypedError(faults.AuthError, message, cause)
}
