package resource

import (
	"fmt"
	"strings"

	"github.com/dquimper/rscribd/faults"
)

// NormalizeName converts an attribute-name input to its identifier form.
// Strings, Symbols, byte slices, and fmt.Stringer values are accepted; any
// other input, or a blank name, is a validation error.
func NormalizeName(name any) (string, error) {
	var raw string
	switch typed := name.(type) {
	case string:
		raw = typed
	case Symbol:
		raw = string(typed)
	case []byte:
		raw = string(typed)
	case fmt.Stringer:
		raw = typed.String()
	default:
		return "", faults.NewTypedError(
			faults.ValidationError,
			fmt.Sprintf("attribute name must be identifier-convertible, got %T", name),
			nil,
		)
	}

	identifier := strings.TrimSpace(raw)
	if identifier == "" {
		return "", faults.NewTypedError(faults.ValidationError, "attribute name must not be blank", nil)
	}
	return identifier, nil
}
