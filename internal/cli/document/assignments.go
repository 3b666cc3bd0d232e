package document

import (
	"strconv"
	"strings"

	"github.com/dquimper/rscribd/internal/cli/common"
	"github.com/dquimper/rscribd/resource"
)

// parseAssignments turns name=value arguments into attribute values.
// Booleans and integers are coerced so the wire encoding matches what the
// remote expects; everything else stays a string.
func parseAssignments(args []string) (map[string]resource.Value, error) {
	assignments := make(map[string]resource.Value, len(args))
	for _, arg := range args {
		name, rawValue, found := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, common.ValidationError("assignments must use the name=value form", nil)
		}
		assignments[name] = coerceAssignmentValue(rawValue)
	}
	return assignments, nil
}

func coerceAssignmentValue(raw string) resource.Value {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return parsed
	}
	return raw
}
