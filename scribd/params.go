package scribd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dquimper/rscribd/api"
	"github.com/dquimper/rscribd/resource"
)

// identifierValue reads a numeric identifier attribute. The remote sends
// identifiers type-tagged in some responses and as plain digits in others, so
// both int64 and digit strings are accepted.
func identifierValue(value resource.Value) (int64, bool) {
	switch typed := value.(type) {
	case int64:
		return typed, true
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}

func formatAttributeValue(value resource.Value) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case resource.Symbol:
		return string(typed)
	case bool:
		if typed {
			return "1"
		}
		return "0"
	case int64:
		return strconv.FormatInt(typed, 10)
	case int:
		return strconv.Itoa(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", typed)
	}
}

// attributeParams renders local attributes as call parameters, skipping nil
// values and the excluded names.
func attributeParams(attributes map[string]resource.Value, exclude ...string) api.Params {
	excluded := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		excluded[name] = struct{}{}
	}

	params := make(api.Params, len(attributes))
	for name, value := range attributes {
		if value == nil {
			continue
		}
		if _, skip := excluded[name]; skip {
			continue
		}
		params[name] = formatAttributeValue(value)
	}
	return params
}

func mergeParams(params api.Params, extra api.Params) api.Params {
	merged := make(api.Params, len(params)+len(extra))
	for key, value := range params {
		merged[key] = value
	}
	for key, value := range extra {
		merged[key] = value
	}
	return merged
}
