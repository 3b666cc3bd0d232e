package common

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/itchyny/gojq"
)

var jqCodeCache sync.Map

// ApplyJQ evaluates a jq expression against a value. The value is passed
// through a JSON round trip first since gojq only accepts plain JSON types.
func ApplyJQ(ctx context.Context, expression string, value any) (any, error) {
	trimmedExpression := strings.TrimSpace(expression)
	if trimmedExpression == "" {
		return value, nil
	}

	code, err := cachedJQCode(trimmedExpression)
	if err != nil {
		return nil, ValidationError("invalid jq expression", err)
	}

	input, err := normalizeJQInput(value)
	if err != nil {
		return nil, err
	}

	runCtx := ctx
	if runCtx == nil {
		runCtx = context.Background()
	}
	iterator := code.RunWithContext(runCtx, input)
	results := make([]any, 0, 1)
	for {
		next, ok := iterator.Next()
		if !ok {
			break
		}
		if evalErr, isErr := next.(error); isErr {
			return nil, ValidationError("failed to evaluate jq expression", evalErr)
		}
		results = append(results, next)
	}

	if len(results) == 0 {
		return []any{}, nil
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

func cachedJQCode(expression string) (*gojq.Code, error) {
	if cached, ok := jqCodeCache.Load(expression); ok {
		if typed, ok := cached.(*gojq.Code); ok && typed != nil {
			return typed, nil
		}
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, err
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, err
	}

	actual, _ := jqCodeCache.LoadOrStore(expression, code)
	typed, _ := actual.(*gojq.Code)
	if typed == nil {
		return code, nil
	}
	return typed, nil
}

func normalizeJQInput(value any) (any, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, ValidationError("value cannot be filtered with jq", err)
	}
	var normalized any
	if err := json.Unmarshal(encoded, &normalized); err != nil {
		return nil, ValidationError("value cannot be filtered with jq", err)
	}
	return normalized, nil
}
