package proxypath

import "github.com/spf13/cast"

// ResolveValue resolves a base URL supplied as an untyped value, such as one
// decoded from configuration. Nil is treated as omitted, numbers, booleans,
// byte slices and fmt.Stringer values are coerced to strings, and values that
// cannot be coerced are treated as blank.
func ResolveValue(origin OriginProvider, value any) string {
	return Resolve(origin, coerceBaseURL(value))
}

func coerceBaseURL(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case *string:
		if typed == nil {
			return ""
		}
		return *typed
	}

	coerced, coerceErr := cast.ToStringE(value)
	if coerceErr != nil {
		return ""
	}
	return coerced
}
