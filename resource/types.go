package resource

// Value is an attribute value as coerced from a remote response: string,
// int64, float64, Symbol, or nil when the remote element carried no content.
type Value = any

// Symbol is an enum-tag value, produced from elements typed "symbol".
type Symbol string

const baseKind = "resource"
