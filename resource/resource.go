package resource

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/dquimper/rscribd/faults"
)

// Resource is the generic local stand-in for one remote entity: a schema-less
// attribute store plus the saved/created synchronization flags. The remote
// service owns the schema, so every attribute name is acceptable and reads of
// unknown names yield nil.
//
// A Resource is single-owner state: it carries no locking, and a Save in
// flight races with concurrent attribute writes unless the caller
// synchronizes externally.
type Resource struct {
	kind       string
	attributes map[string]Value
	saved      bool
	created    bool
}

// New constructs an unsaved, uncreated Resource seeded with the given
// attributes.
func New(initial map[string]Value) *Resource {
	return NewOfKind(baseKind, initial)
}

// NewOfKind is New for a concrete subtype, which reports its kind in the
// debug representation and in not-implemented errors.
func NewOfKind(kind string, initial map[string]Value) *Resource {
	resolvedKind := strings.TrimSpace(kind)
	if resolvedKind == "" {
		resolvedKind = baseKind
	}

	attributes := make(map[string]Value, len(initial))
	for name, value := range initial {
		attributes[name] = value
	}

	return &Resource{
		kind:       resolvedKind,
		attributes: attributes,
	}
}

func (r *Resource) Kind() string {
	if r == nil {
		return baseKind
	}
	return r.kind
}

func (r *Resource) Saved() bool {
	return r != nil && r.saved
}

func (r *Resource) Created() bool {
	return r != nil && r.created
}

// MarkSaved is the hook concrete subtypes use after a successful remote
// create-or-update. Local writes do not clear the flag; only a completed
// remote call changes synchronization state.
func (r *Resource) MarkSaved(saved bool) {
	if r == nil {
		return
	}
	r.saved = saved
}

func (r *Resource) MarkCreated(created bool) {
	if r == nil {
		return
	}
	r.created = created
}

// Get reads an attribute through the dynamic path: any name is acceptable
// and unknown names yield nil, never an error.
func (r *Resource) Get(name string) Value {
	if r == nil {
		return nil
	}
	return r.attributes[name]
}

// Set writes one attribute through the dynamic path. Any name is acceptable;
// the value is retained locally until the next full attribute reload.
func (r *Resource) Set(name string, value Value) {
	if r == nil {
		return
	}
	if r.attributes == nil {
		r.attributes = make(map[string]Value, 1)
	}
	r.attributes[name] = value
}

// ReadAttribute returns the local value for a name-convertible input, or nil
// when the attribute is absent.
func (r *Resource) ReadAttribute(name any) (Value, error) {
	identifier, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	return r.Get(identifier), nil
}

// ReadAttributes resolves every requested name to its local value. The input
// must be a slice or array of name-convertible values; every requested name
// appears in the result, absent attributes as nil.
func (r *Resource) ReadAttributes(names any) (map[string]Value, error) {
	if names == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "attribute names must be iterable", nil)
	}

	reflected := reflect.ValueOf(names)
	switch reflected.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, faults.NewTypedError(
			faults.ValidationError,
			fmt.Sprintf("attribute names must be iterable, got %T", names),
			nil,
		)
	}

	length := reflected.Len()
	values := make(map[string]Value, length)
	for index := 0; index < length; index++ {
		identifier, err := NormalizeName(reflected.Index(index).Interface())
		if err != nil {
			return nil, err
		}
		values[identifier] = r.Get(identifier)
	}
	return values, nil
}

// WriteAttributes merges a mapping of name-convertible keys into the store.
// All keys are validated before any mutation, so a failed call leaves the
// store unchanged.
func (r *Resource) WriteAttributes(values any) error {
	if r == nil {
		return faults.NewTypedError(faults.InternalError, "resource is nil", nil)
	}
	if values == nil {
		return faults.NewTypedError(faults.ValidationError, "attribute values must be a mapping", nil)
	}

	staged, err := stageAttributeValues(values)
	if err != nil {
		return err
	}

	if r.attributes == nil {
		r.attributes = make(map[string]Value, len(staged))
	}
	for name, value := range staged {
		r.attributes[name] = value
	}
	return nil
}

func stageAttributeValues(values any) (map[string]Value, error) {
	if typed, ok := values.(map[string]Value); ok {
		staged := make(map[string]Value, len(typed))
		for name, value := range typed {
			identifier, err := NormalizeName(name)
			if err != nil {
				return nil, err
			}
			staged[identifier] = value
		}
		return staged, nil
	}

	reflected := reflect.ValueOf(values)
	if reflected.Kind() != reflect.Map {
		return nil, faults.NewTypedError(
			faults.ValidationError,
			fmt.Sprintf("attribute values must be a mapping, got %T", values),
			nil,
		)
	}

	staged := make(map[string]Value, reflected.Len())
	iterator := reflected.MapRange()
	for iterator.Next() {
		identifier, err := NormalizeName(iterator.Key().Interface())
		if err != nil {
			return nil, err
		}
		staged[identifier] = iterator.Value().Interface()
	}
	return staged, nil
}

// Attributes returns a copy of the local attribute store.
func (r *Resource) Attributes() map[string]Value {
	if r == nil {
		return nil
	}

	values := make(map[string]Value, len(r.attributes))
	for name, value := range r.attributes {
		values[name] = value
	}
	return values
}

// Save is the remote create-or-update verb. The base type has no transport;
// concrete subtypes shadow this with the actual remote call.
func (r *Resource) Save(ctx context.Context) error {
	return NotImplemented(r.Kind(), "save")
}

// Find is the remote search verb; concrete subtypes shadow it.
func (r *Resource) Find(ctx context.Context, query string) ([]*Resource, error) {
	return nil, NotImplemented(r.Kind(), "find")
}

// Destroy is the remote deletion verb; concrete subtypes shadow it.
func (r *Resource) Destroy(ctx context.Context) error {
	return NotImplemented(r.Kind(), "destroy")
}

// NotImplemented builds the error the abstract verbs fail with, naming the
// offending kind.
func NotImplemented(kind string, operation string) error {
	return faults.NewTypedError(
		faults.NotImplementedError,
		fmt.Sprintf("%s does not implement %s", kind, operation),
		nil,
	)
}

// String lists every non-nil attribute as name=value pairs. Diagnostic only.
func (r *Resource) String() string {
	if r == nil {
		return baseKind + "()"
	}

	names := make([]string, 0, len(r.attributes))
	for name, value := range r.attributes {
		if value == nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, len(names))
	for index, name := range names {
		pairs[index] = fmt.Sprintf("%s=%v", name, r.attributes[name])
	}
	return fmt.Sprintf("%s(%s)", r.kind, strings.Join(pairs, ", "))
}
