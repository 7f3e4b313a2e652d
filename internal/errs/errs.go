// Package errs provides a small fluent error builder used across the
// engine so that every boundary error carries a component, a category and
// freeform context instead of a bare string.
package errs

import (
	"errors"
	"fmt"
	"time"
)

// Category groups errors into the small set of boundary failure modes
// callers need to distinguish.
type Category string

const (
	CategoryBufferTooLarge   Category = "buffer-too-large"
	CategoryNoAudio          Category = "no-audio"
	CategoryNotFound         Category = "not-found"
	CategoryInvalidRange     Category = "invalid-range"
	CategoryCodec            Category = "codec-error"
	CategoryEngine           Category = "engine-error"
	CategoryImport           Category = "import-error"
	CategoryModelUnavailable Category = "model-unavailable"
	CategoryUnknown          Category = "unknown"
)

// ComponentUnknown is used when the caller did not set a component.
const ComponentUnknown = "unknown"

// EnhancedError wraps a cause with component/category/context metadata.
type EnhancedError struct {
	Err       error
	component string
	category  Category
	context   map[string]any
	Timestamp time.Time
}

func (e *EnhancedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.component, e.category)
	}
	return e.Err.Error()
}

func (e *EnhancedError) Unwrap() error { return e.Err }

// Category reports the error's category, satisfying errors that want to
// group by category without a type switch.
func (e *EnhancedError) Category() Category { return e.category }

// Component reports the component tag attached at Build time.
func (e *EnhancedError) Component() string { return e.component }

// Context returns the freeform context map attached to the error.
func (e *EnhancedError) Context() map[string]any { return e.context }

// Builder is the fluent construction type returned by New/Newf.
type Builder struct {
	err       error
	component string
	category  Category
	context   map[string]any
}

// New starts a builder wrapping an existing error (may be nil for a
// synthetic failure that only carries metadata).
func New(err error) *Builder {
	return &Builder{err: err}
}

// Newf starts a builder from a formatted message.
func Newf(format string, args ...any) *Builder {
	return New(fmt.Errorf(format, args...))
}

func (b *Builder) Component(component string) *Builder {
	b.component = component
	return b
}

func (b *Builder) Category(category Category) *Builder {
	b.category = category
	return b
}

func (b *Builder) Context(key string, value any) *Builder {
	if b.context == nil {
		b.context = make(map[string]any)
	}
	b.context[key] = value
	return b
}

// Build finalizes the EnhancedError.
func (b *Builder) Build() *EnhancedError {
	component := b.component
	if component == "" {
		component = ComponentUnknown
	}
	return &EnhancedError{
		Err:       b.err,
		component: component,
		category:  b.category,
		context:   b.context,
		Timestamp: time.Now(),
	}
}

// CategoryOf extracts the Category from err if it (or something it wraps)
// is an *EnhancedError, otherwise returns CategoryUnknown.
func CategoryOf(err error) Category {
	var ee *EnhancedError
	if errors.As(err, &ee) {
		return ee.category
	}
	return CategoryUnknown
}

// Is defers to the standard library so EnhancedError participates in
// errors.Is/errors.As chains normally.
func Is(err, target error) bool { return errors.Is(err, target) }
