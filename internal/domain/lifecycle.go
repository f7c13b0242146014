package domain

import (
	"context"
)

// HookEvent represents a lifecycle point of a document.
type HookEvent string

const (
	// OnValidate runs on every save of a draft and again right before submit.
	// Hooks may enrich the document (composition, pricing) or reject it.
	OnValidate HookEvent = "validate"

	BeforeSubmit HookEvent = "before_submit"
	AfterSubmit  HookEvent = "after_submit"
	BeforeCancel HookEvent = "before_cancel"
	AfterCancel  HookEvent = "after_cancel"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for a document kind.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event. Hooks run in registration order.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// Len reports how many hooks are registered for event.
func (r *HookRegistry[T]) Len(event HookEvent) int {
	return len(r.hooks[event])
}
