package cache

import (
	"context"
	"fmt"
)

// Identifiable is implemented by every entity kept in a cached collection.
type Identifiable interface {
	EntityID() int64
}

// ReplaceByID returns a new slice where the element with id is replaced by fn(element).
// Every other element is carried over as is.
func ReplaceByID[T Identifiable](list []T, id int64, fn func(T) T) []T {
	out := make([]T, len(list))
	for i, item := range list {
		if item.EntityID() == id {
			out[i] = fn(item)
			continue
		}
		out[i] = item
	}
	return out
}

func Append[T any](list []T, items ...T) []T {
	out := make([]T, 0, len(list)+len(items))
	out = append(out, list...)
	return append(out, items...)
}

func RemoveByID[T Identifiable](list []T, id int64) []T {
	out := make([]T, 0, len(list))
	for _, item := range list {
		if item.EntityID() != id {
			out = append(out, item)
		}
	}
	return out
}

func FindByID[T Identifiable](list []T, id int64) (T, bool) {
	for _, item := range list {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// SubscribeAs is Subscribe with the value asserted to T.
func SubscribeAs[T any](ctx context.Context, s *Store, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	snap := s.Subscribe(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	var zero T
	if snap.Error != nil {
		return zero, snap.Error
	}
	v, ok := snap.Data.(T)
	if !ok {
		return zero, fmt.Errorf("cache: key %q holds %T, want %T", key, snap.Data, zero)
	}
	return v, nil
}

func GetAs[T any](s *Store, key Key) (T, bool) {
	var zero T
	raw, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}

// PatchAs applies a typed patch with revalidate=false. A value of another type is kept unchanged.
func PatchAs[T any](ctx context.Context, s *Store, key Key, fn func(T) T) bool {
	return s.Patch(ctx, key, func(prev any) any {
		v, ok := prev.(T)
		if !ok {
			return prev
		}
		return fn(v)
	}, false)
}
