package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

type factoryWithPriority[F any] struct {
	Priority int
	Name     string
	Factory  F
}

type registry[F any] struct {
	locker    sync.Mutex
	factories map[reflect.Type]factoryWithPriority[F]
}

func newRegistry[F any]() *registry[F] {
	return &registry[F]{
		factories: map[reflect.Type]factoryWithPriority[F]{},
	}
}

func (r *registry[F]) register(
	priority int,
	name string,
	factory F,
) {
	t := reflect.ValueOf(factory).Type()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	r.locker.Lock()
	defer r.locker.Unlock()
	if _, ok := r.factories[t]; ok {
		panic(fmt.Errorf("there is already registered a factory of type %v", t))
	}
	for _, existing := range r.factories {
		if existing.Name == name {
			panic(fmt.Errorf("there is already registered a factory named %q", name))
		}
	}
	r.factories[t] = factoryWithPriority[F]{
		Priority: priority,
		Name:     name,
		Factory:  factory,
	}
}

// sorted returns the factories ordered by priority (highest first); ties
// are broken by name to keep the order deterministic.
func (r *registry[F]) sorted() []factoryWithPriority[F] {
	r.locker.Lock()
	defer r.locker.Unlock()

	result := make([]factoryWithPriority[F], 0, len(r.factories))
	for _, factory := range r.factories {
		result = append(result, factory)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Priority != result[j].Priority {
			return result[i].Priority > result[j].Priority
		}
		return result[i].Name < result[j].Name
	})
	return result
}

func (r *registry[F]) byName(name string) (F, bool) {
	r.locker.Lock()
	defer r.locker.Unlock()
	for _, factory := range r.factories {
		if factory.Name == name {
			return factory.Factory, true
		}
	}
	var zero F
	return zero, false
}
