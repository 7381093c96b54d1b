package operation

import "fmt"

// Registry is an immutable name → Operation index. It is safe for
// concurrent use because nothing mutates it after construction.
type Registry struct {
	ops   map[string]Operation
	order []Operation
}

// NewRegistry indexes ops by name, keeping their order for List.
func NewRegistry(ops []Operation) (*Registry, error) {
	r := &Registry{
		ops:   make(map[string]Operation, len(ops)),
		order: make([]Operation, 0, len(ops)),
	}
	for _, op := range ops {
		if _, exists := r.ops[op.Name()]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateOperation, op.Name())
		}
		r.ops[op.Name()] = op
		r.order = append(r.order, op)
	}
	return r, nil
}

func (r *Registry) Lookup(name string) (Operation, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// List returns the operations in registration order.
func (r *Registry) List() []Operation {
	out := make([]Operation, len(r.order))
	copy(out, r.order)
	return out
}
