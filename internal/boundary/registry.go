package boundary

import "fmt"

// ErrUnregistered reports a force query for a boundary that is not in the
// registry. This is a caller bug, not a transient condition.
type ErrUnregistered struct{}

func (ErrUnregistered) Error() string {
	return "boundary is not registered; it was never added or has been removed"
}

// Registry is the ordered collection of boundaries. Order is semantic: it
// decides boundary ids, tie-breaks and force-buffer layout. Any mutation
// triggers the change hook, which re-runs the full classification.
type Registry struct {
	boundaries []*Boundary
	onChange   func()
}

func NewRegistry() *Registry {
	return &Registry{}
}

// OnChange installs the reclassification hook.
func (r *Registry) OnChange(f func()) { r.onChange = f }

func (r *Registry) Add(b *Boundary) {
	r.boundaries = append(r.boundaries, b)
	r.changed()
}

// Remove deletes b by identity. Boundaries after it shift down one index.
func (r *Registry) Remove(b *Boundary) {
	kept := r.boundaries[:0]
	for _, x := range r.boundaries {
		if x != b {
			kept = append(kept, x)
		}
	}
	r.boundaries = kept
	r.changed()
}

func (r *Registry) Len() int { return len(r.boundaries) }

func (r *Registry) At(i int) *Boundary { return r.boundaries[i] }

// Index returns b's current position in the registry.
func (r *Registry) Index(b *Boundary) (int, error) {
	for i, x := range r.boundaries {
		if x == b {
			return i, nil
		}
	}
	return -1, ErrUnregistered{}
}

func (r *Registry) All() []*Boundary { return r.boundaries }

func (r *Registry) changed() {
	if r.onChange != nil {
		r.onChange()
	}
}

func (r *Registry) String() string {
	return fmt.Sprintf("registry(%d boundaries)", len(r.boundaries))
}
