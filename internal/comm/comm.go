// Package comm models the collective semantics a replicated simulation core
// relies on: ordered field broadcasts that every rank applies identically, and
// blocking sum-reductions over per-rank buffers.
//
// Transport is out of scope. The in-process Group executes the collectives
// synchronously over registered rank handlers, which is exactly the lockstep
// single-writer model the integration loop assumes.
package comm

// Message is one replicated field update. Broadcast order within an operation
// is part of the wire contract, so callers emit one Message per field.
// Counter carries RNG counter values, which do not fit in a float64.
type Message struct {
	Field   string
	Values  []float64
	Counter uint64
}

// Handler applies a replicated update on a receiving rank.
type Handler func(Message)

// Communicator is the collective surface a rank sees.
type Communicator interface {
	Rank() int
	Size() int

	// Broadcast delivers msg to every other rank's handlers and returns once
	// all of them have applied it. The caller applies the update locally.
	Broadcast(msg Message)

	// OnBroadcast registers a handler for updates broadcast by other ranks.
	OnBroadcast(h Handler)

	// Provide registers this rank's contribution to the named reduction.
	Provide(topic string, f func() []float64)

	// AllReduceSum sums local with every other rank's contribution for topic.
	AllReduceSum(topic string, local []float64) []float64
}

// Group is an in-process rank group executing collectives synchronously in
// rank order.
type Group struct {
	ranks []*Rank
}

func NewGroup(n int) *Group {
	if n < 1 {
		n = 1
	}
	g := &Group{ranks: make([]*Rank, n)}
	for i := range g.ranks {
		g.ranks[i] = &Rank{group: g, id: i, providers: make(map[string]func() []float64)}
	}
	return g
}

func (g *Group) Size() int { return len(g.ranks) }

func (g *Group) Rank(i int) *Rank { return g.ranks[i] }

// Single returns a one-rank communicator, the configuration of a serial run.
func Single() *Rank { return NewGroup(1).Rank(0) }

// Rank is one member of a Group.
type Rank struct {
	group     *Group
	id        int
	handlers  []Handler
	providers map[string]func() []float64
}

func (r *Rank) Rank() int { return r.id }
func (r *Rank) Size() int { return r.group.Size() }

func (r *Rank) OnBroadcast(h Handler) {
	r.handlers = append(r.handlers, h)
}

func (r *Rank) Provide(topic string, f func() []float64) {
	r.providers[topic] = f
}

func (r *Rank) Broadcast(msg Message) {
	for _, peer := range r.group.ranks {
		if peer.id == r.id {
			continue
		}
		for _, h := range peer.handlers {
			h(msg)
		}
	}
}

func (r *Rank) AllReduceSum(topic string, local []float64) []float64 {
	out := make([]float64, len(local))
	copy(out, local)
	for _, peer := range r.group.ranks {
		if peer.id == r.id {
			continue
		}
		f, ok := peer.providers[topic]
		if !ok {
			continue
		}
		for i, v := range f() {
			if i < len(out) {
				out[i] += v
			}
		}
	}
	return out
}
