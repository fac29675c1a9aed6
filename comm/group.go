package comm

import (
	"context"
	"fmt"
	"sync"
)

// Group connects size ranks running in one process.
// Each rank uses its own Member; a Member must only be used by one goroutine.
type Group struct {
	size    int
	mu      sync.Mutex
	cur     *round
	broken  bool // set once a round was aborted
	members []*Member
}

// round is one collective operation joined by every rank.
type round struct {
	op      Op
	acc     float64
	arrived int
	result  float64
	err     error
	done    chan struct{}
}

func newRound() *round {
	return &round{done: make(chan struct{})}
}

// NewGroup creates a group of size ranks.
func NewGroup(size int) *Group {
	if size < 1 {
		size = 1
	}

	g := &Group{size: size, cur: newRound()}
	g.members = make([]*Member, size)
	for r := range g.members {
		g.members[r] = &Member{group: g, rank: r}
	}

	return g
}

// Size returns the number of ranks.
func (g *Group) Size() int { return g.size }

// Member returns the channel of the given rank.
func (g *Group) Member(rank int) *Member {
	return g.members[rank]
}

// Members returns the channels of all ranks in rank order.
func (g *Group) Members() []*Member {
	return g.members
}

func (g *Group) join(ctx context.Context, op Op, v float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	g.mu.Lock()
	if g.broken {
		g.mu.Unlock()
		return 0, ErrAborted
	}

	r := g.cur
	if r.arrived == 0 {
		r.op = op
		r.acc = v
	} else {
		if r.op != op && r.err == nil {
			r.err = fmt.Errorf("%w: %s and %s", ErrCollectiveMismatch, r.op, op)
		}
		r.acc = r.op.apply(r.acc, v)
	}
	r.arrived++

	if r.arrived == g.size {
		r.result = r.acc
		g.cur = newRound()
		close(r.done)
	}
	g.mu.Unlock()

	select {
	case <-r.done:
		return r.result, r.err
	case <-ctx.Done():
		g.abort(r)
		<-r.done
		if r.err == ErrAborted {
			return 0, ctx.Err()
		}
		return r.result, r.err
	}
}

// abort completes r with ErrAborted unless it already completed.
// The group is unusable afterwards.
func (g *Group) abort(r *round) {
	g.mu.Lock()
	defer g.mu.Unlock()

	select {
	case <-r.done:
		return
	default:
	}

	r.err = ErrAborted
	g.broken = true
	close(r.done)
}

// Member is the channel of one rank of a Group.
type Member struct {
	group *Group
	rank  int
}

func (m *Member) Rank() int                 { return m.rank }
func (m *Member) Size() int                 { return m.group.size }
func (m *Member) IsDefinedOnThisRank() bool { return true }

// AllReduce implements Communicator.
func (m *Member) AllReduce(ctx context.Context, op Op, v float64) (float64, error) {
	return m.group.join(ctx, op, v)
}

// Barrier implements Communicator.
func (m *Member) Barrier(ctx context.Context) error {
	_, err := m.group.join(ctx, opBarrier, 0)
	return err
}
