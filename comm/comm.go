// Package comm provides the communication channel shared by the ranks taking
// part in a distributed search.
//
// The search only needs collective reductions and a barrier. Serial is the
// single-partition no-op channel, Null stands for a rank excluded from the
// channel, and Group connects ranks running as goroutines of one process.
//
// Collectives block until every rank of the channel entered the same
// collective. All ranks must therefore issue the same sequence of collectives.
package comm

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrCollectiveMismatch is returned when ranks enter different collectives in the same round.
	ErrCollectiveMismatch = errors.New("ranks entered different collectives")

	// ErrAborted is returned to every rank of a round abandoned by a cancelled rank.
	ErrAborted = errors.New("collective aborted by another rank")
)

// Op is a reduction operator.
type Op int

const (
	OpSum Op = iota
	OpMin
	OpMax

	opBarrier
)

func (op Op) String() string {
	switch op {
	case OpSum:
		return "Sum"
	case OpMin:
		return "Min"
	case OpMax:
		return "Max"
	case opBarrier:
		return "Barrier"
	default:
		return fmt.Sprintf("Unknown(%d)", op)
	}
}

func (op Op) apply(a, b float64) float64 {
	switch op {
	case OpMin:
		return math.Min(a, b)
	case OpMax:
		return math.Max(a, b)
	default:
		return a + b
	}
}

// Communicator is a communication channel between ranks.
type Communicator interface {
	// Rank returns the index of this rank in the channel.
	Rank() int

	// Size returns the number of ranks in the channel.
	Size() int

	// IsDefinedOnThisRank reports whether this rank takes part in the channel.
	// Collectives must not be called otherwise.
	IsDefinedOnThisRank() bool

	// AllReduce combines v over all ranks with op and returns the result on every rank.
	AllReduce(ctx context.Context, op Op, v float64) (float64, error)

	// Barrier blocks until every rank reached it.
	Barrier(ctx context.Context) error
}

// SumAll returns the sum of v over all ranks.
func SumAll(ctx context.Context, c Communicator, v int) (int, error) {
	r, err := c.AllReduce(ctx, OpSum, float64(v))
	return int(r), err
}

// MinAll returns the minimum of v over all ranks.
func MinAll(ctx context.Context, c Communicator, v int) (int, error) {
	r, err := c.AllReduce(ctx, OpMin, float64(v))
	return int(r), err
}

// MaxAll returns the maximum of v over all ranks.
func MaxAll(ctx context.Context, c Communicator, v int) (int, error) {
	r, err := c.AllReduce(ctx, OpMax, float64(v))
	return int(r), err
}

// MaxAllFloat returns the maximum of v over all ranks.
func MaxAllFloat(ctx context.Context, c Communicator, v float64) (float64, error) {
	return c.AllReduce(ctx, OpMax, v)
}

// Serial is the channel of a single, unpartitioned rank. Collectives return immediately.
type Serial struct{}

// Compile-time checks to ensure the channels satisfy Communicator.
var (
	_ Communicator = Serial{}
	_ Communicator = Null{}
	_ Communicator = (*Member)(nil)
)

func (Serial) Rank() int                 { return 0 }
func (Serial) Size() int                 { return 1 }
func (Serial) IsDefinedOnThisRank() bool { return true }

func (Serial) AllReduce(ctx context.Context, _ Op, v float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return v, nil
}

func (Serial) Barrier(ctx context.Context) error { return ctx.Err() }

// Null is the view of a rank that is not part of the channel.
type Null struct{}

func (Null) Rank() int                 { return -1 }
func (Null) Size() int                 { return 0 }
func (Null) IsDefinedOnThisRank() bool { return false }

func (Null) AllReduce(_ context.Context, _ Op, v float64) (float64, error) { return v, nil }
func (Null) Barrier(context.Context) error                                 { return nil }
