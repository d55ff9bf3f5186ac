package snowflake

import (
	"errors"
	"sync"
	"time"
)

const (
	// Epoch is the custom epoch (January 1, 2024 00:00:00 UTC)
	Epoch int64 = 1704067200000 // milliseconds

	workerIDBits uint8 = 10
	sequenceBits uint8 = 12

	maxWorkerID  int64 = -1 ^ (-1 << workerIDBits)
	sequenceMask int64 = -1 ^ (-1 << sequenceBits)

	workerIDShift  = sequenceBits
	timestampShift = sequenceBits + workerIDBits
)

var (
	ErrInvalidWorkerID     = errors.New("worker ID exceeds maximum value")
	ErrClockMovedBackwards = errors.New("clock moved backwards")
)

// Generator produces unique, time-sortable int64 IDs.
// Within one millisecond IDs are ordered by sequence, so sorting by ID
// is sorting by generation order.
type Generator struct {
	mu sync.Mutex

	workerID      int64
	sequence      int64
	lastTimestamp int64
}

// NewGenerator creates a generator for the given worker ID
func NewGenerator(workerID int64) (*Generator, error) {
	if workerID < 0 || workerID > maxWorkerID {
		return nil, ErrInvalidWorkerID
	}
	return &Generator{workerID: workerID}, nil
}

// NextID generates the next unique ID
func (g *Generator) NextID() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	timestamp := currentTimestamp()

	if timestamp < g.lastTimestamp {
		return 0, ErrClockMovedBackwards
	}

	if timestamp == g.lastTimestamp {
		g.sequence = (g.sequence + 1) & sequenceMask
		// Sequence overflow - wait for next millisecond
		if g.sequence == 0 {
			timestamp = waitNextMillis(g.lastTimestamp)
		}
	} else {
		g.sequence = 0
	}

	g.lastTimestamp = timestamp

	id := ((timestamp - Epoch) << timestampShift) |
		(g.workerID << workerIDShift) |
		g.sequence

	return id, nil
}

// GetTimestamp extracts the millisecond timestamp from an ID
func GetTimestamp(id int64) int64 {
	return (id >> timestampShift) + Epoch
}

// GetWorkerID extracts the worker ID from an ID
func GetWorkerID(id int64) int64 {
	return (id >> workerIDShift) & maxWorkerID
}

// GetSequence extracts the sequence from an ID
func GetSequence(id int64) int64 {
	return id & sequenceMask
}

func currentTimestamp() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

func waitNextMillis(lastTimestamp int64) int64 {
	timestamp := currentTimestamp()
	for timestamp <= lastTimestamp {
		timestamp = currentTimestamp()
	}
	return timestamp
}
