package buffer

import "iter"

// Buffer is an in-memory first-in-first-out container for buffered lines.
//
// Implementations are not considered thread-safe. The reader guards its buffer with a single
// mutex.
type Buffer[Item any] interface {
	// Push adds an item to the tail of the buffer.
	Push(item Item)
	// Pop removes and returns the item at the head of the buffer. The second return value is
	// false if the buffer is empty.
	Pop() (Item, bool)
	// Size returns the number of items in the buffer.
	Size() int
	// Iter returns a sequence of all items in the buffer, head first, without removing them.
	Iter() iter.Seq[Item]
	// Reset clears all items from the buffer.
	Reset()
}
