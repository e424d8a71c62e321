package buffer

import "iter"

var _ Buffer[any] = (*FIFOBuffer[any])(nil)

const minCapacity = 16

// FIFOBuffer is a growable ring of items. Popped slots are zeroed so the buffer never retains
// references to items it has handed out.
type FIFOBuffer[Item any] struct {
	items []Item
	head  int
	size  int
}

func FIFO[Item any]() *FIFOBuffer[Item] {
	return &FIFOBuffer[Item]{
		items: make([]Item, minCapacity),
	}
}

func (b *FIFOBuffer[Item]) Push(item Item) {
	if b.size == len(b.items) {
		b.grow()
	}
	b.items[(b.head+b.size)%len(b.items)] = item
	b.size += 1
}

func (b *FIFOBuffer[Item]) Pop() (Item, bool) {
	var zero Item
	if b.size == 0 {
		return zero, false
	}
	item := b.items[b.head]
	b.items[b.head] = zero
	b.head = (b.head + 1) % len(b.items)
	b.size -= 1
	if b.size == 0 {
		b.head = 0
	}
	return item, true
}

func (b *FIFOBuffer[Item]) Size() int {
	return b.size
}

func (b *FIFOBuffer[Item]) Iter() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for i := range b.size {
			if !yield(b.items[(b.head+i)%len(b.items)]) {
				return
			}
		}
	}
}

func (b *FIFOBuffer[Item]) Reset() {
	clear(b.items)
	b.head = 0
	b.size = 0
}

func (b *FIFOBuffer[Item]) grow() {
	items := make([]Item, max(len(b.items)*2, minCapacity))
	for i := range b.size {
		items[i] = b.items[(b.head+i)%len(b.items)]
	}
	b.items = items
	b.head = 0
}
