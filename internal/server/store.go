package server

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrNotModified = errors.New("not modified")
	ErrNoCart      = errors.New("no such cart_id")
)

// ItemStore holds Item records keyed by id. Ids are assigned 1, 2, 3, ... on
// Create in every backing, so the in-memory and SQLite stores are
// interchangeable. Get returns soft-deleted records; hiding them from reads
// is the handlers' job.
type ItemStore interface {
	Create(name string, price float64) (Item, error)
	Get(id int64) (Item, error)
	Replace(id int64, name string, price float64) (Item, error)
	PartialUpdate(id int64, patch ItemPatch) (Item, error)
	SoftDelete(id int64) error
	List() ([]Item, error)
}

// CartStore holds Cart records keyed by id, assigned the same way as item
// ids. AddItem increments the line for an already-present item id. List
// returns carts in id order.
type CartStore interface {
	Create() (int64, error)
	Get(id int64) (Cart, error)
	AddItem(cartID, itemID int64) error
	List() ([]Cart, error)
}

type MemoryItemStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*Item
}

func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{
		nextID: 1,
		items:  map[int64]*Item{},
	}
}

func (s *MemoryItemStore) Create(name string, price float64) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := Item{ID: s.nextID, Name: name, Price: price}
	s.items[it.ID] = &it
	s.nextID++
	return it, nil
}

func (s *MemoryItemStore) Get(id int64) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return *it, nil
}

// Replace upserts: an absent id gets a fresh record at that id (the sequence
// is bumped past it so Create never collides). The deleted flag is never
// touched.
func (s *MemoryItemStore) Replace(id int64, name string, price float64) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		it = &Item{ID: id}
		s.items[id] = it
		if id >= s.nextID {
			s.nextID = id + 1
		}
	}
	it.Name = name
	it.Price = price
	return *it, nil
}

func (s *MemoryItemStore) PartialUpdate(id int64, patch ItemPatch) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	if it.Deleted {
		return Item{}, ErrNotModified
	}
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Price != nil {
		it.Price = *patch.Price
	}
	return *it, nil
}

func (s *MemoryItemStore) SoftDelete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	it.Deleted = true
	return nil
}

func (s *MemoryItemStore) List() ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.items[id])
	}
	return out, nil
}

type MemoryCartStore struct {
	mu     sync.Mutex
	nextID int64
	carts  map[int64]*Cart
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{
		nextID: 1,
		carts:  map[int64]*Cart{},
	}
}

func (s *MemoryCartStore) Create() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.carts[id] = &Cart{ID: id}
	s.nextID++
	return id, nil
}

func (s *MemoryCartStore) Get(id int64) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[id]
	if !ok {
		return Cart{}, ErrNoCart
	}
	return copyCart(c), nil
}

func (s *MemoryCartStore) AddItem(cartID, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[cartID]
	if !ok {
		return ErrNoCart
	}
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].Quantity++
			return nil
		}
	}
	c.Lines = append(c.Lines, CartLine{ItemID: itemID, Quantity: 1})
	return nil
}

func (s *MemoryCartStore) List() ([]Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.carts))
	for id := range s.carts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]Cart, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyCart(s.carts[id]))
	}
	return out, nil
}

// copyCart detaches the line slice so callers never alias store internals.
func copyCart(c *Cart) Cart {
	out := Cart{ID: c.ID}
	if len(c.Lines) > 0 {
		out.Lines = make([]CartLine, len(c.Lines))
		copy(out.Lines, c.Lines)
	}
	return out
}
