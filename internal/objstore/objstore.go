// Package objstore tracks the protocol objects alive on a connection.
package objstore

import (
	"deedles.dev/playland/internal/set"
	"deedles.dev/playland/wire"
)

// Store maps object IDs to objects. Objects that have been destroyed
// by the client stay in the store as zombies until the server confirms
// the deletion, so that events already in flight can still be decoded.
type Store struct {
	objects map[uint32]wire.Object
	zombies set.Set[uint32]
	nextID  uint32
}

func New(start uint32) *Store {
	return &Store{
		objects: make(map[uint32]wire.Object),
		zombies: make(set.Set[uint32]),
		nextID:  start,
	}
}

// Add inserts obj, assigning it the next free ID if it does not have
// one yet.
func (s *Store) Add(obj wire.Object) {
	id := obj.ID()
	if id == 0 {
		id = s.nextID
		obj.SetID(id)
		s.nextID++
	}

	s.objects[id] = obj
}

func (s *Store) Get(id uint32) wire.Object {
	return s.objects[id]
}

// Zombify marks the object as destroyed by the client.
func (s *Store) Zombify(id uint32) {
	if _, ok := s.objects[id]; ok {
		s.zombies.Add(id)
	}
}

func (s *Store) IsZombie(id uint32) bool {
	return s.zombies.Has(id)
}

// Delete removes the object entirely.
func (s *Store) Delete(id uint32) {
	delete(s.objects, id)
	s.zombies.Delete(id)
}

// Len returns the number of objects in the store, zombies included.
func (s *Store) Len() int {
	return len(s.objects)
}
