package ecs

import "sort"

// SparseSet stores one component value per entity slot id.
// Ids are 1-based; 0 is never stored.
type SparseSet struct {
	denseIDs    []entityID
	denseValues []any
	sparse      []int
	sorted      bool
}

// Has reports whether id has a value in the set.
func (s *SparseSet) Has(id entityID) bool {
	if s == nil || id == 0 || int(id) > len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && idx < len(s.denseIDs) && s.denseIDs[idx] == id
}

// Get returns the value for id, or nil.
func (s *SparseSet) Get(id entityID) any {
	if !s.Has(id) {
		return nil
	}
	return s.denseValues[s.sparse[id-1]]
}

// Set inserts or replaces the value for id.
func (s *SparseSet) Set(id entityID, v any) {
	if s == nil || id == 0 {
		return
	}
	for int(id) > len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.Has(id) {
		s.denseValues[s.sparse[id-1]] = v
		return
	}
	if n := len(s.denseIDs); n > 0 && s.denseIDs[n-1] > id {
		s.sorted = false
	}
	s.denseIDs = append(s.denseIDs, id)
	s.denseValues = append(s.denseValues, v)
	s.sparse[id-1] = len(s.denseIDs) - 1
}

// Remove deletes the value for id and reports whether it was present.
func (s *SparseSet) Remove(id entityID) bool {
	if !s.Has(id) {
		return false
	}
	idx := s.sparse[id-1]
	last := len(s.denseIDs) - 1
	lastID := s.denseIDs[last]

	s.denseIDs[idx] = lastID
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[lastID-1] = idx

	s.denseIDs = s.denseIDs[:last]
	s.denseValues = s.denseValues[:last]
	s.sparse[id-1] = -1
	if idx != last {
		s.sorted = false
	}
	return true
}

// Len returns the number of stored values.
func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseIDs)
}

// IDs returns the stored ids in ascending order.
func (s *SparseSet) IDs() []entityID {
	if s == nil {
		return nil
	}
	s.sort()
	return s.denseIDs
}

// sort restores ascending id order so iteration is deterministic.
func (s *SparseSet) sort() {
	if s.sorted || len(s.denseIDs) < 2 {
		s.sorted = true
		return
	}
	idx := make([]int, len(s.denseIDs))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return s.denseIDs[idx[a]] < s.denseIDs[idx[b]] })

	ids := make([]entityID, len(idx))
	values := make([]any, len(idx))
	for i, j := range idx {
		ids[i] = s.denseIDs[j]
		values[i] = s.denseValues[j]
		s.sparse[ids[i]-1] = i
	}
	s.denseIDs = ids
	s.denseValues = values
	s.sorted = true
}
