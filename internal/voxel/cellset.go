package voxel

// CellSet is the set of distinct cells present in a collection.
type CellSet struct {
	buckets map[uint64][]CellIndex
	n       int
}

// NewCellSet returns the distinct values of indexes.
func NewCellSet(indexes []CellIndex) *CellSet {
	s := &CellSet{buckets: make(map[uint64][]CellIndex, len(indexes)/EstimatedPointsPerCell+1)}
	for _, c := range indexes {
		s.Add(c)
	}
	return s
}

// Add inserts c and reports whether it was not already present.
func (s *CellSet) Add(c CellIndex) bool {
	if s.buckets == nil {
		s.buckets = make(map[uint64][]CellIndex)
	}
	return s.add(c.Hash(), c)
}

func (s *CellSet) add(h uint64, c CellIndex) bool {
	bucket := s.buckets[h]
	for _, e := range bucket {
		if e.Equal(c) {
			return false
		}
	}
	s.buckets[h] = append(bucket, c)
	s.n++
	return true
}

// Contains reports whether c is in the set.
func (s *CellSet) Contains(c CellIndex) bool {
	for _, e := range s.buckets[c.Hash()] {
		if e.Equal(c) {
			return true
		}
	}
	return false
}

// Len returns the number of distinct cells.
func (s *CellSet) Len() int {
	return s.n
}
