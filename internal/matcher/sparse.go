package matcher

// sparseSet is a set of states with constant time insert, lookup and
// clear. Iteration follows insertion order.
type sparseSet struct {
	sparseToDense []int
	dense         []int
}

func makeSparseSet(maxSize int) sparseSet {
	return sparseSet{
		sparseToDense: make([]int, maxSize),
		dense:         make([]int, 0, maxSize),
	}
}

func (s *sparseSet) resize(maxSize int) {
	if maxSize > len(s.sparseToDense) {
		s.sparseToDense = make([]int, maxSize)
		s.dense = make([]int, 0, maxSize)
		return
	}
	s.clear()
}

func (s *sparseSet) len() int {
	return len(s.dense)
}

func (s *sparseSet) contains(q int) bool {
	i := s.sparseToDense[q]
	return i < len(s.dense) && s.dense[i] == q
}

// insert adds q and reports whether it was absent.
func (s *sparseSet) insert(q int) bool {
	if s.contains(q) {
		return false
	}
	s.sparseToDense[q] = len(s.dense)
	s.dense = append(s.dense, q)
	return true
}

func (s *sparseSet) clear() {
	s.dense = s.dense[:0]
}
