package matcher

import "sync"

// scratch holds the buffers of one simulation. Scratches are recycled
// through scratchPool so that repeated matching does not allocate state
// sets for every call.
type scratch struct {
	cur, next sparseSet
	stack     []int
	vecs      [2][]int
	tmp       []int
}

var scratchPool = sync.Pool{
	New: func() any {
		return &scratch{}
	},
}

// getScratch returns a scratch sized for an automaton of n states and tag
// vectors of ntags entries.
func getScratch(n, ntags int) *scratch {
	s := scratchPool.Get().(*scratch)
	s.cur.resize(n)
	s.next.resize(n)
	s.stack = s.stack[:0]
	for i := range s.vecs {
		if cap(s.vecs[i]) < n*ntags {
			s.vecs[i] = make([]int, n*ntags)
		}
		s.vecs[i] = s.vecs[i][:n*ntags]
	}
	if cap(s.tmp) < ntags {
		s.tmp = make([]int, ntags)
	}
	s.tmp = s.tmp[:ntags]
	return s
}

func putScratch(s *scratch) {
	scratchPool.Put(s)
}
