package topology

// Sequence hands out node ids. Ids are unique and strictly increasing for
// the lifetime of one Sequence; a fresh Sequence restarts at its start value.
// A Sequence is not safe for concurrent use; ids are assigned during the
// sequential expansion step before any parallel work begins.
type Sequence struct {
	next int
}

// NewSequence returns a Sequence whose first id is start.
func NewSequence(start int) *Sequence {
	return &Sequence{next: start}
}

// Next returns the next id.
func (s *Sequence) Next() int {
	id := s.next
	s.next++
	return id
}
