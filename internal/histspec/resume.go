package histspec

// NextPendingIndex returns the index of the first commit whose derived status
// is not Complete. The second return is false iff every commit is Complete,
// which is the signal to move on to finalization.
//
// Re-running the controller always resumes here: completed commits are never
// re-processed, and a stuck or resolved commit is revisited before anything
// after it.
func (s *Specification) NextPendingIndex() (int, bool) {
	for i := range s.Commits {
		if !s.Commits[i].IsComplete() {
			return i, true
		}
	}
	return 0, false
}
