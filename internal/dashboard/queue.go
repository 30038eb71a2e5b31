package dashboard

// OrderQueue returns the doctor's serving order: every emergency before any
// regular entry, FIFO within each tier.
func OrderQueue(q Queue) []QueueEntry {
	out := make([]QueueEntry, 0, len(q.Emergencies)+len(q.Queue))
	out = append(out, q.Emergencies...)
	out = append(out, q.Queue...)
	return out
}

// NextEntry is the entry "call next" claims.
func NextEntry(q Queue) (QueueEntry, bool) {
	ordered := OrderQueue(q)
	if len(ordered) == 0 {
		return QueueEntry{}, false
	}
	return ordered[0], true
}

// CanCallNext is false while a case is being served or nobody is waiting.
func CanCallNext(q Queue, current *CurrentCase) bool {
	if current != nil {
		return false
	}
	_, ok := NextEntry(q)
	return ok
}
