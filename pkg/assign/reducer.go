package assign

func newEntry(ref ContainerRef) Entry {
	return Entry{ID: ref.ID, ParentID: ref.ParentID, Op: OpAdd, IsNew: true}
}

// SelectSingle applies a plain click outside multi-select mode. Pending new
// entries are abandoned; clicking an untouched container schedules every
// other entry for removal so exactly one container ends up added.
func SelectSingle(ref ContainerRef, s State) State {
	next := s.Clone()
	next.Entries = next.Entries[:0]
	for _, e := range s.Entries {
		if !e.IsNew {
			next.Entries = append(next.Entries, e)
		}
	}

	idx := s.Find(ref)
	switch {
	case idx >= 0 && !s.Entries[idx].IsNew:
		i := next.Find(ref)
		next.Entries[i].Op = next.Entries[i].Op.flip()
	case idx < 0:
		for i := range next.Entries {
			next.Entries[i].Op = OpRemove
		}
		next.Entries = append(next.Entries, newEntry(ref))
	}
	// idx >= 0 && IsNew: the pending entry was dropped above, which is the toggle-off.
	return next
}

// SelectMultiple toggles ref without touching any other entry.
func SelectMultiple(ref ContainerRef, s State) State {
	next := s.Clone()
	idx := next.Find(ref)
	if idx < 0 {
		next.Entries = append(next.Entries, newEntry(ref))
		return next
	}
	if next.Entries[idx].IsNew {
		next.Entries = append(next.Entries[:idx], next.Entries[idx+1:]...)
		return next
	}
	next.Entries[idx].Op = next.Entries[idx].Op.flip()
	return next
}

// Click routes a click to the single or multi-select procedure. Holding the
// modifier switches the dialog into multi-select for the rest of its life.
func Click(ref ContainerRef, modifier bool, s State) State {
	if modifier && !s.IsMultiSelect {
		s = s.Clone()
		s.IsMultiSelect = true
	}
	if s.IsMultiSelect {
		return SelectMultiple(ref, s)
	}
	return SelectSingle(ref, s)
}

// ResetToOriginal drops new entries and re-affirms every pre-existing one.
func ResetToOriginal(s State) State {
	next := s.Clone()
	next.Entries = next.Entries[:0]
	for _, e := range s.Entries {
		if e.IsNew {
			continue
		}
		e.Op = OpAdd
		next.Entries = append(next.Entries, e)
	}
	next.IsMultiSelect = len(next.Entries) > 1
	return next
}

// AppendCreated records a container created inline during the dialog. The
// select mode is left as is. A factory may hand back an existing container,
// in which case a pre-existing entry keeps its origin.
func AppendCreated(ref ContainerRef, s State) State {
	next := s.Clone()
	if idx := next.Find(ref); idx >= 0 {
		if next.Entries[idx].IsNew {
			next.Entries[idx] = newEntry(ref)
		} else {
			next.Entries[idx].Op = OpAdd
		}
		return next
	}
	next.Entries = append(next.Entries, newEntry(ref))
	return next
}

// ApplySuggestion re-offers a previously committed selection. Suggested
// entries are only added for containers that have no entry yet.
func ApplySuggestion(suggested []Entry, s State) State {
	next := s.Clone()
	for _, e := range suggested {
		if e.Op != OpAdd {
			continue
		}
		ref := e.Ref()
		if next.Find(ref) >= 0 {
			continue
		}
		next.Entries = append(next.Entries, newEntry(ref))
	}
	next.IsMultiSelect = next.IsMultiSelect || len(next.Entries) > 1
	return next
}
