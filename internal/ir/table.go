package ir

// AnimationTable maps each storage trigger to at most one script.
type AnimationTable [NumTriggers]*Script

// Get returns the script bound to t, or nil.
func (t *AnimationTable) Get(tr Trigger) *Script {
	if !tr.IsStorage() {
		return nil
	}
	return t[tr]
}

// Occupied returns the set of triggers that already have a script.
func (t *AnimationTable) Occupied() TriggerSet {
	var s TriggerSet
	for i, sc := range t {
		if sc != nil {
			s = s.With(Trigger(i))
		}
	}
	return s
}

// IsEmpty reports whether no trigger has a script.
func (t *AnimationTable) IsEmpty() bool {
	return t.Occupied().IsEmpty()
}
