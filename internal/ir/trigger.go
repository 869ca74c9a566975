package ir

import (
	"iter"
	"math/bits"

	"golang.org/x/text/cases"
)

// Trigger is a window lifecycle event that can start an animation.
//
// Values below NumTriggers are storage triggers and index an AnimationTable.
// TriggerGeometry is an alias and TriggerInvalid a parse-failure sentinel;
// neither ever indexes a table.
type Trigger int

const (
	TriggerOpen Trigger = iota
	TriggerClose
	TriggerShow
	TriggerHide
	TriggerIncreaseOpacity
	TriggerDecreaseOpacity
	TriggerSize
	TriggerPosition

	// TriggerGeometry is shorthand for TriggerSize and TriggerPosition.
	TriggerGeometry
	// TriggerInvalid is returned by ParseTrigger for unknown names.
	TriggerInvalid
)

// NumTriggers is the number of storage triggers.
const NumTriggers = int(TriggerGeometry)

// MaxTriggerNames is the number of distinct parseable trigger names,
// storage triggers plus the geometry alias.
const MaxTriggerNames = int(TriggerInvalid)

var triggerNames = [MaxTriggerNames]string{
	TriggerOpen:            "open",
	TriggerClose:           "close",
	TriggerShow:            "show",
	TriggerHide:            "hide",
	TriggerIncreaseOpacity: "increase-opacity",
	TriggerDecreaseOpacity: "decrease-opacity",
	TriggerSize:            "size",
	TriggerPosition:        "position",
	TriggerGeometry:        "geometry",
}

var foldedByName = func() map[string]Trigger {
	folder := cases.Fold()
	m := make(map[string]Trigger, len(triggerNames))
	for i, name := range triggerNames {
		m[folder.String(name)] = Trigger(i)
	}
	return m
}()

// ParseTrigger resolves a trigger name, ignoring case. Unknown names yield
// TriggerInvalid. Safe for concurrent use.
func ParseTrigger(name string) Trigger {
	if t, ok := foldedByName[cases.Fold().String(name)]; ok {
		return t
	}
	return TriggerInvalid
}

// String returns the configuration name of the trigger.
func (t Trigger) String() string {
	if t >= 0 && int(t) < len(triggerNames) {
		return triggerNames[t]
	}
	return "invalid"
}

// IsStorage reports whether t may index an AnimationTable.
func (t Trigger) IsStorage() bool {
	return t >= 0 && int(t) < NumTriggers
}

// Bit returns the single-member set containing t.
func (t Trigger) Bit() TriggerSet {
	if t < 0 || t > TriggerInvalid {
		return 0
	}
	return TriggerSet(1) << uint(t)
}

// TriggerSet is a set of triggers, one bit per Trigger value.
type TriggerSet uint64

// StorageTriggers contains every storage trigger.
const StorageTriggers = TriggerSet(1)<<uint(NumTriggers) - 1

const geometryMembers = TriggerSet(1)<<uint(TriggerSize) | TriggerSet(1)<<uint(TriggerPosition)

// SetOf builds a set from the given triggers.
func SetOf(triggers ...Trigger) TriggerSet {
	var s TriggerSet
	for _, t := range triggers {
		s |= t.Bit()
	}
	return s
}

func (s TriggerSet) Contains(t Trigger) bool       { return s&t.Bit() != 0 }
func (s TriggerSet) With(t Trigger) TriggerSet     { return s | t.Bit() }
func (s TriggerSet) Without(t Trigger) TriggerSet  { return s &^ t.Bit() }
func (s TriggerSet) Union(o TriggerSet) TriggerSet { return s | o }
func (s TriggerSet) Intersect(o TriggerSet) TriggerSet {
	return s & o
}
func (s TriggerSet) IsEmpty() bool { return s == 0 }
func (s TriggerSet) Len() int      { return bits.OnesCount64(uint64(s)) }

// Storage drops the alias and invalid bits, and anything above them.
func (s TriggerSet) Storage() TriggerSet { return s & StorageTriggers }

// ExpandAliases adds size and position when geometry is present. The
// returned flag is true when either member was already set alongside the
// alias. Expanding an expanded set changes nothing.
func (s TriggerSet) ExpandAliases() (TriggerSet, bool) {
	if !s.Contains(TriggerGeometry) {
		return s, false
	}
	return s | geometryMembers, s&geometryMembers != 0
}

// All yields the members of s in ascending order.
func (s TriggerSet) All() iter.Seq[Trigger] {
	return func(yield func(Trigger) bool) {
		for rest := uint64(s); rest != 0; rest &= rest - 1 {
			if !yield(Trigger(bits.TrailingZeros64(rest))) {
				return
			}
		}
	}
}

// Names lists the member names in ascending order.
func (s TriggerSet) Names() []string {
	names := make([]string, 0, s.Len())
	for t := range s.All() {
		names = append(names, t.String())
	}
	return names
}
