package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/winrule/internal/ir"
	"github.com/roach88/winrule/internal/testutil"
)

func TestBindFillsFreeCells(t *testing.T) {
	a := newAnimations(t)
	var table ir.AnimationTable
	s := ir.NewScript(nil)

	ok := a.Bind(&table, ir.SetOf(ir.TriggerOpen, ir.TriggerShow), ir.SetOf(ir.TriggerHide), s, 3)
	require.True(t, ok)
	assert.Same(t, s, table[ir.TriggerOpen])
	assert.Same(t, s, table[ir.TriggerShow])
	assert.Equal(t, ir.SetOf(ir.TriggerOpen, ir.TriggerShow), table.Occupied())
	assert.Equal(t, ir.SetOf(ir.TriggerHide), s.Suppressions)
	assert.Equal(t, []*ir.Script{s}, a.Registry().Scripts())
	assert.False(t, s.Released())
}

func TestBindPartialKeepsFirstWriter(t *testing.T) {
	logs := testutil.CaptureLogs(t)
	a := newAnimations(t)
	first := ir.NewScript(nil)
	table := ir.AnimationTable{ir.TriggerOpen: first}

	s := ir.NewScript(nil)
	ok := a.Bind(&table, ir.SetOf(ir.TriggerOpen, ir.TriggerClose), 0, s, 7)
	require.True(t, ok)
	assert.Same(t, first, table[ir.TriggerOpen])
	assert.Same(t, s, table[ir.TriggerClose])
	assert.Equal(t, 1, a.Registry().Len())

	dups := logs.With("event", "dup_trigger_binding")
	require.Len(t, dups, 1)
	assert.Equal(t, "open", dups[0]["trigger"])
	assert.Equal(t, float64(7), dups[0]["line"])
	assert.Equal(t, "warn", dups[0]["level"])
}

func TestBindAllOccupiedReleases(t *testing.T) {
	logs := testutil.CaptureLogs(t)
	a := newAnimations(t)
	var table ir.AnimationTable
	for i := range table {
		table[i] = ir.NewScript(nil)
	}
	before := table

	s := ir.NewScript(nil)
	ok := a.Bind(&table, ir.SetOf(ir.TriggerOpen, ir.TriggerClose), 0, s, 1)
	assert.False(t, ok)
	assert.Equal(t, before, table)
	assert.Equal(t, 0, a.Registry().Len())
	assert.True(t, s.Released())
	assert.Len(t, logs.With("event", "dup_trigger_binding"), 2)
}

func TestBindIgnoresNonStorageTriggers(t *testing.T) {
	a := newAnimations(t)
	var table ir.AnimationTable

	s := ir.NewScript(nil)
	ok := a.Bind(&table, ir.SetOf(ir.TriggerGeometry, ir.TriggerInvalid, ir.TriggerSize), 0, s, 1)
	require.True(t, ok)
	assert.Equal(t, ir.SetOf(ir.TriggerSize), table.Occupied())

	// Only non-storage bits: nothing to bind.
	other := ir.NewScript(nil)
	assert.False(t, a.Bind(&table, ir.SetOf(ir.TriggerGeometry), 0, other, 1))
	assert.True(t, other.Released())
}

func TestBindGeneratedDuplicatesLogAtDebug(t *testing.T) {
	logs := testutil.CaptureLogs(t)
	a := newAnimations(t)
	table := ir.AnimationTable{ir.TriggerShow: ir.NewScript(nil)}

	s := ir.NewScript(nil)
	s.IsGenerated = true
	a.Bind(&table, ir.SetOf(ir.TriggerShow), 0, s, 0)

	dups := logs.With("event", "dup_trigger_binding")
	require.Len(t, dups, 1)
	assert.Equal(t, "debug", dups[0]["level"])
}
