// Package roster provides the roster table model and the history bookkeeping
// used by coffee roulette.
//
// # Overview
//
// A roster is a flat table with one row per participant. Two columns are
// mandatory: Name (the join key across rounds) and Branch (a free-form tag
// such as a department). Every completed round adds one more column whose
// cells hold the group label each participant was given in that round.
//
// The table is the only long-lived entity. Everything else is derived from
// it on demand:
//
//   - Round columns are recognised by name: a fixed prefix followed by a
//     purely numeric suffix (Group_1, Group_2, ...).
//   - The pairing-avoidance set is rebuilt from all round columns on every
//     call to ExtractPairings. It is never cached or persisted.
//   - The next round column is prefix + (highest existing suffix + 1).
//
// # Usage Example
//
//	t, err := roster.ReadCSV(f)
//	if err != nil {
//		return err
//	}
//	if err := t.Validate(); err != nil {
//		return err
//	}
//
//	avoid := roster.ExtractPairings(t, roster.DefaultRoundPrefix)
//	next := roster.NextRoundName(t, roster.DefaultRoundPrefix)
//	// next = "Group_3" when Group_1 and Group_2 exist
//
// # Null Values
//
// The empty string is the missing value. Empty cells in a round column form
// no group and contribute no pairings; rows that could not be assigned in a
// draw get an empty cell in the new column.
package roster
