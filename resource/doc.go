// Package resource provides the handle table behind runtime.Gen.
//
// The runtime never hands raw PARI pointers to callers. Each object is stored
// in a table under its PARI type name and callers hold a Handle. Every lookup
// checks a generation counter, so a handle that outlived its value (dropped,
// or the table closed) fails instead of reaching freed stack memory.
//
//	table := resource.NewTable()
//	h := table.Insert("t_INT", obj)
//	value, ok := table.Get(h)
//	kind, ok := table.Kind(h) // "t_INT"
//	table.Counts()            // map[t_INT:1]
//	table.Remove(h)
//
// # Observers
//
// Observers receive EventCreated on Insert and EventDropped on Remove.
// The runtime subscribes one per scope to collect the handles created inside
// it, then drops them with RemoveAll when the scope ends.
//
// Close invalidates every handle at once without notifying observers.
package resource
