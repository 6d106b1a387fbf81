// Package resource provides opaque handle management for values owned
// on behalf of foreign callers.
//
// Callers across a foreign boundary cannot hold Go pointers, so the boundary
// layer stores each block in a Table and hands out an integer Handle instead.
//
// # Handle Table
//
// The Table maps integer handles to Go values:
//
//	table := resource.NewTable[block.Block]()
//
//	// Insert a value, get a handle
//	h, err := table.Insert(b)
//
//	// Retrieve value by handle
//	b, ok := table.Get(h)
//
//	// Remove and get value
//	b, ok := table.Remove(h)
//
// Handle 0 is never issued. A removed handle stays invalid even after its
// slot is reused, until the slot's 8-bit generation wraps.
//
// # Observers
//
// Register observers to track lifecycle events:
//
//	table.Subscribe(resource.ObserverFunc[block.Block](func(e resource.Event[block.Block]) {
//	    log.Printf("block %d %s", e.Handle, e.Type)
//	}))
//
// # Memory Management
//
// Values are not garbage collected while in the table. The owner must call
// Remove for each handle, or Close to release everything at once.
package resource
