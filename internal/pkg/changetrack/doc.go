// Package changetrack keeps property-level snapshots of caller-owned objects and
// reports which of them have drifted from their last accepted state.
//
// # Model
//
// A Tracker maps each tracked item (compared by identity, so T is usually a
// pointer type) to one snapshot per tracked property. Snapshots are taken when
// the item is added and again whenever its changes are accepted. Between those
// points the caller mutates the item directly; the tracker never copies or owns
// the item itself.
//
//   - IsDirty / DirtyProperties / DirtyItems compare live values to the snapshot.
//   - AcceptChanges adopts the live values as the new baseline.
//   - RejectChanges writes the baseline back onto the item.
//
// Properties are described by Property descriptors, either declared explicitly
// with Field and CollectionField (usually collected into a Schema) or derived
// from struct fields with PropertiesOf.
//
// # Collections
//
// Collection-valued properties snapshot their elements rather than the
// container. Containers implementing List, Go slices and Go arrays compare in
// order; containers implementing only Collection compare as multisets. By
// default the container instance is tracked too, so swapping in a different
// container with equal contents still counts as a change; WithoutInstance turns
// that off.
//
// # Observers
//
// OnBeforeAccept and OnBeforeReject register callbacks that run, in
// registration order, once per dirty item before its snapshots are touched. A
// callback receives a Transition and may cancel the item or narrow the set of
// properties that will be accepted or restored.
//
// A Tracker is not safe for concurrent use.
package changetrack
