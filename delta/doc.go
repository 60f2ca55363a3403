// Package delta provides Buffer, an ordered sequence that remembers how it
// changed since the last synchronization point.
//
// A consumer mirroring the sequence elsewhere (a GPU texture, a remote
// replica) reads the four counters returned by Buffer.Delta, applies only the
// changed elements, then calls Buffer.Reset. The sequence is always
// partitioned into three zones:
//
//	[0, PushedFront)                      unsynced front
//	[PushedFront, Len()-PushedBack)       synced middle
//	[Len()-PushedBack, Len())             unsynced back
//
// PoppedFront and PoppedBack count elements removed from the synced middle
// since the last Reset. Elements can only leave the synced middle from its
// ends; a Splice that would delete or insert strictly inside it fails with
// an error wrapping ErrOutOfRange and leaves the buffer unchanged.
package delta
