// Package work provides the shared collections coordinating the download
// pipeline: a joinable work queue and a concurrent result sink.
//
// # Queue
//
// Queue delivers each enqueued item to exactly one consumer. Dequeueing is
// non-blocking: the queue is fully populated before consumers start, so a
// consumer that sees an empty queue is done. Consumers call Acknowledge
// after producing a terminal result for a dequeued item; Join blocks until
// every enqueued item has been acknowledged.
//
//	q := work.NewQueue[Item]()
//	q.Enqueue(item)            // producer, before consumers start
//
//	item, ok := q.TryDequeue() // consumer
//	// ... process item ...
//	q.Acknowledge()
//
//	q.Join()                   // coordinator
//
// # Sink
//
// Sink is an append-only collector safe for concurrent Record calls.
// Drain is called once, after Join has returned and no producer is still
// writing. Results carry no ordering guarantee.
package work
