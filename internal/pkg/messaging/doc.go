// Package messaging provides a small broker-agnostic API for publishing events
// and consuming them in consumer groups.
//
// Drivers exist for Kafka, NATS, NSQ, Google Pub/Sub and an in-process memory
// broker. A Handler returning nil acknowledges the message; a non-nil error
// asks the broker to redeliver it where the broker supports that.
package messaging
