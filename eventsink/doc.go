/*
Package eventsink persists the events emitted by committed blocks and forwards
them to a message broker.

Events of a block are appended to a sqlite backed outbox before the block is
committed. A Forwarder reads the outbox in insertion order and hands every
record to a Publisher (kafka or amqp). A record is marked published only after
the broker accepted it, so delivery is at least once. Record ids are derived
from the block position of the event, replaying a block never creates
duplicates in the outbox.
*/
package eventsink
