package store

import "fmt"

// Redis key pattern helpers
//
// All Redis keys and Pub/Sub channels are namespaced so several teams can
// share one Redis server.
//
// Key pattern: roulette:{namespace}:roster:{id}
// Channel pattern: roulette:{namespace}:{event_type}_events

// RosterKey returns the Redis key for a roster hash.
// Pattern: roulette:{namespace}:roster:{id}
func RosterKey(namespace, id string) string {
	return fmt.Sprintf("roulette:%s:roster:%s", namespace, id)
}

// RosterKeyPrefix returns the prefix shared by every roster key.
// Pattern: roulette:{namespace}:roster:
func RosterKeyPrefix(namespace string) string {
	return fmt.Sprintf("roulette:%s:roster:", namespace)
}

// RoundsKey returns the Redis key for a roster's round log ZSET.
// Members are round column names scored by round number.
// Pattern: roulette:{namespace}:roster:{id}:rounds
func RoundsKey(namespace, id string) string {
	return fmt.Sprintf("roulette:%s:roster:%s:rounds", namespace, id)
}

// RoundEventsChannel returns the Pub/Sub channel name for round events.
// Pattern: roulette:{namespace}:round_events
func RoundEventsChannel(namespace string) string {
	return fmt.Sprintf("roulette:%s:round_events", namespace)
}
