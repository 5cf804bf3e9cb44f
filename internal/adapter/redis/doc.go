// Package redis implements the Redis-backed config store.
//
// ConfigStore keeps the published commit identifier under a namespaced key. The client
// carries a MetricsHook and a fail-fast CircuitBreakerHook.
package redis
