package redis

// Redis key naming conventions for outcall tracking data.
// All keys are prefixed with "outcall:" to avoid collisions.

const keyPrefix = "outcall:"

// recordKey returns the key holding one endpoint's encoded history:
// outcall:req:{method}:{path}
func recordKey(method, path string) string {
	return keyPrefix + "req:" + method + ":" + path
}

// recordKeysKey is the Set tracking all record keys for enumeration.
const recordKeysKey = keyPrefix + "req_keys"
