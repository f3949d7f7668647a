package redsession

import "errors"

var (
	// ErrStoreUnavailable wraps connectivity failures passed to the OnDown
	// handler. Store methods never return it; hosts that want hard failures
	// can inspect it inside their handler and panic.
	ErrStoreUnavailable = errors.New("session store unavailable")
	// ErrRecordCorrupt wraps decode failures passed to the OnDecodeError
	// handler after the corrupt record has been dropped from every
	// resolvable key.
	ErrRecordCorrupt = errors.New("session record corrupt")
)
