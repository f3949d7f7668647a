package redsession

import "github.com/valkode/redsession/internal"

// privateKey is the hardened storage key: the prefix plus a versioned
// one-way derivation of the identifier. Unguessable from the value disclosed
// to the client.
func (s *Store) privateKey(id string) string {
	return s.cfg.Prefix + internal.PrivateID(id)
}

// publicKey is the legacy storage key: the prefix plus the raw identifier.
// It equals the value the client holds, which is why migrating off it is
// worth the dual-key machinery.
func (s *Store) publicKey(id string) string {
	return s.cfg.Prefix + id
}

// readKeys returns the keys Find consults, in migration-priority order:
// private form first, legacy public form as fallback. A read stops at the
// first key holding data. An absent identifier resolves to no keys.
func (s *Store) readKeys(id string) []string {
	if id == "" {
		return nil
	}

	keys := make([]string, 0, 2)
	if s.cfg.Migration.ReadPrivate {
		keys = append(keys, s.privateKey(id))
	}
	if s.cfg.Migration.ReadPublic {
		keys = append(keys, s.publicKey(id))
	}
	return keys
}

// writeKeys returns the keys Write targets, private form first. The first
// key's outcome is authoritative for the overall write result.
func (s *Store) writeKeys(id string) []string {
	if id == "" {
		return nil
	}

	keys := make([]string, 0, 2)
	if s.cfg.Migration.WritePrivate {
		keys = append(keys, s.privateKey(id))
	}
	if s.cfg.Migration.WritePublic {
		keys = append(keys, s.publicKey(id))
	}
	return keys
}

// cleanupKeys returns every key implicated by either the read or the write
// flags. Deliberately broader than writeKeys: a record may sit under a key
// written during an earlier migration phase whose flag has since left the
// write set, and deletion must still reach it.
func (s *Store) cleanupKeys(id string) []string {
	if id == "" {
		return nil
	}

	keys := make([]string, 0, 2)
	if s.cfg.Migration.ReadPrivate || s.cfg.Migration.WritePrivate {
		keys = append(keys, s.privateKey(id))
	}
	if s.cfg.Migration.ReadPublic || s.cfg.Migration.WritePublic {
		keys = append(keys, s.publicKey(id))
	}
	return keys
}
