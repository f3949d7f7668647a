package redsession

import (
	"reflect"
	"testing"
)

func TestKeyResolutionFlagMatrix(t *testing.T) {
	const id = "tok-1"

	type forms struct {
		read    []string // "private"/"public", in expected order
		write   []string
		cleanup []string
	}

	cases := []struct {
		name      string
		migration MigrationConfig
		want      forms
	}{
		{
			name:      "private only",
			migration: MigrationConfig{ReadPrivate: true, WritePrivate: true},
			want: forms{
				read:    []string{"private"},
				write:   []string{"private"},
				cleanup: []string{"private"},
			},
		},
		{
			name:      "public only",
			migration: MigrationConfig{ReadPublic: true, WritePublic: true},
			want: forms{
				read:    []string{"public"},
				write:   []string{"public"},
				cleanup: []string{"public"},
			},
		},
		{
			name:      "read both write private",
			migration: MigrationConfig{ReadPrivate: true, ReadPublic: true, WritePrivate: true},
			want: forms{
				read:    []string{"private", "public"},
				write:   []string{"private"},
				cleanup: []string{"private", "public"},
			},
		},
		{
			name:      "read private write both",
			migration: MigrationConfig{ReadPrivate: true, WritePrivate: true, WritePublic: true},
			want: forms{
				read:    []string{"private"},
				write:   []string{"private", "public"},
				cleanup: []string{"private", "public"},
			},
		},
		{
			name:      "everything enabled",
			migration: MigrationConfig{ReadPrivate: true, ReadPublic: true, WritePrivate: true, WritePublic: true},
			want: forms{
				read:    []string{"private", "public"},
				write:   []string{"private", "public"},
				cleanup: []string{"private", "public"},
			},
		},
		{
			name:      "disjoint read public write private",
			migration: MigrationConfig{ReadPublic: true, WritePrivate: true},
			want: forms{
				read:    []string{"public"},
				write:   []string{"private"},
				cleanup: []string{"private", "public"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, _, _ := newStoreTest(t, func(cfg *Config) {
				cfg.Migration = tc.migration
			})

			expand := func(names []string) []string {
				keys := make([]string, 0, len(names))
				for _, n := range names {
					if n == "private" {
						keys = append(keys, store.privateKey(id))
					} else {
						keys = append(keys, store.publicKey(id))
					}
				}
				return keys
			}

			if got, want := store.readKeys(id), expand(tc.want.read); !reflect.DeepEqual(got, want) {
				t.Fatalf("readKeys = %v, want %v", got, want)
			}
			if got, want := store.writeKeys(id), expand(tc.want.write); !reflect.DeepEqual(got, want) {
				t.Fatalf("writeKeys = %v, want %v", got, want)
			}
			if got, want := store.cleanupKeys(id), expand(tc.want.cleanup); !reflect.DeepEqual(got, want) {
				t.Fatalf("cleanupKeys = %v, want %v", got, want)
			}
		})
	}
}

func TestKeyResolutionAbsentIdentifier(t *testing.T) {
	store, _, _ := newStoreTest(t, nil)

	if keys := store.readKeys(""); keys != nil {
		t.Fatalf("readKeys(\"\") = %v, want nil", keys)
	}
	if keys := store.writeKeys(""); keys != nil {
		t.Fatalf("writeKeys(\"\") = %v, want nil", keys)
	}
	if keys := store.cleanupKeys(""); keys != nil {
		t.Fatalf("cleanupKeys(\"\") = %v, want nil", keys)
	}
}

func TestKeyFormsShareOnlyThePrefix(t *testing.T) {
	store, _, _ := newStoreTest(t, nil)
	const id = "tok-1"

	private := store.privateKey(id)
	public := store.publicKey(id)

	if private == public {
		t.Fatal("key forms must differ")
	}
	if public != "app:session:"+id {
		t.Fatalf("public form = %q, want prefix + raw identifier", public)
	}
	if len(private) <= len("app:session:") {
		t.Fatalf("private form %q missing derivation", private)
	}
}
