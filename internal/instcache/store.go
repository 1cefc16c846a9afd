package instcache

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Save writes m to path. The file is replaced atomically: readers see the
// old manifest or the new one, never a partial write.
func Save(path string, m *Manifest) (err error) {
	if err := m.count(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*.mp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(m); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Load reads the manifest at path. A missing file yields an empty manifest
// and false.
func Load(path string) (*Manifest, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Manifest{Schema: SchemaVersion}, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var m Manifest
	if err := msgpack.NewDecoder(f).Decode(&m); err != nil {
		return nil, false, err
	}
	return &m, true, nil
}

// Record merges everything d has resolved into the manifest at path. A
// manifest written with another schema is replaced.
func Record(path string, d Resolved) (*Manifest, error) {
	current, _, err := Load(path)
	if err != nil {
		return nil, err
	}
	if current.Schema != SchemaVersion {
		current = &Manifest{Schema: SchemaVersion}
	}
	fresh, err := FromDomain(d)
	if err != nil {
		return nil, err
	}
	if err := current.Merge(fresh); err != nil {
		return nil, err
	}
	if err := Save(path, current); err != nil {
		return nil, err
	}
	return current, nil
}
