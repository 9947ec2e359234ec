package dashboard

import (
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

const sharedDataFile = "shared_data.json"

// ExportJSON writes the whole table to <dir>/shared_data.json via a temp file
// rename, so the dashboard never reads a half-written file.
func (t *Table) ExportJSON(dir string) error {
	snap := t.Snapshot()

	data, err := sonic.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal shared data")
	}

	path := filepath.Join(dir, sharedDataFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "write shared data")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "rename shared data")
	}
	return nil
}
