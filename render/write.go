package render

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// Write stores text at path. An existing file is left alone unless
// overwrite is set; the result reports whether the file was written.
// Text goes to a temporary file first so a failed write leaves no
// partial output behind.
func Write(text, path string, overwrite bool) (bool, error) {
	if _, err := os.Stat(path); err == nil && !overwrite {
		log.Infof("skipping %s: file exists and overwrite is off", path)
		return false, nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, errors.Wrapf(err, "failed to stat %s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, errors.Wrapf(err, "failed to create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return false, errors.Wrapf(err, "failed to create temporary file in %s", dir)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return false, errors.Wrapf(err, "failed to write %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return false, errors.Wrapf(err, "failed to write %s", tmp.Name())
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return false, errors.Wrapf(err, "failed to chmod %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, errors.Wrapf(err, "failed to move output into %s", path)
	}
	log.Infof("wrote %s", path)
	return true, nil
}
