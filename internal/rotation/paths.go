package rotation

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths resolves the per-interface files of the run-directory protocol.
// Injecting the run directory keeps tests off the global filesystem.
type Paths struct {
	RunDir string
}

// StatusFile is the world-readable status snapshot for iface.
func (p Paths) StatusFile(iface string) string {
	return filepath.Join(p.RunDir, fmt.Sprintf("status-%s.json", iface))
}

// LegacyStatusFile is the unnamed status file older readers fall back to
// for the primary interface.
func (p Paths) LegacyStatusFile() string {
	return filepath.Join(p.RunDir, "status.json")
}

// CredsFile is the owner-only credentials file for iface.
func (p Paths) CredsFile(iface string) string {
	return filepath.Join(p.RunDir, fmt.Sprintf("current-%s.json", iface))
}

// TriggerFile is the manual-rotation marker for iface. Its presence is the
// request; the engine consumes it by deletion.
func (p Paths) TriggerFile(iface string) string {
	return filepath.Join(p.RunDir, fmt.Sprintf("trigger-rotate-%s", iface))
}

// writeFileAtomic replaces path with data via a same-directory temp file and
// rename, so concurrent readers observe either the previous or the new
// complete content, never a partial write.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
