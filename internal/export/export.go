// Package export opens fitness-tracker export bundles. A bundle is
// either an extracted directory or a zip archive; zip input is
// unpacked to a temporary directory that lives until Close.
package export

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Bundle is an opened export rooted at a real directory on disk.
type Bundle struct {
	// Root is the export root: the directory holding files/ and
	// database/.
	Root string

	tempDir string
}

// Open opens a bundle at path. Directories are used in place; zip
// archives are extracted first. The caller must Close the bundle to
// release any extracted copy.
func Open(path string) (*Bundle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening export %s: %w", path, err)
	}

	if info.IsDir() {
		return &Bundle{Root: descend(path)}, nil
	}
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return openZip(path)
	}
	return nil, fmt.Errorf("export %s is neither a directory nor a zip archive", path)
}

// Close removes the extracted copy, if any.
func (b *Bundle) Close() error {
	if b.tempDir == "" {
		return nil
	}
	return os.RemoveAll(b.tempDir)
}

// FilesDir returns the side-file directory of the bundle.
func (b *Bundle) FilesDir() string {
	return filepath.Join(b.Root, "files")
}

// DatabasePath locates the export database inside the bundle.
func (b *Bundle) DatabasePath() (string, bool) {
	for _, rel := range []string{
		filepath.Join("database", "Gadgetbridge"),
		"Gadgetbridge",
	} {
		p := filepath.Join(b.Root, rel)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

// TrackPath maps a device-side track reference to the bundle file
// holding it. Only the basename of the reference is meaningful; the
// device records absolute paths from its own filesystem.
func (b *Bundle) TrackPath(deviceRef string) string {
	return filepath.Join(b.FilesDir(), baseOf(deviceRef))
}

// RawDetailsPath maps a device-side raw-details reference to the
// bundle file holding it.
func (b *Bundle) RawDetailsPath(deviceRef string) string {
	return filepath.Join(b.FilesDir(), "rawDetails", baseOf(deviceRef))
}

// baseOf takes the last path segment of a device reference, which may
// use forward slashes regardless of the host platform.
func baseOf(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		ref = ref[i+1:]
	}
	return filepath.Base(ref)
}

// descend steps into a single wrapping directory when the export
// content sits one level down, as archives unpacked by hand often do.
func descend(root string) string {
	if looksLikeExport(root) {
		return root
	}
	entries, err := os.ReadDir(root)
	if err != nil || len(entries) != 1 || !entries[0].IsDir() {
		return root
	}
	inner := filepath.Join(root, entries[0].Name())
	if looksLikeExport(inner) {
		return inner
	}
	return root
}

func looksLikeExport(dir string) bool {
	for _, rel := range []string{
		"files",
		"database",
		"gadgetbridge.json",
		filepath.Join("database", "Gadgetbridge"),
	} {
		if _, err := os.Stat(filepath.Join(dir, rel)); err == nil {
			return true
		}
	}
	return false
}

func openZip(path string) (*Bundle, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer r.Close()

	tempDir, err := os.MkdirTemp("", "fitbridge-export-*")
	if err != nil {
		return nil, fmt.Errorf("creating extraction dir: %w", err)
	}

	for _, f := range r.File {
		if err := extractFile(tempDir, f); err != nil {
			os.RemoveAll(tempDir)
			return nil, err
		}
	}

	return &Bundle{Root: descend(tempDir), tempDir: tempDir}, nil
}

func extractFile(dest string, f *zip.File) error {
	target, err := safeJoin(dest, f.Name)
	if err != nil {
		return err
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Name, err)
	}

	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("reading archive entry %s: %w", f.Name, err)
	}
	defer src.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	return out.Close()
}

// safeJoin joins an archive entry name under dest, rejecting entries
// that would escape it.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	if target != dest && !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %s escapes extraction dir", name)
	}
	return target, nil
}
