package dataset

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Publish copies the document at src into libDir, creating libDir when it
// does not exist. It returns the path of the copy.
func Publish(src, libDir string) (string, error) {
	_, statErr := os.Stat(libDir)
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		return "", eris.Wrap(err, "dataset: create library dir")
	}
	if os.IsNotExist(statErr) {
		zap.L().Info("dataset: created library dir", zap.String("dir", libDir))
	}

	in, err := os.Open(src)
	if err != nil {
		return "", eris.Wrap(err, "dataset: open source")
	}
	defer in.Close() //nolint:errcheck

	target := filepath.Join(libDir, filepath.Base(src))
	out, err := os.Create(target)
	if err != nil {
		return "", eris.Wrap(err, "dataset: create target")
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return "", eris.Wrap(err, "dataset: copy")
	}
	if err := out.Close(); err != nil {
		return "", eris.Wrap(err, "dataset: close target")
	}

	return target, nil
}
