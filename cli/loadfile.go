// Package cli wires the RaptorScript core engine to a command-line
// frontend: extension-gated file loading plus a cobra-based command.
package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/raptor-lang/Raptortime/vmlog"
)

// acceptableExtensions are the only input-file suffixes the runtime
// will load, matching the original toolchain's .crap/.crapt artifacts.
var acceptableExtensions = []string{".crap", ".crapt"}

var errBadExtension = errors.New("input file has an unrecognized extension")

var log = vmlog.Component("cli")

// shouldOpen reports whether path is a regular file with an acceptable
// extension.
func shouldOpen(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, errors.WithStack(err)
	}
	if info.IsDir() {
		return false, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, accepted := range acceptableExtensions {
		if ext == accepted {
			return true, nil
		}
	}
	return false, nil
}

// loadFile validates path's extension and reads its full contents.
func loadFile(path string, debug bool) ([]byte, error) {
	ok, err := shouldOpen(path)
	if err != nil {
		return nil, errors.Wrapf(err, "checking input file %s", path)
	}
	if !ok {
		return nil, errors.Wrapf(errBadExtension, "%s (accepted: %s)", path, strings.Join(acceptableExtensions, ", "))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading input file %s", path)
	}
	if debug {
		log.Debug("read %d bytes from %s", len(data), path)
	}
	return data, nil
}
