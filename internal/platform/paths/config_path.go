package paths

import (
	"os"
	"path/filepath"
)

const AppName = "bip-connector"

// baseDir is the per-user application directory. The bridge runs next to
// the user's browser, so everything lives under the user config dir, not
// machine-wide.
func baseDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

func ConfigFilePath() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
