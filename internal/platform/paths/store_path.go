package paths

import "path/filepath"

func StoreFilePath() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workbench.db"), nil
}
