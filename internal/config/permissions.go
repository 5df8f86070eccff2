// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

//go:build !windows

package config

import (
	"io/fs"
	"log/slog"
	"os"
)

// WarnInsecurePermissions logs a warning when the config file is readable by
// group or others. Store passwords and bearer tokens live in this file.
func WarnInsecurePermissions(path string) {
	if path == "" {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		slog.Debug("could not stat config file for permission check", "path", path, "error", err)
		return
	}

	const groupOrOtherRead fs.FileMode = 0o044

	if perm := info.Mode().Perm(); perm&groupOrOtherRead != 0 {
		slog.Warn("config file is readable by other users and may expose store credentials",
			"path", path,
			"mode", perm,
			"recommended", "0600",
		)
	}
}
