//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func installLoginItem(item LoginItem) error {
	return reg("add", registryRunKey, "/v", item.Name, "/t", "REG_SZ", "/d", commandLine(item), "/f")
}

func removeLoginItem(name string) error {
	err := reg("delete", registryRunKey, "/v", name, "/f")
	if err != nil && strings.Contains(err.Error(), "unable to find") {
		return nil
	}
	return err
}

func reg(args ...string) error {
	output, err := exec.Command("reg", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg %s: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}
