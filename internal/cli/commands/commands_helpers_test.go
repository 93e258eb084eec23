package commands

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"JournalVault/internal/config"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы артефакты (база, лог) создавались в temp. Возвращает офлайн-конфиг.
func withTempConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return &config.Config{
		ClientDBPath: filepath.Join(dir, "client.sqlite"),
		ClientStore:  config.StoreSQLite,
		Offline:      true,
		SyncDebounce: time.Minute,
		HTTPTimeout:  time.Second,
	}
}

// withInput подменяет In на время теста.
func withInput(t *testing.T, input string) {
	t.Helper()
	old := In
	In = strings.NewReader(input)
	t.Cleanup(func() { In = old })
}
