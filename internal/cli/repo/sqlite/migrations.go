package sqlite

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// Миграции клиента: файлы NNN_*.sql применяются по порядку имён, каждая идемпотентна.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

func migrations() ([]string, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		b, err := migrationsFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		out = append(out, string(b))
	}
	return out, nil
}
