package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/multierr"
)

const versionLayout = "20060102150405"

var (
	fileNameRe   = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)
	nameUnsafeRe = regexp.MustCompile(`[^a-z0-9_]+`)
	nowFunc      = time.Now
)

const migrationTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %[1]s
-- +goose StatementEnd
`

type migrationFile struct {
	version string
	name    string
	path    string
}

func listMigrations(dir string) ([]migrationFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}
	files := make([]migrationFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		files = append(files, migrationFile{name: e.Name(), path: filepath.Join(dir, e.Name())})
		if m := fileNameRe.FindStringSubmatch(e.Name()); m != nil {
			files[len(files)-1].version = m[1]
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}

// ValidateDir checks every migration in dir for a well-formed name, a unique
// version and balanced goose annotations. All problems are reported at once.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	files, err := listMigrations(dir)
	if err != nil {
		return err
	}

	var errs error
	seen := map[string]string{}
	for _, f := range files {
		if f.version == "" {
			errs = multierr.Append(errs, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", f.name))
			continue
		}
		if prev, ok := seen[f.version]; ok {
			errs = multierr.Append(errs, fmt.Errorf("duplicate migration version %s in %q and %q", f.version, prev, f.name))
		}
		seen[f.version] = f.name
		errs = multierr.Append(errs, checkAnnotations(f))
	}
	return errs
}

func checkAnnotations(f migrationFile) error {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read file %q: %w", f.path, err)
	}
	txt := string(raw)

	up := strings.Index(txt, "-- +goose Up")
	down := strings.Index(txt, "-- +goose Down")
	switch {
	case up < 0:
		return fmt.Errorf("migration %q missing \"-- +goose Up\"", f.name)
	case down < 0:
		return fmt.Errorf("migration %q missing \"-- +goose Down\"", f.name)
	case down < up:
		return fmt.Errorf("migration %q declares Down before Up", f.name)
	}
	begins := strings.Count(txt, "-- +goose StatementBegin")
	ends := strings.Count(txt, "-- +goose StatementEnd")
	if begins != ends {
		return fmt.Errorf("migration %q has %d StatementBegin and %d StatementEnd markers", f.name, begins, ends)
	}
	return nil
}

// CreateSQLMigration writes an empty goose migration named
// <YYYYMMDDHHMMSS>_<name>.sql. The version is bumped past the newest file in
// dir so two migrations created in the same second never collide.
func CreateSQLMigration(dir string, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	safe := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	safe = strings.Trim(nameUnsafeRe.ReplaceAllString(safe, "_"), "_")
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	files, err := listMigrations(dir)
	if err != nil {
		return "", err
	}
	stamp := nowFunc().UTC().Truncate(time.Second)
	for _, f := range files {
		if f.version == "" {
			continue
		}
		existing, err := time.Parse(versionLayout, f.version)
		if err == nil && !existing.Before(stamp) {
			stamp = existing.Add(time.Second)
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", stamp.Format(versionLayout), safe))
	if err := os.WriteFile(path, []byte(fmt.Sprintf(migrationTemplate, safe)), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", path, err)
	}
	return path, nil
}
