package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ogurasousui/hrms-lite/internal/platform/config"
)

const defaultConfigPath = "assets/local.yaml"

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or "+defaultConfigPath+")")
		migrationsDir = flag.String("dir", "", "directory containing migration files (defaults to migrations.dir / HRMS_MIGRATIONS_DIR)")
	)
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfg, err := config.Load(effectiveConfigPath(*configPath, os.Getenv))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	dir := effectiveMigrationsDir(*migrationsDir, cfg.Migrations)
	sourceURL, err := fileSourceURL(dir)
	if err != nil {
		log.Fatalf("failed to resolve migrations dir: %v", err)
	}

	m, err := migrate.New(sourceURL, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}
	defer m.Close()

	if err := runMigration(m, action); err != nil {
		log.Fatalf("migration %s on %s failed: %v", action, dir, err)
	}

	log.Printf("migration %s on %s completed", action, dir)
}

func effectiveConfigPath(flagValue string, getenv func(string) string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return defaultConfigPath
}

// effectiveMigrationsDir はフラグを優先し、未指定なら設定ファイルと環境変数で決まった値を使います。
func effectiveMigrationsDir(flagValue string, cfg config.MigrationsConfig) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.Dir
}

func fileSourceURL(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve path for %s: %w", dir, err)
	}
	return "file://" + filepath.ToSlash(absDir), nil
}

// migrator は migrate.Migrate のうち CLI が使う操作です。
type migrator interface {
	Up() error
	Down() error
	Drop() error
	Version() (uint, bool, error)
}

func runMigration(m migrator, action string) error {
	switch action {
	case "up":
		return ignoreNoChange(m.Up())
	case "down":
		return ignoreNoChange(m.Down())
	case "drop":
		return m.Drop()
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Printf("no migration applied")
			return nil
		}
		if err != nil {
			return err
		}
		log.Printf("version=%d dirty=%t", version, dirty)
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
