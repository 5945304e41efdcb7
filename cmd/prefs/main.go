// Command prefs exports household shopping preferences to a JSON file and
// imports them back, so a preference set can move between environments.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"larder/internal/config"
	"larder/internal/db"
	"larder/internal/preferences"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "skipping .env file: %v\n", err)
	}

	mode := ""
	path := "preferences.json"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}
	if len(os.Args) > 2 {
		path = os.Args[2]
	}

	if err := run(mode, path); err != nil {
		fmt.Fprintf(os.Stderr, "prefs %s failed: %v\n", mode, err)
		os.Exit(1)
	}
}

func run(mode, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("file path must not be empty")
	}

	switch mode {
	case "export", "import":
	default:
		return fmt.Errorf("usage: prefs [export|import] [file]")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(database); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	ctx := context.Background()
	if mode == "export" {
		return exportSnapshot(ctx, database, path)
	}
	return importSnapshot(ctx, database, path)
}

func exportSnapshot(ctx context.Context, database *gorm.DB, path string) error {
	snapshot, err := preferences.NewStore(database).Export(ctx)
	if err != nil {
		return fmt.Errorf("collect preferences: %w", err)
	}

	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	payload = append(payload, '\n')

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Exported %d substitutions, %d organic preferences, %d defaults, %d dietary restrictions to %s\n",
		len(snapshot.Substitutions), len(snapshot.OrganicPreferences), len(snapshot.ShoppingDefaults), len(snapshot.DietaryRestrictions), filepath.Base(path))
	return nil
}

func importSnapshot(ctx context.Context, database *gorm.DB, path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot preferences.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	if err := preferences.NewStore(database).Import(ctx, &snapshot); err != nil {
		return fmt.Errorf("apply preferences: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Imported preferences from %s\n", filepath.Base(path))
	return nil
}
