package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/dropDatabas3/zonegate/internal/config"
	migrations "github.com/dropDatabas3/zonegate/migrations/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional, env vars override)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, continuing with system environment: %v", err)
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("config load: %v", err)
		}
	} else {
		cfg = config.FromEnv()
	}

	if cfg.Storage.DSN == "" {
		log.Fatal("storage DSN is required (STORAGE_DSN or storage.dsn)")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
	if err != nil {
		log.Fatalf("pgxpool: %v", err)
	}
	defer pool.Close()

	files, err := listEmbedded()
	if err != nil {
		log.Fatalf("list migrations: %v", err)
	}
	if len(files) == 0 {
		log.Println("no migrations found, nothing to do")
		return
	}

	log.Printf("applying %d migration(s)...", len(files))
	for _, f := range files {
		if err := execEmbedded(ctx, pool, f); err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}
		log.Printf("applied %s", f)
	}
	log.Println("migrations completed")
}

// listEmbedded retorna los archivos SQL embebidos en orden ascendente.
func listEmbedded() ([]string, error) {
	entries, err := migrations.SchemaFS.ReadDir(migrations.SchemaDir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, path.Join(migrations.SchemaDir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func execEmbedded(ctx context.Context, pool *pgxpool.Pool, file string) error {
	b, err := migrations.SchemaFS.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if _, err := pool.Exec(ctx, string(b)); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}
