// Command export dumps accounts and ledger entries to CSV files and, if a
// bucket is configured, uploads them to an S3 compatible store.
package main

import (
	"bytes"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/kaffeekasse/internal/exporter"
	"github.com/dmitrijs2005/kaffeekasse/internal/logging"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/repositories/repomanager"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {

	dsn := flag.String("d", "", "database DSN")
	outDir := flag.String("o", ".", "output directory")
	bucket := flag.String("b", "", "S3 bucket (empty disables upload)")
	region := flag.String("r", "us-east-1", "S3 region")
	endpoint := flag.String("e", "", "S3 base endpoint (for MinIO)")
	accessKey := flag.String("k", "", "S3 access key")
	secretKey := flag.String("s", "", "S3 secret key")
	flag.Parse()

	if *dsn == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	exp := exporter.New(db, repomanager.NewPostgresRepositoryManager(), logger)

	var accounts, entries bytes.Buffer
	if err := exp.WriteAccountsCSV(ctx, &accounts); err != nil {
		log.Fatalf("exporting accounts: %v", err)
	}
	if err := exp.WriteEntriesCSV(ctx, &entries); err != nil {
		log.Fatalf("exporting entries: %v", err)
	}

	dumps := map[string]*bytes.Buffer{
		"accounts.csv": &accounts,
		"entries.csv":  &entries,
	}

	for name, buf := range dumps {
		path := filepath.Join(*outDir, name)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			log.Fatalf("writing %s: %v", path, err)
		}
		log.Printf("wrote %s", path)
	}

	if *bucket == "" {
		return
	}

	uploader, err := exporter.NewS3Uploader(ctx, exporter.S3Options{
		Region:       *region,
		BaseEndpoint: *endpoint,
		Bucket:       *bucket,
		AccessKey:    *accessKey,
		SecretKey:    *secretKey,
	})
	if err != nil {
		log.Fatalf("s3 init error: %v", err)
	}

	prefix := time.Now().UTC().Format("2006-01-02")
	for name, buf := range dumps {
		key := fmt.Sprintf("exports/%s/%s", prefix, name)
		if err := uploader.Upload(ctx, key, bytes.NewReader(buf.Bytes())); err != nil {
			log.Fatalf("uploading %s: %v", key, err)
		}
		log.Printf("uploaded s3://%s/%s", *bucket, key)
	}
}
