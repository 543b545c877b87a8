// Command seedhs generates the catalog SQL seed and, optionally, publishes the
// same catalog as a JSON snapshot to S3 for CROSSQUOTE_CATALOG_SOURCE=s3.
//
// HS codes and keywords come from the builtin catalog unless -xlsx names a
// workbook with "HS_Codes" (Code, Description, Category, Duty Hint, VAT Hint)
// and "Keywords" (Keyword, Code) sheets.
//
// Usage: go run ./cmd/seedhs [-xlsx codes.xlsx] [-out db/seeds/catalog.sql] [-publish]
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"crossquote/internal/catalog"
	"crossquote/internal/config"
	"crossquote/internal/port"
	s3storage "crossquote/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := flag.String("xlsx", "", "workbook overriding HS codes and keywords")
	outPath := flag.String("out", "db/seeds/catalog.sql", "SQL seed output path")
	publish := flag.Bool("publish", false, "upload the snapshot to the configured S3 bucket")
	flag.Parse()

	snap := catalog.Default()
	if *xlsxPath != "" {
		codes, keywords, err := readWorkbook(*xlsxPath)
		if err != nil {
			return fmt.Errorf("read workbook: %w", err)
		}
		snap.HSCodes, snap.Keywords = codes, keywords
		snap.Version = ""
		log.Printf("workbook: %d codes, %d keywords", len(codes), len(keywords))
	}
	if err := catalog.Validate(snap); err != nil {
		return fmt.Errorf("validate catalog: %w", err)
	}
	if snap.Version == "" {
		snap.Version = catalog.Fingerprint(snap)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	out, err := os.Create(*outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if err := writeSeed(out, snap); err != nil {
		return fmt.Errorf("write seed: %w", err)
	}
	log.Printf("catalog %s: %d codes, %d jurisdictions, %d services written to %s",
		snap.Version, len(snap.HSCodes), len(snap.Jurisdictions), len(snap.Services), *outPath)

	if !*publish {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ctx := context.Background()
	storage, err := s3storage.NewS3Client(ctx, &cfg.S3)
	if err != nil {
		return fmt.Errorf("init s3: %w", err)
	}
	data, err := catalog.Encode(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	res, err := storage.Upload(ctx, port.UploadInput{
		Bucket:      cfg.S3.Bucket,
		Key:         cfg.S3.SnapshotKey,
		Body:        bytes.NewReader(data),
		ContentType: "application/json",
		Size:        int64(len(data)),
	})
	if err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	log.Printf("published snapshot %s to %s", snap.Version, res.Location)
	return nil
}
