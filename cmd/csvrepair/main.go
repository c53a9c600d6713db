// csvrepair fixes up supplier spreadsheets offline before upload: coerces
// unparseable prices to 0.00, recalculates missing reference prices, and
// fills in a default image path.
package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/shopspring/decimal"

	"catalog-service/internal/ingest"
)

func main() {
	var (
		inPath       = flag.String("in", "", "input CSV file")
		outPath      = flag.String("out", "", "output CSV file (default: <in>.fixed.csv)")
		defaultImage = flag.String("default-image", "", "image path to fill in for rows without one")
	)
	flag.Parse()

	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *outPath == "" {
		*outPath = *inPath + ".fixed.csv"
	}

	data, err := os.ReadFile(*inPath)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *inPath, err)
	}

	rows, err := ingest.ParseCSV(bytes.NewReader(data))
	if err != nil {
		log.Fatalf("Failed to parse %s: %v", *inPath, err)
	}

	repaired := 0
	for _, row := range rows {
		if repairRow(row, *defaultImage) {
			repaired++
		}
	}

	if err := writeCSV(*outPath, rows); err != nil {
		log.Fatalf("Failed to write %s: %v", *outPath, err)
	}

	fmt.Printf("Wrote %s: %d rows, %d repaired\n", *outPath, len(rows), repaired)
}

// repairRow mutates one parsed row in place and reports whether anything
// changed.
func repairRow(row map[string]string, defaultImage string) bool {
	changed := false

	price, err := ingest.ParseDecimal(row[ingest.FieldPriceUSD])
	if err != nil || !price.IsPositive() {
		price = decimal.Zero
		row[ingest.FieldPriceUSD] = "0.00"
		changed = true
	} else {
		row[ingest.FieldPriceUSD] = price.Round(2).String()
	}

	if ref, err := ingest.ParseDecimal(row[ingest.FieldReference]); err != nil || !ref.IsPositive() {
		row[ingest.FieldReference] = price.Mul(ingest.ReferenceMarkup).Round(2).String()
		changed = true
	}

	if row[ingest.FieldImagePath] == "" && defaultImage != "" {
		row[ingest.FieldImagePath] = defaultImage
		changed = true
	}

	return changed
}

// writeCSV writes rows back out with canonical headers, known fields first.
func writeCSV(path string, rows []map[string]string) error {
	known := []string{
		ingest.FieldCode, ingest.FieldDescription, ingest.FieldPriceUSD,
		ingest.FieldReference, ingest.FieldBrand, ingest.FieldModel,
		ingest.FieldSupplierID, ingest.FieldImagePath,
	}
	seen := make(map[string]bool, len(known))
	for _, h := range known {
		seen[h] = true
	}

	var extra []string
	for _, row := range rows {
		for key := range row {
			if key != "_row" && !seen[key] {
				seen[key] = true
				extra = append(extra, key)
			}
		}
	}
	sort.Strings(extra)
	headers := append(known, extra...)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(headers))
		for i, h := range headers {
			record[i] = row[h]
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
