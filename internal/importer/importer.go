// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package importer reads query lists from text or CSV files and feeds them
// through the resolution pipeline one at a time.
package importer

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Resolver is the slice of the pipeline the importer needs.
type Resolver interface {
	Resolve(ctx context.Context, query string, w io.Writer) (int64, bool, error)
}

// Result summarizes a batch import.
type Result struct {
	Resolved int
	NotFound int
	Failed   int
	IDs      []int64
}

// Total returns the number of queries processed.
func (r Result) Total() int {
	return r.Resolved + r.NotFound + r.Failed
}

// ReadQueries loads queries from path. CSV files are parsed column-aware,
// anything else is treated as one query per line. "-" reads lines from
// standard input.
func ReadQueries(path string) ([]string, error) {
	if path == "-" {
		return readLines(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening query file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return readCSV(f)
	}
	return readLines(f)
}

// readLines returns non-blank lines, skipping # comments.
func readLines(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	return out, nil
}

// Column header aliases recognized in CSV files. A file whose first row
// matches none of these is treated as headerless with the query in the
// first column.
var headerAliases = map[string]string{
	"title":   "title",
	"书名":      "title",
	"标题":      "title",
	"author":  "author",
	"authors": "author",
	"作者":      "author",
	"isbn":    "isbn",
	"query":   "query",
	"检索词":     "query",
}

func readCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := map[string]int{}
	for i, cell := range rows[0] {
		if name, ok := headerAliases[strings.ToLower(strings.TrimSpace(cell))]; ok {
			if _, dup := columns[name]; !dup {
				columns[name] = i
			}
		}
	}

	body := rows
	if len(columns) > 0 {
		body = rows[1:]
	}

	var out []string
	for _, row := range body {
		q := rowQuery(row, columns)
		if q != "" {
			out = append(out, q)
		}
	}
	return out, nil
}

// rowQuery builds one query from a CSV row. An ISBN column wins outright,
// then title plus author, then an explicit query column, then the first
// cell.
func rowQuery(row []string, columns map[string]int) string {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	if isbn := cell("isbn"); isbn != "" {
		return isbn
	}
	if title := cell("title"); title != "" {
		if author := cell("author"); author != "" {
			return title + " " + author
		}
		return title
	}
	if q := cell("query"); q != "" {
		return q
	}
	if len(row) > 0 {
		return strings.TrimSpace(row[0])
	}
	return ""
}

// ImportBatch resolves each query in order, printing per-item status and
// returning a summary. It continues after individual failures.
func ImportBatch(ctx context.Context, r Resolver, queries []string, w io.Writer) Result {
	var result Result
	for _, q := range queries {
		id, found, err := r.Resolve(ctx, q, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", q, err)
			result.Failed++
			continue
		}
		if !found {
			result.NotFound++
			continue
		}
		result.Resolved++
		result.IDs = append(result.IDs, id)
	}
	fmt.Fprintf(w, "\nImport summary: %d resolved, %d not found, %d failed (total: %d)\n",
		result.Resolved, result.NotFound, result.Failed, result.Total())
	return result
}
