// Command seedroster converts an editorial roster Excel file into a SQL
// seed file for the users table. The workbook is expected to carry one
// sheet with the columns: Email, Full Name, Affiliation, Role.
// Usage: go run ./cmd/seedroster roster.xlsx
// Output: db/seeds/users.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"peerflow/internal/domain"
)

const batchSize = 200

// Seeded accounts all share a placeholder password that must be rotated
// on first login.
const defaultPassword = "changeme-on-first-login"

type rosterEntry struct {
	email       string
	fullName    string
	affiliation string
	role        domain.UserRole
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: seedroster <roster.xlsx>")
	}
	xlsxPath := os.Args[1]
	outPath := "db/seeds/users.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := parseRoster(f)
	if err != nil {
		return fmt.Errorf("parse roster: %w", err)
	}
	log.Printf("roster: %d entries", len(entries))

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), 12)
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	w := func(s string) error { _, werr := fmt.Fprintln(out, s); return werr }

	for _, line := range []string{
		"-- User seed data generated from the editorial roster workbook.",
		fmt.Sprintf("-- %d entries in batches of %d.", len(entries), batchSize),
		"BEGIN;",
		"",
	} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write header: %w", werr)
		}
	}

	for start := 0; start < len(entries); start += batchSize {
		end := start + batchSize
		if end > len(entries) {
			end = len(entries)
		}

		if werr := w("INSERT INTO users (id, email, password_hash, full_name, affiliation, role, is_active) VALUES"); werr != nil {
			return fmt.Errorf("write insert: %w", werr)
		}
		for i, e := range entries[start:end] {
			sep := ","
			if start+i == end-1 {
				sep = ""
			}
			row := fmt.Sprintf("  ('%s', '%s', '%s', '%s', '%s', '%s', true)%s",
				uuid.New(), sqlEscape(e.email), string(hash), sqlEscape(e.fullName),
				sqlEscape(e.affiliation), e.role, sep)
			if werr := w(row); werr != nil {
				return fmt.Errorf("write row: %w", werr)
			}
		}
		if werr := w("ON CONFLICT (email) DO NOTHING;"); werr != nil {
			return fmt.Errorf("write conflict clause: %w", werr)
		}
		if werr := w(""); werr != nil {
			return fmt.Errorf("write separator: %w", werr)
		}
	}

	if werr := w("COMMIT;"); werr != nil {
		return fmt.Errorf("write commit: %w", werr)
	}

	log.Printf("wrote %s", outPath)
	return nil
}

func parseRoster(f *excelize.File) ([]rosterEntry, error) {
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	seen := make(map[string]bool)
	var entries []rosterEntry
	for i, row := range rows[1:] {
		if len(row) < 4 {
			continue
		}
		email := strings.ToLower(strings.TrimSpace(row[0]))
		if email == "" || seen[email] {
			continue
		}

		role := domain.UserRole(strings.ToLower(strings.TrimSpace(row[3])))
		if !domain.ValidUserRoles[role] {
			log.Printf("row %d: skipping %s, unknown role %q", i+2, email, row[3])
			continue
		}

		seen[email] = true
		entries = append(entries, rosterEntry{
			email:       email,
			fullName:    strings.TrimSpace(row[1]),
			affiliation: strings.TrimSpace(row[2]),
			role:        role,
		})
	}
	return entries, nil
}

func sqlEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
