package main_test

import (
	"context"
	"database/sql"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func TestCLI_ImportExport(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	tmp := t.TempDir()

	csvPath := filepath.Join(tmp, "Connections.csv")
	export := "Notes:\n" +
		"First Name,Last Name,URL,Email Address,Company,Position,Connected On\n" +
		"Alice,Smith,https://example.com/in/alice,,Acme Inc,Engineer,01 Jan 2024\n" +
		"Bob,Jones,,,,Manager/Lead,02 Jan 2024\n" +
		"Alice,Smith,https://example.com/in/alice,,Acme Inc,Engineer,01 Jan 2024\n"
	if err := os.WriteFile(csvPath, []byte(export), 0644); err != nil {
		t.Fatalf("failed to write export: %v", err)
	}

	// .env in the working dir is picked up before flags are parsed
	dbPath := filepath.Join(tmp, "state", "connections.db")
	if err := os.WriteFile(filepath.Join(tmp, ".env"), []byte("CONNECTIONS_DATABASE="+dbPath+"\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	bin := filepath.Join(tmp, "connections.bin")
	build := exec.Command("go", "build", "-o", bin, "github.com/japaniel/connections/cmd/connections")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("failed to build CLI: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, bin, "import", csvPath, "--browser", "none")
	cmd.Dir = tmp
	cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+tmp, "HOME="+tmp)
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		t.Fatalf("cli timed out, output:\n%s", out)
	}
	if err != nil {
		t.Fatalf("cli failed: %v\noutput:\n%s", err, out)
	}

	outStr := string(out)
	if !strings.Contains(outStr, "Imported 2 of 3 rows") || !strings.Contains(outStr, "Alice Smith") {
		t.Fatalf("unexpected CLI output, got:\n%s", outStr)
	}

	dbConn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer dbConn.Close()

	var cnt int
	if err := dbConn.QueryRow("SELECT COUNT(*) FROM people").Scan(&cnt); err != nil {
		t.Fatalf("db query failed: %v", err)
	}
	if cnt != 2 {
		t.Fatalf("expected 2 people in DB, found %d", cnt)
	}

	// a bad command exits non-zero with the error on stderr
	bad := exec.CommandContext(ctx, bin, "threshold", "set", "0")
	bad.Dir = tmp
	bad.Env = cmd.Env
	out, err = bad.CombinedOutput()
	if err == nil {
		t.Fatalf("expected failure, got output:\n%s", out)
	}
	if !strings.Contains(string(out), "Error: threshold must be") {
		t.Fatalf("unexpected error output:\n%s", out)
	}
}
