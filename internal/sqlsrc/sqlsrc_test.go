package sqlsrc

import (
	"testing"

	"patma/internal/evaluator"
	"patma/internal/parser"
)

func openFixture(t *testing.T) *Source {
	t.Helper()
	src, err := Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { src.Close() })

	stmts := []string{
		`CREATE TABLE events (id INTEGER PRIMARY KEY, kind TEXT, payload TEXT, retries INTEGER)`,
		`INSERT INTO events (kind, payload, retries) VALUES ('click', 'btn-1', 0)`,
		`INSERT INTO events (kind, payload, retries) VALUES ('error', 'boom', 3)`,
		`INSERT INTO events (kind, payload, retries) VALUES ('click', NULL, 1)`,
	}
	for _, stmt := range stmts {
		if _, err := src.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	return src
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "whatever"); err == nil {
		t.Fatal("expected an error for an unsupported driver")
	}
}

func TestQueryRendersRowsInColumnOrder(t *testing.T) {
	src := openFixture(t)

	rows, err := src.Query(`SELECT id, kind, payload, retries FROM events ORDER BY id`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("wrong row count. expected=3, got=%d", len(rows))
	}

	keys := rows[0].OwnKeys()
	expected := []string{"id", "kind", "payload", "retries"}
	for i, k := range expected {
		if keys[i] != k {
			t.Fatalf("column %d: expected=%q, got=%q (keys=%v)", i, k, keys[i], keys)
		}
	}

	if rows[0].GetProperty("kind").Inspect() != `"click"` {
		t.Errorf("wrong kind: %s", rows[0].GetProperty("kind").Inspect())
	}
	if rows[1].GetProperty("retries").Inspect() != "3" {
		t.Errorf("wrong retries: %s", rows[1].GetProperty("retries").Inspect())
	}
	if rows[2].GetProperty("payload").Inspect() != "null" {
		t.Errorf("NULL column must render as null, got %s", rows[2].GetProperty("payload").Inspect())
	}
}

func TestRowsMatchPatterns(t *testing.T) {
	src := openFixture(t)

	rows, err := src.Query(`SELECT kind, payload, retries FROM events ORDER BY id`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	pat, err := parser.Parse(`{kind: "error", payload: p} || {retries: 0, payload: p}`)
	if err != nil {
		t.Fatal(err)
	}

	e := evaluator.New()
	var matched []string
	for _, row := range rows {
		env, ok, err := e.Match(pat, row)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			matched = append(matched, env.Lookup("p").Inspect())
		}
	}

	if len(matched) != 2 {
		t.Fatalf("wrong match count. expected=2, got=%d (%v)", len(matched), matched)
	}
	if matched[0] != `"btn-1"` || matched[1] != `"boom"` {
		t.Errorf("wrong payloads: %v", matched)
	}
}
