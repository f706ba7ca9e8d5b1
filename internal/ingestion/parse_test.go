package ingestion

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseFileCSV(t *testing.T) {
	payload := []byte("\xEF\xBB\xBF\n,,\nTitle, Url ,Rank,Zip,Rank\nGo Blog,https://go.dev/blog,5,02134,1\n,,,,\nBackblaze,https://b2.example\n")

	rows, err := ParseFile("bookmarks.CSV", payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", len(rows), rows)
	}

	first := rows[0]
	if first["Title"] != "Go Blog" || first["Url"] != "https://go.dev/blog" {
		t.Fatalf("unexpected first row %v", first)
	}
	if first["Rank"] != 5.0 || first["Rank_2"] != 1.0 {
		t.Fatalf("expected numeric ranks, got %#v / %#v", first["Rank"], first["Rank_2"])
	}
	if first["Zip"] != "02134" {
		t.Fatalf("expected zero-padded code to stay text, got %#v", first["Zip"])
	}

	second := rows[1]
	if second["Rank"] != "" {
		t.Fatalf("expected padded empty cell, got %#v", second["Rank"])
	}
}

func TestParseFileHeaderRow(t *testing.T) {
	payload := []byte("exported by tool\nTitle,Rank\nGo,1\n")
	index := 1
	rows, err := parseFile("data.csv", payload, &index)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 1 || rows[0]["Title"] != "Go" {
		t.Fatalf("unexpected rows %v", rows)
	}

	index = 9
	if _, err := parseFile("data.csv", payload, &index); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestParseFileXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Title", "Category", "Rank"}); err != nil {
		t.Fatalf("set header: %v", err)
	}
	if err := f.SetSheetRow(sheet, "A2", &[]any{"AWS Notes", "Cloud", 3}); err != nil {
		t.Fatalf("set row: %v", err)
	}
	if err := f.SetSheetRow(sheet, "A3", &[]any{"Go Blog", "Programming", 5}); err != nil {
		t.Fatalf("set row: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	rows, err := ParseFile("bookmarks.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1]["Title"] != "Go Blog" || rows[1]["Rank"] != 5.0 {
		t.Fatalf("unexpected row %v", rows[1])
	}
}

func TestParseFileJSONAndYAML(t *testing.T) {
	rows, err := ParseFile("data.json", []byte(`[{"Title":"Go","Rank":5},null,{"Title":"Rust"}]`))
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 json rows, got %d", len(rows))
	}
	if rows[0]["Rank"] != json.Number("5") {
		t.Fatalf("expected json number, got %#v", rows[0]["Rank"])
	}

	yamlPayload := []byte("- Title: Go\n  Rank: 5\n  Added: 2024-03-01T10:00:00Z\n- Title: Rust\n")
	rows, err = ParseFile("data.yml", yamlPayload)
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if len(rows) != 2 || rows[0]["Rank"] != 5 {
		t.Fatalf("unexpected yaml rows %#v", rows)
	}
	if rows[0]["Added"] != "2024-03-01T10:00:00Z" {
		t.Fatalf("expected timestamp rendered as text, got %#v", rows[0]["Added"])
	}

	if _, err := ParseFile("data.json", []byte(`{"Title":"Go"}`)); err == nil {
		t.Fatalf("expected error for a bare object")
	}
}

func TestParseFileUnsupported(t *testing.T) {
	_, err := ParseFile("notes.txt", []byte("hello"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLooksLikeNumber(t *testing.T) {
	cases := map[string]bool{
		"5":        true,
		"-2.5":     true,
		"0.25":     true,
		"1e3":      true,
		"0":        true,
		"007":      false,
		"0x10":     false,
		"Infinity": false,
		"NaN":      false,
		"1_000":    false,
		"":         false,
		"12abc":    false,
	}
	for input, want := range cases {
		if got := looksLikeNumber(input); got != want {
			t.Fatalf("looksLikeNumber(%q) = %v, want %v", input, got, want)
		}
	}
}
