package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreateDocumentWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "default.json")

	doc, err := loadOrCreateDocument(path)
	if err != nil {
		t.Fatalf("loadOrCreateDocument: %v", err)
	}

	if doc.KonstantaC != 30070000 {
		t.Errorf("konstanta_c default: expected 30070000, got %v", doc.KonstantaC)
	}
	if doc.ChartDays != 7 {
		t.Errorf("chart_days default: expected 7, got %d", doc.ChartDays)
	}
	if doc.MaxHistoryDays != 365 {
		t.Errorf("max_history_days default: expected 365, got %d", doc.MaxHistoryDays)
	}

	// The document must exist on disk afterwards with the same values.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("document was not written: %v", err)
	}
	var onDisk BotDocument
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("written document is not valid JSON: %v", err)
	}
	if onDisk != *doc {
		t.Errorf("written document differs: %+v vs %+v", onDisk, *doc)
	}
}

func TestLoadOrCreateDocumentReadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.json")
	body := `{"api_url":"http://example.test/gold","konstanta_c":1000,"chart_days":3,"max_history_days":30}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := loadOrCreateDocument(path)
	if err != nil {
		t.Fatalf("loadOrCreateDocument: %v", err)
	}
	if doc.APIURL != "http://example.test/gold" || doc.KonstantaC != 1000 {
		t.Errorf("existing document not honored: %+v", doc)
	}
}

func TestParseAdminIDs(t *testing.T) {
	ids := parseAdminIDs("123, 456,abc,789")
	if len(ids) != 3 || ids[0] != 123 || ids[1] != 456 || ids[2] != 789 {
		t.Errorf("parseAdminIDs: got %v", ids)
	}
	if parseAdminIDs("") != nil {
		t.Error("empty input should yield nil")
	}
}

func TestValidateRejectsBadDocument(t *testing.T) {
	cfg := &Config{
		BotDocument:      BotDocument{APIURL: "http://x", KonstantaC: 0},
		TelegramBotToken: "token",
	}
	if err := cfg.validate(); err == nil {
		t.Error("konstanta_c = 0 must fail validation")
	}

	cfg.KonstantaC = 30070000
	cfg.TelegramBotToken = ""
	if err := cfg.validate(); err == nil {
		t.Error("missing bot token must fail validation")
	}
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{AdminIDs: []int64{42}}
	if !cfg.IsAdmin(42) {
		t.Error("42 should be admin")
	}
	if cfg.IsAdmin(7) {
		t.Error("7 should not be admin")
	}
}
