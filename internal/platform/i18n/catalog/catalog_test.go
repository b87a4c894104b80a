package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	for _, locale := range []string{BaseLocale, "pt-BR"} {
		if !bundle.HasLocale(locale) {
			t.Fatalf("expected locale %s", locale)
		}
	}
	if got, want := len(bundle.Keys("pt-BR")), len(bundle.Keys(BaseLocale)); got != want {
		t.Fatalf("pt-BR keys = %d, en-US keys = %d, want equal", got, want)
	}
}

func TestEmbeddedNoticeCopy(t *testing.T) {
	bundle := Default()
	value, ok := bundle.Message("en-US", "auth.notice.invalid_credentials")
	if !ok || value != "Invalid Credentials!" {
		t.Fatalf("Message() = %q, %v", value, ok)
	}
	value, ok = bundle.Message("fr-FR", "auth.notice.registered")
	if !ok || value != "Successfully Registered 😍" {
		t.Fatalf("fallback Message() = %q, %v", value, ok)
	}
	if _, ok := bundle.Message("en-US", " "); ok {
		t.Fatalf("blank key should not resolve")
	}
}

func TestRegisterFeedsMessagePrinter(t *testing.T) {
	printer := message.NewPrinter(language.MustParse("pt-BR"))
	if got := printer.Sprintf("auth.login.title"); got != "Entrar" {
		t.Fatalf("pt-BR login title = %q", got)
	}
	printer = message.NewPrinter(language.Portuguese)
	if got := printer.Sprintf("auth.field.password"); got != "Senha" {
		t.Fatalf("pt base password label = %q", got)
	}
}

func TestLoadFromFSRejectsDuplicateKeysAcrossNamespaces(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/auth.yaml"), `locale: "en-US"
namespace: "auth"
messages:
  "a.key": "a"
`)
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/notice.yaml"), `locale: "en-US"
namespace: "notice"
messages:
  "a.key": "b"
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestLoadFromFSRejectsKeysMissingFromBase(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/auth.yaml"), `locale: "en-US"
namespace: "auth"
messages:
  "a.key": "a"
`)
	mustWriteFile(t, filepath.Join(tempDir, "locales/pt-BR/auth.yaml"), `locale: "pt-BR"
namespace: "auth"
messages:
  "b.key": "b"
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected missing base key error")
	}
}

func TestLoadFromFSRejectsMismatchedNamespace(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/auth.yaml"), `locale: "en-US"
namespace: "notice"
messages:
  "a.key": "a"
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected namespace mismatch error")
	}
}

func TestParseCatalogFileRejectsMalformedEntries(t *testing.T) {
	for _, content := range []string{
		"\"a\": \"b\"\n",
		"locale: \"en-US\"\nnamespace: \"auth\"\nmessages:\n  \"a\" \"b\"\n",
		"locale: \"en-US\"\nnamespace: \"auth\"\nmessages:\n  \"a: \"b\"\n",
		"locale: \"en-US\"\nnamespace: \"auth\"\nmessages:\n",
	} {
		if _, err := parseCatalogFile([]byte(content)); err == nil {
			t.Fatalf("parseCatalogFile(%q) error = nil", content)
		}
	}
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
