package i18n

import "testing"

func clearLocaleEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LANGUAGE", "")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "")
}

func TestDetectLanguagePriorityAndNormalization(t *testing.T) {
	t.Run("LANGUAGE has highest priority", func(t *testing.T) {
		clearLocaleEnv(t)
		t.Setenv("LANGUAGE", "ko_KR.UTF-8:en_US")
		t.Setenv("LC_ALL", "de_DE.UTF-8")

		if got := detectLanguage(); got != "ko_KR" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "ko_KR")
		}
	})

	t.Run("C and POSIX are skipped", func(t *testing.T) {
		clearLocaleEnv(t)
		t.Setenv("LANGUAGE", "C")
		t.Setenv("LC_ALL", "POSIX")
		t.Setenv("LC_MESSAGES", "fr_FR.UTF-8")

		if got := detectLanguage(); got != "fr_FR" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "fr_FR")
		}
	})

	t.Run("falls back to en", func(t *testing.T) {
		clearLocaleEnv(t)
		if got := detectLanguage(); got != "en" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "en")
		}
	})
}

func TestEmbeddedKoreanCatalog(t *testing.T) {
	old := po
	t.Cleanup(func() { po = old })

	Init("ko")
	if got := T("Updating locales..."); got != "로케일을 갱신하는 중..." {
		t.Fatalf("T(ko) = %q", got)
	}
	if got := T("not in the catalog"); got != "not in the catalog" {
		t.Fatalf("unknown msgid should pass through, got %q", got)
	}

	Init("en")
	if got := T("Updating locales..."); got != "Updating locales..." {
		t.Fatalf("T(en) = %q", got)
	}
}

func TestTAndNFallbackWhenUninitialized(t *testing.T) {
	old := po
	po = nil
	t.Cleanup(func() { po = old })

	if got := T("Hello"); got != "Hello" {
		t.Fatalf("T fallback = %q, want %q", got, "Hello")
	}
	if got := N("row", "rows", 1); got != "row" {
		t.Fatalf("N singular fallback = %q, want %q", got, "row")
	}
	if got := N("row", "rows", 2); got != "rows" {
		t.Fatalf("N plural fallback = %q, want %q", got, "rows")
	}
}
