package browser

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s failed: %v", path, err)
	}
}

const firefoxEntry = `[Desktop Entry]
Name=Firefox
Exec=firefox %u
MimeType=text/html;x-scheme-handler/http;x-scheme-handler/https;
`

const chromiumEntry = `[Desktop Entry]
Name=Chromium
Exec=chromium %U
MimeType=x-scheme-handler/https;
`

const editorEntry = `[Desktop Entry]
Name=Text Editor
Exec=gedit %f
MimeType=text/plain;
`

const hiddenBrowserEntry = `[Desktop Entry]
Name=Hidden Browser
NoDisplay=true
MimeType=x-scheme-handler/https;
`

func TestListInstalledBrowsersFindsHTTPSHandlers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "firefox.desktop"), firefoxEntry)
	writeFile(t, filepath.Join(dir, "chromium.desktop"), chromiumEntry)
	writeFile(t, filepath.Join(dir, "editor.desktop"), editorEntry)
	writeFile(t, filepath.Join(dir, "hidden.desktop"), hiddenBrowserEntry)

	e := &DesktopEnumerator{
		ApplicationDirs: []string{dir},
		MimeAppsPath:    filepath.Join(dir, "no-mimeapps.list"),
	}

	browsers, err := e.ListInstalledBrowsers(context.Background())
	if err != nil {
		t.Fatalf("ListInstalledBrowsers failed: %v", err)
	}

	if len(browsers) != 2 {
		t.Fatalf("expected 2 browsers, got %d: %+v", len(browsers), browsers)
	}
	if browsers[0].PackageName != "chromium.desktop" || browsers[0].DisplayName != "Chromium" {
		t.Fatalf("unexpected first browser: %+v", browsers[0])
	}
	if browsers[1].PackageName != "firefox.desktop" || browsers[1].DisplayName != "Firefox" {
		t.Fatalf("unexpected second browser: %+v", browsers[1])
	}
	for _, b := range browsers {
		if b.IsDefault {
			t.Fatalf("no default expected without mimeapps.list, got %+v", b)
		}
	}
}

func TestListInstalledBrowsersResolvesDefault(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "firefox.desktop"), firefoxEntry)
	writeFile(t, filepath.Join(dir, "chromium.desktop"), chromiumEntry)

	mimeapps := filepath.Join(dir, "mimeapps.list")
	writeFile(t, mimeapps, `[Added Associations]
x-scheme-handler/https=editor.desktop;

[Default Applications]
text/html=firefox.desktop
x-scheme-handler/https=firefox.desktop;chromium.desktop
`)

	e := &DesktopEnumerator{
		ApplicationDirs: []string{dir},
		MimeAppsPath:    mimeapps,
	}

	browsers, err := e.ListInstalledBrowsers(context.Background())
	if err != nil {
		t.Fatalf("ListInstalledBrowsers failed: %v", err)
	}
	if len(browsers) != 2 {
		t.Fatalf("expected 2 browsers, got %d", len(browsers))
	}

	// The default sorts first.
	if !browsers[0].IsDefault || browsers[0].PackageName != "firefox.desktop" {
		t.Fatalf("expected firefox.desktop as default first, got %+v", browsers[0])
	}
	if browsers[1].IsDefault {
		t.Fatalf("expected a single default, got %+v", browsers[1])
	}
}

func TestEarlierDirectoriesShadowLaterOnes(t *testing.T) {
	userDir := t.TempDir()
	systemDir := t.TempDir()
	writeFile(t, filepath.Join(userDir, "firefox.desktop"), `[Desktop Entry]
Name=Firefox Nightly
MimeType=x-scheme-handler/https;
`)
	writeFile(t, filepath.Join(systemDir, "firefox.desktop"), firefoxEntry)

	e := &DesktopEnumerator{
		ApplicationDirs: []string{userDir, systemDir},
		MimeAppsPath:    filepath.Join(userDir, "no-mimeapps.list"),
	}

	browsers, err := e.ListInstalledBrowsers(context.Background())
	if err != nil {
		t.Fatalf("ListInstalledBrowsers failed: %v", err)
	}
	if len(browsers) != 1 {
		t.Fatalf("expected 1 browser, got %d", len(browsers))
	}
	if browsers[0].DisplayName != "Firefox Nightly" {
		t.Fatalf("expected user entry to shadow system entry, got %+v", browsers[0])
	}
}

func TestStaticEnumeratorCopiesItsList(t *testing.T) {
	static := Static{{PackageName: "a.desktop", DisplayName: "A"}}

	got, err := static.ListInstalledBrowsers(context.Background())
	if err != nil {
		t.Fatalf("ListInstalledBrowsers failed: %v", err)
	}
	got[0].PackageName = "mutated"
	if static[0].PackageName != "a.desktop" {
		t.Fatal("returned slice must not alias the fixture")
	}
}
