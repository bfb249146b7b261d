package browser

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
)

const httpsHandler = "x-scheme-handler/https"

// DesktopEnumerator discovers browsers by scanning XDG application
// directories for desktop entries that register as https scheme handlers.
// The default browser is resolved from the user's mimeapps.list, best
// effort.
type DesktopEnumerator struct {
	// ApplicationDirs overrides the scanned directories. Empty means the
	// standard XDG data dirs.
	ApplicationDirs []string
	// MimeAppsPath overrides the mimeapps.list location. Empty means
	// $XDG_CONFIG_HOME/mimeapps.list.
	MimeAppsPath string
}

func (e *DesktopEnumerator) ListInstalledBrowsers(_ context.Context) ([]Browser, error) {
	dirs := e.ApplicationDirs
	if len(dirs) == 0 {
		dirs = append(dirs, filepath.Join(xdg.DataHome, "applications"))
		for _, d := range xdg.DataDirs {
			dirs = append(dirs, filepath.Join(d, "applications"))
		}
	}

	defaultID := e.defaultHandlerID()

	seen := make(map[string]Browser)
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".desktop") {
				continue
			}
			if _, ok := seen[name]; ok {
				// Earlier dirs shadow later ones, matching XDG precedence.
				continue
			}
			de, err := parseDesktopEntry(filepath.Join(dir, name))
			if err != nil || !de.handlesHTTPS || de.noDisplay {
				continue
			}
			seen[name] = Browser{
				PackageName: name,
				DisplayName: de.name,
				IsDefault:   name == defaultID,
			}
		}
	}

	result := make([]Browser, 0, len(seen))
	for _, b := range seen {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IsDefault != result[j].IsDefault {
			return result[i].IsDefault
		}
		return result[i].PackageName < result[j].PackageName
	})
	return result, nil
}

func (e *DesktopEnumerator) defaultHandlerID() string {
	path := e.MimeAppsPath
	if path == "" {
		path = filepath.Join(xdg.ConfigHome, "mimeapps.list")
	}

	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	inDefaults := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "["):
			inDefaults = line == "[Default Applications]"
		case inDefaults && strings.HasPrefix(line, httpsHandler+"="):
			value := strings.TrimPrefix(line, httpsHandler+"=")
			// The value may list several candidates separated by ';'.
			if idx := strings.IndexByte(value, ';'); idx >= 0 {
				value = value[:idx]
			}
			return strings.TrimSpace(value)
		}
	}
	return ""
}

type desktopEntry struct {
	name         string
	handlesHTTPS bool
	noDisplay    bool
}

// parseDesktopEntry reads the [Desktop Entry] group of a .desktop file.
// Desktop files are INI-like but simple enough that a line scanner covers
// every field we need.
func parseDesktopEntry(path string) (desktopEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return desktopEntry{}, err
	}
	defer f.Close()

	var de desktopEntry
	inMain := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inMain = line == "[Desktop Entry]"
			continue
		}
		if !inMain {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Name":
			if de.name == "" {
				de.name = strings.TrimSpace(value)
			}
		case "MimeType":
			de.handlesHTTPS = strings.Contains(value, httpsHandler)
		case "NoDisplay":
			de.noDisplay = strings.TrimSpace(value) == "true"
		}
	}
	if err := scanner.Err(); err != nil {
		return desktopEntry{}, err
	}
	return de, nil
}
