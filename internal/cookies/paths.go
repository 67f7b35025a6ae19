package cookies

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

// browserSpec describes a browser's cookie database candidate paths.
type browserSpec struct {
	Name string
	// CookiePaths are direct cookie file candidates for Chromium-family
	// browsers. The first one that exists is used.
	CookiePaths []string
	// ProfilesIniPaths are candidate Firefox-style profiles.ini files.
	ProfilesIniPaths []string
}

// browserLocation lists where a browser keeps its data on each OS, relative
// to the user's home (unix) or the roaming/local app data dir (windows).
type browserLocation struct {
	name string
	// firefox marks profiles.ini based browsers.
	firefox bool
	linux   [][]string
	darwin  [][]string
	windows [][]string
}

// browserLocations is in detection priority order.
var browserLocations = []browserLocation{
	{
		name:    "Firefox",
		firefox: true,
		linux: [][]string{
			{".mozilla", "firefox"},
			{"snap", "firefox", "common", ".mozilla", "firefox"},
		},
		darwin:  [][]string{{"Library", "Application Support", "Firefox"}},
		windows: [][]string{{"Mozilla", "Firefox"}},
	},
	{
		name:    "LibreWolf",
		firefox: true,
		linux:   [][]string{{".librewolf"}},
		darwin:  [][]string{{"Library", "Application Support", "librewolf"}},
		windows: [][]string{{"LibreWolf"}},
	},
	{
		name:    "Chrome",
		linux:   [][]string{{".config", "google-chrome", "Default"}},
		darwin:  [][]string{{"Library", "Application Support", "Google", "Chrome", "Default"}},
		windows: [][]string{{"Google", "Chrome", "User Data", "Default"}},
	},
	{
		name:    "Chromium",
		linux:   [][]string{{".config", "chromium", "Default"}},
		darwin:  [][]string{{"Library", "Application Support", "Chromium", "Default"}},
		windows: [][]string{{"Chromium", "User Data", "Default"}},
	},
	{
		name:    "Edge",
		linux:   [][]string{{".config", "microsoft-edge", "Default"}},
		darwin:  [][]string{{"Library", "Application Support", "Microsoft Edge", "Default"}},
		windows: [][]string{{"Microsoft", "Edge", "User Data", "Default"}},
	},
	{
		name:    "Brave",
		linux:   [][]string{{".config", "BraveSoftware", "Brave-Browser", "Default"}},
		darwin:  [][]string{{"Library", "Application Support", "BraveSoftware", "Brave-Browser", "Default"}},
		windows: [][]string{{"BraveSoftware", "Brave-Browser", "User Data", "Default"}},
	},
}

// browserRoots holds the base directories browser data lives under.
type browserRoots struct {
	home         string
	appData      string
	localAppData string
}

// browserSpecsFor expands browserLocations for goos. Firefox-family browsers
// live under roaming app data on windows, Chromium-family under local app
// data.
func browserSpecsFor(goos string, roots browserRoots) []browserSpec {
	specs := make([]browserSpec, 0, len(browserLocations))
	for _, loc := range browserLocations {
		base, rels := roots.home, loc.linux
		switch goos {
		case "darwin":
			rels = loc.darwin
		case "windows":
			rels = loc.windows
			base = roots.localAppData
			if loc.firefox {
				base = roots.appData
			}
		}

		spec := browserSpec{Name: loc.name}
		for _, rel := range rels {
			dir := filepath.Join(append([]string{base}, rel...)...)
			if loc.firefox {
				spec.ProfilesIniPaths = append(spec.ProfilesIniPaths, filepath.Join(dir, "profiles.ini"))
				continue
			}
			spec.CookiePaths = append(spec.CookiePaths,
				filepath.Join(dir, "Network", "Cookies"),
				filepath.Join(dir, "Cookies"),
			)
		}
		specs = append(specs, spec)
	}
	return specs
}

// getBrowserCookiePaths returns browser specs for the running OS and user.
func getBrowserCookiePaths() []browserSpec {
	home, _ := os.UserHomeDir()
	return browserSpecsFor(runtime.GOOS, browserRoots{
		home:         home,
		appData:      os.Getenv("APPDATA"),
		localAppData: os.Getenv("LOCALAPPDATA"),
	})
}

// parseProfilesIni parses a Firefox-style profiles.ini file in fsys and
// returns the path to the default profile directory.
//
// Priority:
//  1. [Install*] section Default= key (modern Firefox)
//  2. [Profile*] section with Default=1
//
// Returns "" if the file cannot be read or names no default profile.
func parseProfilesIni(fsys afero.Fs, iniPath string) string {
	f, err := fsys.Open(iniPath)
	if err != nil {
		return ""
	}
	defer f.Close()

	iniDir := filepath.Dir(iniPath)

	var (
		installDefault, profileDefault string
		inInstall, inProfile           bool
		currentPath                    string
		currentIsDefault               bool
	)
	flushProfile := func() {
		if inProfile && currentIsDefault && profileDefault == "" {
			profileDefault = currentPath
		}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			flushProfile()
			section := strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			inInstall = strings.HasPrefix(section, "Install")
			inProfile = strings.HasPrefix(section, "Profile")
			currentPath = ""
			currentIsDefault = false
			continue
		}
		k, v, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key, val := strings.TrimSpace(k), strings.TrimSpace(v)
		switch {
		case inInstall && key == "Default" && installDefault == "":
			installDefault = filepath.Join(iniDir, filepath.FromSlash(val))
		case inProfile && key == "Path":
			currentPath = filepath.Join(iniDir, filepath.FromSlash(val))
		case inProfile && key == "Default" && val == "1":
			currentIsDefault = true
		}
	}
	flushProfile()

	if installDefault != "" {
		return installDefault
	}
	return profileDefault
}

// cookieCandidates returns the cookie store paths of spec in probe order.
func cookieCandidates(fsys afero.Fs, spec browserSpec) []string {
	if len(spec.ProfilesIniPaths) == 0 {
		return spec.CookiePaths
	}
	var paths []string
	for _, iniPath := range spec.ProfilesIniPaths {
		if profileDir := parseProfilesIni(fsys, iniPath); profileDir != "" {
			paths = append(paths, filepath.Join(profileDir, "cookies.sqlite"))
		}
	}
	return paths
}

// detectWithSpecs returns cookies for domain from the first readable cookie
// store among specs.
func detectWithSpecs(fsys afero.Fs, domain string, specs []browserSpec) ([]Cookie, *CookieSource, error) {
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Name)
		for _, cookiePath := range cookieCandidates(fsys, spec) {
			if ok, _ := afero.Exists(fsys, cookiePath); !ok {
				continue
			}
			imported, source, err := ImportCookies(fsys, cookiePath, domain)
			if err != nil {
				continue
			}
			source.Browser = spec.Name
			return imported, source, nil
		}
	}
	return nil, nil, fmt.Errorf("error: no supported browser cookie store found (tried %s)", strings.Join(names, ", "))
}

// DetectBrowserCookies scans known browser cookie stores in priority order
// (Firefox, LibreWolf, Chrome, Chromium, Edge, Brave) and returns cookies for
// domain from the first available one.
func DetectBrowserCookies(fsys afero.Fs, domain string) ([]Cookie, *CookieSource, error) {
	return detectWithSpecs(fsys, domain, getBrowserCookiePaths())
}
