package cookies

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"log"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/warpdl/warpjar/pkg/cookiejar"
)

const (
	netscapeHeader = "# Netscape HTTP Cookie File"
	httpOnlyPrefix = "#HttpOnly_"
)

// ParseNetscape reads cookies from a Netscape-format cookie text file in fsys.
// Lines starting with # are skipped, except #HttpOnly_ which sets the HttpOnly
// flag. Malformed lines are skipped with a warning naming the line number.
// An empty domain returns every unexpired cookie.
func ParseNetscape(fsys afero.Fs, filePath string, domain string) ([]Cookie, error) {
	f, err := fsys.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open Netscape cookie file: %w", err)
	}
	defer f.Close()

	now := time.Now()
	dotDomain := "." + domain
	var cookies []Cookie

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = line[len(httpOnlyPrefix):]
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			log.Printf("warning: skipping malformed Netscape cookie line %d", lineNo)
			continue
		}

		cookieDomain := fields[0]
		if strings.EqualFold(fields[1], "TRUE") && !strings.HasPrefix(cookieDomain, ".") {
			cookieDomain = "." + cookieDomain
		}
		expiry, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			log.Printf("warning: skipping cookie with invalid expiry on line %d", lineNo)
			continue
		}

		if domain != "" && !matchesDomain(cookieDomain, domain, dotDomain) {
			continue
		}
		if expiry > 0 && time.Unix(expiry, 0).Before(now) {
			continue
		}

		c := Cookie{
			Name:     fields[5],
			Value:    fields[6],
			Domain:   cookieDomain,
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			HttpOnly: httpOnly,
		}
		if expiry > 0 {
			c.Expiry = time.Unix(expiry, 0)
		}
		cookies = append(cookies, c)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to read Netscape cookie file: %w", err)
	}
	return cookies, nil
}

// matchesDomain checks if a cookie domain matches the target domain:
// exact match, dot-prefix, or subdomain.
func matchesDomain(cookieDomain, domain, dotDomain string) bool {
	if cookieDomain == domain || cookieDomain == dotDomain {
		return true
	}
	return strings.HasSuffix(cookieDomain, dotDomain)
}

// WriteNetscape writes store in Netscape cookie file format, sorted by
// domain, path and name. Domain cookies get a leading dot and the TRUE
// subdomain flag; session cookies are written with expiry 0.
func WriteNetscape(w io.Writer, store cookiejar.Store) error {
	ids := make([]cookiejar.Identity, 0, len(store))
	for id := range store {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b cookiejar.Identity) int {
		return cmp.Or(
			cmp.Compare(a.Domain, b.Domain),
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.Name, b.Name),
		)
	})

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, netscapeHeader)
	for _, id := range ids {
		rec := store[id]
		domain, sub := id.Domain, "FALSE"
		if !rec.HostOnly {
			domain, sub = "."+id.Domain, "TRUE"
		}
		if rec.HttpOnly {
			domain = httpOnlyPrefix + domain
		}
		var expiry int64
		if rec.Persistent {
			expiry = rec.ExpiryTime.Unix()
		}
		fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			domain, sub, id.Path, netscapeBool(rec.SecureOnly), expiry, id.Name, rec.Value)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("error: failed to write Netscape cookie file: %w", err)
	}
	return nil
}

func netscapeBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
