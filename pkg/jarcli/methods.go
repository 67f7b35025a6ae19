package jarcli

import (
	"context"

	"github.com/warpdl/warpjar/common"
	"github.com/warpdl/warpjar/pkg/cookiejar"
)

// Version returns the daemon build information.
func (c *Client) Version(ctx context.Context) (*common.VersionResult, error) {
	return invoke[common.VersionResult](ctx, c, common.MethodGetVersion, nil)
}

// List returns the daemon's jars and their sizes.
func (c *Client) List(ctx context.Context) ([]common.JarInfo, error) {
	res, err := invoke[common.JarListResult](ctx, c, common.MethodJarList, nil)
	if err != nil {
		return nil, err
	}
	return res.Jars, nil
}

// SetCookie submits a raw Set-Cookie value received from url to jar.
func (c *Client) SetCookie(ctx context.Context, jar, url, setCookie string) error {
	_, err := invoke[common.EmptyResult](ctx, c, common.MethodSetCookie, &common.SetCookieParams{
		Jar:       jar,
		URL:       url,
		SetCookie: setCookie,
	})
	return err
}

// CookieHeader returns the Cookie header jar would send to url.
func (c *Client) CookieHeader(ctx context.Context, jar, url string) (string, error) {
	res, err := invoke[common.HeaderResult](ctx, c, common.MethodCookieHeader, &common.JarURLParams{Jar: jar, URL: url})
	if err != nil {
		return "", err
	}
	return res.Header, nil
}

// Cookies returns the name/value pairs jar would send to url, in header order.
func (c *Client) Cookies(ctx context.Context, jar, url string) ([]common.CookiePair, error) {
	res, err := invoke[common.CookiesResult](ctx, c, common.MethodCookies, &common.JarURLParams{Jar: jar, URL: url})
	if err != nil {
		return nil, err
	}
	return res.Cookies, nil
}

// FetchAll returns a snapshot of every unexpired record in jar.
func (c *Client) FetchAll(ctx context.Context, jar string) (cookiejar.Store, error) {
	res, err := invoke[common.FetchAllResult](ctx, c, common.MethodFetchAll, &common.JarParam{Jar: jar})
	if err != nil {
		return nil, err
	}
	return common.Unflatten(res.Cookies), nil
}

// Import seeds jar from a cookie file on the daemon host. path may be "auto".
func (c *Client) Import(ctx context.Context, jar, path, domain string) (*common.ImportResult, error) {
	return invoke[common.ImportResult](ctx, c, common.MethodImport, &common.ImportParams{
		Jar:    jar,
		Path:   path,
		Domain: domain,
	})
}

// Export returns jar in Netscape cookie file format.
func (c *Client) Export(ctx context.Context, jar string) (string, error) {
	res, err := invoke[common.ExportResult](ctx, c, common.MethodExport, &common.JarParam{Jar: jar})
	if err != nil {
		return "", err
	}
	return res.Netscape, nil
}

// Drop closes and removes jar.
func (c *Client) Drop(ctx context.Context, jar string) error {
	_, err := invoke[common.EmptyResult](ctx, c, common.MethodDrop, &common.JarParam{Jar: jar})
	return err
}
