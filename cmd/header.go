package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/urfave/cli"
	"github.com/warpdl/warpjar/cmd/common"
	"github.com/warpdl/warpjar/pkg/cookiejar"
	"golang.org/x/net/publicsuffix"
)

// sourceFlags are shared by the local commands that seed a jar.
type sourceFlags struct {
	domain   string
	progress bool
	noIDNA   bool
	noPSL    bool
}

func (f *sourceFlags) flags() []cli.Flag {
	return []cli.Flag{
		cli.StringSliceFlag{
			Name:  "cookies-from",
			Usage: "seed the jar from a browser cookie store, a Netscape cookies.txt file or \"auto\" (repeatable)",
		},
		cli.StringFlag{
			Name:        "domain, d",
			Usage:       "only import cookies for this domain and its subdomains",
			Destination: &f.domain,
		},
		cli.BoolFlag{
			Name:        "progress",
			Usage:       "show a progress bar while importing cookie sources",
			Destination: &f.progress,
		},
		cli.BoolFlag{
			Name:        "no-idna",
			Usage:       "compare hosts byte for byte instead of lower-casing and converting to punycode",
			Destination: &f.noIDNA,
		},
		cli.BoolFlag{
			Name:        "no-psl",
			Usage:       "accept Domain attributes that are public suffixes",
			Destination: &f.noPSL,
		},
	}
}

func (f *sourceFlags) options() []cookiejar.Option {
	var opts []cookiejar.Option
	if !f.noIDNA {
		opts = append(opts, cookiejar.WithCanonicalizer(cookiejar.IDNACanonicalizer))
	}
	if !f.noPSL {
		opts = append(opts, cookiejar.WithPublicSuffixList(publicsuffix.List))
	}
	return opts
}

var (
	longestPathFirst bool
	hdSource         sourceFlags

	hdFlags = append([]cli.Flag{
		cli.StringSliceFlag{
			Name:  "set-cookie, s",
			Usage: "a Set-Cookie header value received from the url (repeatable)",
		},
		cli.BoolFlag{
			Name:        "longest-path-first",
			Usage:       "order cookies with longer paths first",
			Destination: &longestPathFirst,
		},
	}, hdSource.flags()...)
)

func header(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if !ctx.Args().Present() {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no url provided"))
	}
	u, err := url.Parse(ctx.Args().First())
	if err != nil {
		common.PrintRuntimeErr(ctx, "header", "parse_url", err)
		return nil
	}
	if u.Host == "" {
		common.PrintRuntimeErr(ctx, "header", "parse_url", fmt.Errorf("url %q has no host", u.String()))
		return nil
	}
	opts := hdSource.options()
	if longestPathFirst {
		opts = append(opts, cookiejar.WithPathOrder(cookiejar.PathOrderDescending))
	}
	jar, err := seedJar(context.Background(), cliLogger(), ctx.StringSlice("cookies-from"), hdSource.domain, hdSource.progress, opts...)
	if err != nil {
		common.PrintRuntimeErr(ctx, "header", "import", err)
		return nil
	}
	defer jar.Close()
	for _, raw := range ctx.StringSlice("set-cookie") {
		jar.SetCookie(u, raw)
	}
	fmt.Println(jar.CookieHeader(u))
	return nil
}
