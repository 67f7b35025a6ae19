package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli"
	cmdCommon "github.com/warpdl/warpjar/cmd/common"
	"github.com/warpdl/warpjar/common"
	"github.com/warpdl/warpjar/pkg/cookiejar"
)

var (
	lsSource sourceFlags

	lsFlags = lsSource.flags()
)

// now is the reference time of the expiry column.
var now = time.Now

func list(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	jar, err := seedJar(context.Background(), cliLogger(), ctx.StringSlice("cookies-from"), lsSource.domain, lsSource.progress, lsSource.options()...)
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "list", "import", err)
		return nil
	}
	defer jar.Close()
	printStore(jar.FetchAll())
	return nil
}

// printStore writes a table of the store without cookie values.
func printStore(store cookiejar.Store) {
	if len(store) == 0 {
		fmt.Println("warpjar: no cookies found")
		return
	}
	txt := "Here are your cookies:"
	txt += "\n\n---------------------------------------------------------------------------------"
	txt += "\n|Num|        Domain        |     Path     |     Name     | Flags |     Expires    |"
	txt += "\n|---|----------------------|--------------|--------------|-------|----------------|"
	for i, c := range common.Flatten(store) {
		txt += fmt.Sprintf("\n| %d |%s|%s|%s|%s|%s|",
			i+1,
			cmdCommon.Cell(c.Domain, 22),
			cmdCommon.Cell(c.Path, 14),
			cmdCommon.Cell(c.Name, 14),
			cmdCommon.Cell(cookieFlags(c.Record), 7),
			cmdCommon.Cell(expiryText(c.Record), 16),
		)
	}
	txt += "\n---------------------------------------------------------------------------------"
	fmt.Println(txt)
}

// cookieFlags abbreviates the boolean attributes of a record:
// H host-only, S secure, X http-only.
func cookieFlags(rec cookiejar.Record) string {
	var b strings.Builder
	if rec.HostOnly {
		b.WriteByte('H')
	}
	if rec.SecureOnly {
		b.WriteByte('S')
	}
	if rec.HttpOnly {
		b.WriteByte('X')
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

func expiryText(rec cookiejar.Record) string {
	if !rec.Persistent {
		return "session"
	}
	return humanize.RelTime(rec.ExpiryTime, now(), "ago", "from now")
}
