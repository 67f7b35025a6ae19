package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	cmdCommon "github.com/warpdl/warpjar/cmd/common"
	"github.com/warpdl/warpjar/common"
	"github.com/warpdl/warpjar/pkg/jarcli"
)

var (
	remoteURL    string
	remoteSecret string
	remoteJar    string
	importDomain string
	exportOutput string

	remoteFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "url",
			Usage:       "JSON-RPC endpoint of the daemon",
			EnvVar:      common.RPCURLEnv,
			Value:       common.DefaultRPCURL(),
			Destination: &remoteURL,
		},
		cli.StringFlag{
			Name:        "secret",
			Usage:       "bearer token of the daemon",
			EnvVar:      common.RPCSecretEnv,
			Destination: &remoteSecret,
		},
		cli.StringFlag{
			Name:        "jar, j",
			Usage:       "name of the daemon jar",
			Value:       DEF_JAR,
			Destination: &remoteJar,
		},
	}

	remoteCommands = []cli.Command{
		{
			Name:         "set",
			Usage:        "submits a Set-Cookie value received from a url",
			UsageText:    "<url> <set-cookie>",
			OnUsageError: cmdCommon.UsageErrorCallback,
			Action:       remoteSet,
		},
		{
			Name:         "header",
			Usage:        "prints the Cookie header for a url",
			UsageText:    "<url>",
			OnUsageError: cmdCommon.UsageErrorCallback,
			Action:       remoteHeader,
		},
		{
			Name:         "list",
			Usage:        "displays the cookies of the jar",
			OnUsageError: cmdCommon.UsageErrorCallback,
			Action:       remoteList,
		},
		{
			Name:         "jars",
			Usage:        "displays the jars held by the daemon",
			OnUsageError: cmdCommon.UsageErrorCallback,
			Action:       remoteJars,
		},
		{
			Name:         "import",
			Usage:        "seeds the jar from a cookie file on the daemon host",
			UsageText:    "<path|auto>",
			OnUsageError: cmdCommon.UsageErrorCallback,
			Action:       remoteImport,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "domain, d",
					Usage:       "only import cookies for this domain and its subdomains",
					Destination: &importDomain,
				},
			},
		},
		{
			Name:         "export",
			Usage:        "writes the jar in Netscape cookies.txt format",
			OnUsageError: cmdCommon.UsageErrorCallback,
			Action:       remoteExport,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "output, o",
					Usage:       "write to this file instead of stdout",
					Destination: &exportOutput,
				},
			},
		},
		{
			Name:         "drop",
			Usage:        "discards the jar",
			OnUsageError: cmdCommon.UsageErrorCallback,
			Action:       remoteDrop,
		},
		{
			Name:         "version",
			Usage:        "prints the daemon version",
			OnUsageError: cmdCommon.UsageErrorCallback,
			Action:       remoteVersion,
		},
	}
)

// remoteCall runs fn with a client and a bounded context. It reports
// failures the same way for every remote command.
func remoteCall(ctx *cli.Context, action string, fn func(context.Context, *jarcli.Client) error) error {
	client := jarcli.NewClient(remoteURL, remoteSecret)
	defer client.Close()
	cctx, cancel := context.WithTimeout(context.Background(), DEF_RPC_TIMEOUT)
	defer cancel()
	if err := fn(cctx, client); err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "remote", action, err)
	}
	return nil
}

func remoteSet(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return cmdCommon.PrintErrWithCmdHelp(ctx, errors.New("a url and a Set-Cookie value are required"))
	}
	return remoteCall(ctx, "set", func(c context.Context, client *jarcli.Client) error {
		return client.SetCookie(c, remoteJar, ctx.Args().Get(0), ctx.Args().Get(1))
	})
}

func remoteHeader(ctx *cli.Context) error {
	if !ctx.Args().Present() {
		return cmdCommon.PrintErrWithCmdHelp(ctx, errors.New("no url provided"))
	}
	return remoteCall(ctx, "header", func(c context.Context, client *jarcli.Client) error {
		h, err := client.CookieHeader(c, remoteJar, ctx.Args().First())
		if err != nil {
			return err
		}
		fmt.Println(h)
		return nil
	})
}

func remoteList(ctx *cli.Context) error {
	return remoteCall(ctx, "list", func(c context.Context, client *jarcli.Client) error {
		store, err := client.FetchAll(c, remoteJar)
		if err != nil {
			return err
		}
		printStore(store)
		return nil
	})
}

func remoteJars(ctx *cli.Context) error {
	return remoteCall(ctx, "jars", func(c context.Context, client *jarcli.Client) error {
		jars, err := client.List(c)
		if err != nil {
			return err
		}
		if len(jars) == 0 {
			fmt.Println("warpjar: no jars found")
			return nil
		}
		for _, j := range jars {
			fmt.Printf("%s\t%d cookies\n", j.Name, j.Count)
		}
		return nil
	})
}

func remoteImport(ctx *cli.Context) error {
	if !ctx.Args().Present() {
		return cmdCommon.PrintErrWithCmdHelp(ctx, errors.New("no cookie source provided"))
	}
	return remoteCall(ctx, "import", func(c context.Context, client *jarcli.Client) error {
		res, err := client.Import(c, remoteJar, ctx.Args().First(), importDomain)
		if err != nil {
			return err
		}
		fmt.Printf("imported %d cookies from %s into %q\n", res.Imported, res.Browser, remoteJar)
		return nil
	})
}

func remoteExport(ctx *cli.Context) error {
	return remoteCall(ctx, "export", func(c context.Context, client *jarcli.Client) error {
		text, err := client.Export(c, remoteJar)
		if err != nil {
			return err
		}
		if exportOutput == "" {
			fmt.Print(text)
			return nil
		}
		return afero.WriteFile(fsys, exportOutput, []byte(text), 0o600)
	})
}

func remoteDrop(ctx *cli.Context) error {
	return remoteCall(ctx, "drop", func(c context.Context, client *jarcli.Client) error {
		return client.Drop(c, remoteJar)
	})
}

func remoteVersion(ctx *cli.Context) error {
	return remoteCall(ctx, "version", func(c context.Context, client *jarcli.Client) error {
		v, err := client.Version(c)
		if err != nil {
			return err
		}
		fmt.Printf("%s-%s (%s)\n", v.Version, v.BuildType, v.Commit)
		return nil
	})
}
