package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli"
	cmdCommon "github.com/warpdl/warpjar/cmd/common"
	"github.com/warpdl/warpjar/common"
	"github.com/warpdl/warpjar/internal/server"
	"github.com/warpdl/warpjar/pkg/logger"
)

var (
	rpcSecret string
	rpcPort   int
	listenAll bool
	sweepCron string
	noIDNA    bool
	noPSL     bool
	daemonLPF bool
	logFile   string

	daemonFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "secret",
			Usage:       "bearer token every client must present",
			EnvVar:      common.RPCSecretEnv,
			Destination: &rpcSecret,
		},
		cli.IntFlag{
			Name:        "port, p",
			Usage:       "TCP port to listen on",
			EnvVar:      common.RPCPortEnv,
			Value:       common.DefaultRPCPort,
			Destination: &rpcPort,
		},
		cli.BoolFlag{
			Name:        "listen-all",
			Usage:       "listen on all interfaces instead of " + common.TCPHost,
			Destination: &listenAll,
		},
		cli.StringFlag{
			Name:        "sweep-cron",
			Usage:       "cron schedule of the expired cookie sweep, empty to disable",
			EnvVar:      common.SweepCronEnv,
			Value:       common.DefaultSweepCron,
			Destination: &sweepCron,
		},
		cli.BoolFlag{
			Name:        "no-idna",
			Usage:       "compare hosts byte for byte instead of lower-casing and converting to punycode",
			Destination: &noIDNA,
		},
		cli.BoolFlag{
			Name:        "no-psl",
			Usage:       "accept Domain attributes that are public suffixes",
			Destination: &noPSL,
		},
		cli.BoolFlag{
			Name:        "longest-path-first",
			Usage:       "order cookies with longer paths first",
			Destination: &daemonLPF,
		},
		cli.StringFlag{
			Name:        "log-file",
			Usage:       "also append daemon logs to this file",
			Destination: &logFile,
		},
	}
)

// daemonContext is replaced in tests to stop the daemon without a signal.
var daemonContext = setupShutdownHandler

func daemon(ctx *cli.Context) error {
	if rpcSecret == "" {
		return cmdCommon.PrintErrWithCmdHelp(ctx, errors.New("a secret is required, use --secret or "+common.RPCSecretEnv))
	}
	l, err := daemonLogger()
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "daemon", "open_log", err)
		return nil
	}
	defer l.Close()

	jcfg := server.JarConfig{
		Canonicalize:     !noIDNA,
		PublicSuffix:     !noPSL,
		SweepCron:        sweepCron,
		LongestPathFirst: daemonLPF,
	}
	cfg := &server.RPCConfig{
		Secret:    rpcSecret,
		ListenAll: listenAll,
		Port:      rpcPort,
		Version:   buildInfo.Version,
		Commit:    buildInfo.Commit,
		BuildType: buildInfo.BuildType,
	}
	sctx, cancel := daemonContext()
	defer cancel()
	serv := server.NewServer(sctx, l, cfg, jcfg, fsys)
	if err := serv.Start(sctx); err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "daemon", "start", err)
		return nil
	}
	return nil
}

func daemonLogger() (logger.Logger, error) {
	console := logger.NewStandardLogger(log.New(os.Stderr, "", log.LstdFlags), logger.WithPrefix("daemon"))
	if logFile == "" {
		return console, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open log file: %w", err)
	}
	file := logger.NewStandardLogger(log.New(f, "", log.LstdFlags), logger.WithPrefix("daemon"))
	return logger.NewMultiLogger(console, &fileLogger{StandardLogger: file, f: f}), nil
}

// fileLogger closes the log file along with the logger.
type fileLogger struct {
	*logger.StandardLogger
	f *os.File
}

func (l *fileLogger) Close() error {
	return errors.Join(l.StandardLogger.Close(), l.f.Close())
}
