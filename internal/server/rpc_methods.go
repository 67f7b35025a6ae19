package server

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/spf13/afero"
	"github.com/warpdl/warpjar/common"
	"github.com/warpdl/warpjar/internal/cookies"
	"github.com/warpdl/warpjar/pkg/cookiejar"
	"github.com/warpdl/warpjar/pkg/logger"
)

// Custom JSON-RPC error codes for jar operations.
const (
	codeJarNotFound   = jrpc2.Code(-32001)
	codeImportFailed  = jrpc2.Code(-32002)
	codeInvalidParams = jrpc2.Code(-32602)
)

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // Auth token (required -- empty means every request is rejected)
	ListenAll bool   // If true, bind to 0.0.0.0 instead of 127.0.0.1
	Port      int
	Version   string
	Commit    string
	BuildType string
}

// RPCServer holds the jar registry and the JSON-RPC method table.
type RPCServer struct {
	methods   handler.Map
	bridge    jhttp.Bridge
	secret    string
	version   string
	commit    string
	buildType string
	jars      *jarRegistry
	fs        afero.Fs
	notifier  *RPCNotifier
	log       logger.Logger
	now       func() time.Time
}

// NewRPCServer creates an RPCServer whose jars are bound to ctx. Import
// sources are read through fsys.
func NewRPCServer(ctx context.Context, cfg *RPCConfig, jcfg JarConfig, fsys afero.Fs, l logger.Logger) *RPCServer {
	rs := &RPCServer{
		secret:    cfg.Secret,
		version:   cfg.Version,
		commit:    cfg.Commit,
		buildType: cfg.BuildType,
		jars:      newJarRegistry(ctx, jcfg, l),
		fs:        fsys,
		notifier:  NewRPCNotifier(l),
		log:       l,
		now:       time.Now,
	}

	rs.methods = handler.Map{
		common.MethodGetVersion:   handler.New(rs.systemGetVersion),
		common.MethodJarList:      handler.New(rs.jarList),
		common.MethodSetCookie:    handler.New(rs.jarSetCookie),
		common.MethodCookieHeader: handler.New(rs.jarCookieHeader),
		common.MethodCookies:      handler.New(rs.jarCookies),
		common.MethodFetchAll:     handler.New(rs.jarFetchAll),
		common.MethodImport:       handler.New(rs.jarImport),
		common.MethodExport:       handler.New(rs.jarExport),
		common.MethodDrop:         handler.New(rs.jarDrop),
	}
	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*common.VersionResult, error) {
	return &common.VersionResult{
		Version:   rs.version,
		Commit:    rs.commit,
		BuildType: rs.buildType,
	}, nil
}

func (rs *RPCServer) jarList(_ context.Context) (*common.JarListResult, error) {
	names := rs.jars.names()
	out := make([]common.JarInfo, 0, len(names))
	for _, name := range names {
		j, err := rs.jars.get(name, false)
		if err != nil {
			// dropped concurrently
			continue
		}
		out = append(out, common.JarInfo{Name: name, Count: j.Len()})
	}
	return &common.JarListResult{Jars: out}, nil
}

// jarSetCookie submits a Set-Cookie value, creating the jar on first use.
// Peers are notified with the cookie name only.
func (rs *RPCServer) jarSetCookie(_ context.Context, p *common.SetCookieParams) (*common.EmptyResult, error) {
	if err := requireJar(p.Jar); err != nil {
		return nil, err
	}
	u, err := parseRequestURL(p.URL)
	if err != nil {
		return nil, err
	}
	if p.SetCookie == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: setCookie"}
	}
	j, err := rs.jars.get(p.Jar, true)
	if err != nil {
		return nil, rpcError(err)
	}
	j.SetCookie(u, p.SetCookie)
	rs.notifier.Broadcast(common.NotifyCookieSubmitted, &common.CookieSubmittedNotification{
		Jar:  p.Jar,
		Host: u.Hostname(),
		Name: submittedName(p.SetCookie),
	})
	return &common.EmptyResult{}, nil
}

func (rs *RPCServer) jarCookieHeader(_ context.Context, p *common.JarURLParams) (*common.HeaderResult, error) {
	j, u, err := rs.jarAndURL(p)
	if err != nil {
		return nil, err
	}
	return &common.HeaderResult{Header: j.CookieHeader(u)}, nil
}

func (rs *RPCServer) jarCookies(_ context.Context, p *common.JarURLParams) (*common.CookiesResult, error) {
	j, u, err := rs.jarAndURL(p)
	if err != nil {
		return nil, err
	}
	selected := j.Cookies(u)
	out := make([]common.CookiePair, 0, len(selected))
	for _, c := range selected {
		out = append(out, common.CookiePair{Name: c.Name, Value: c.Value})
	}
	return &common.CookiesResult{Cookies: out}, nil
}

func (rs *RPCServer) jarFetchAll(_ context.Context, p *common.JarParam) (*common.FetchAllResult, error) {
	j, err := rs.existingJar(p.Jar)
	if err != nil {
		return nil, err
	}
	return &common.FetchAllResult{Cookies: common.Flatten(j.FetchAll())}, nil
}

// jarImport seeds a jar from a cookie file on the daemon host.
func (rs *RPCServer) jarImport(_ context.Context, p *common.ImportParams) (*common.ImportResult, error) {
	if err := requireJar(p.Jar); err != nil {
		return nil, err
	}
	if p.Path == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: path"}
	}
	imported, src, err := cookies.ImportSource(rs.fs, p.Path, p.Domain)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeImportFailed, Message: err.Error()}
	}
	seed := cookies.ToStore(imported, rs.now())
	j, err := rs.jars.get(p.Jar, true)
	if err != nil {
		return nil, rpcError(err)
	}
	j.Load(seed)
	rs.log.Info("imported %d cookies from %s into jar %q", len(seed), src.Browser, p.Jar)
	return &common.ImportResult{Imported: len(seed), Browser: src.Browser}, nil
}

func (rs *RPCServer) jarExport(_ context.Context, p *common.JarParam) (*common.ExportResult, error) {
	j, err := rs.existingJar(p.Jar)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := cookies.WriteNetscape(&buf, j.FetchAll()); err != nil {
		return nil, err
	}
	return &common.ExportResult{Netscape: buf.String()}, nil
}

func (rs *RPCServer) jarDrop(_ context.Context, p *common.JarParam) (*common.EmptyResult, error) {
	if err := requireJar(p.Jar); err != nil {
		return nil, err
	}
	if err := rs.jars.drop(p.Jar); err != nil {
		return nil, rpcError(err)
	}
	return &common.EmptyResult{}, nil
}

func (rs *RPCServer) existingJar(name string) (*cookiejar.Jar, error) {
	if err := requireJar(name); err != nil {
		return nil, err
	}
	j, err := rs.jars.get(name, false)
	if err != nil {
		return nil, rpcError(err)
	}
	return j, nil
}

func (rs *RPCServer) jarAndURL(p *common.JarURLParams) (*cookiejar.Jar, *url.URL, error) {
	u, err := parseRequestURL(p.URL)
	if err != nil {
		return nil, nil, err
	}
	j, err := rs.existingJar(p.Jar)
	if err != nil {
		return nil, nil, err
	}
	return j, u, nil
}

func requireJar(name string) error {
	if name == "" {
		return &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: jar"}
	}
	return nil
}

// parseRequestURL accepts absolute URLs with a scheme and host.
func parseRequestURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: url"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "invalid url: " + err.Error()}
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "invalid url: scheme and host required"}
	}
	return u, nil
}

func rpcError(err error) error {
	if errors.Is(err, ErrJarNotFound) {
		return &jrpc2.Error{Code: codeJarNotFound, Message: "jar not found"}
	}
	return err
}

// submittedName extracts the cookie name from a raw Set-Cookie value
// without touching the value.
func submittedName(raw string) string {
	pair, _, _ := strings.Cut(raw, ";")
	name, _, _ := strings.Cut(pair, "=")
	return strings.Trim(name, " \t")
}

// Close ends WebSocket sessions, shuts down the jrpc2 bridge and closes
// every jar.
func (rs *RPCServer) Close() {
	rs.notifier.stopAll()
	rs.bridge.Close()
	rs.jars.closeAll()
}
