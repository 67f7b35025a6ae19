package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/spf13/afero"
	"github.com/warpdl/warpjar/common"
	"github.com/warpdl/warpjar/pkg/logger"
)

// bearerClient adds the daemon bearer token to every request.
type bearerClient struct {
	token string
}

func (c *bearerClient) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	return http.DefaultClient.Do(req)
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestServer_ListenAddr(t *testing.T) {
	s := NewServer(context.Background(), logger.NewNopLogger(), &RPCConfig{}, JarConfig{}, afero.NewMemMapFs())
	defer s.Shutdown()
	if got, want := s.listenAddr(), "127.0.0.1:"+strconv.Itoa(common.DefaultRPCPort); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	s.cfg.ListenAll = true
	if got, want := s.listenAddr(), "0.0.0.0:"+strconv.Itoa(common.DefaultRPCPort); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestServer_StartServeShutdown(t *testing.T) {
	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewServer(ctx, logger.NewNopLogger(), &RPCConfig{Secret: "k", Port: port, Version: "9.9.9"}, DefaultJarConfig(), afero.NewMemMapFs())
	errc := make(chan error, 1)
	go func() { errc <- s.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for s.Addr() == nil && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.Addr() == nil {
		t.Fatal("server did not start listening")
	}

	ch := jhttp.NewChannel("http://"+s.Addr().String()+"/jsonrpc", &jhttp.ChannelOptions{
		Client: &bearerClient{token: "k"},
	})
	cli := jrpc2.NewClient(ch, nil)
	defer cli.Close()

	var v common.VersionResult
	if err := cli.CallResult(ctx, "system.getVersion", nil, &v); err != nil {
		t.Fatalf("call: %v", err)
	}
	if v.Version != "9.9.9" {
		t.Fatalf("unexpected version %+v", v)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Start returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	if err := s.Shutdown(); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
}

func TestServer_StartPortInUse(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	s := NewServer(context.Background(), logger.NewNopLogger(), &RPCConfig{Port: l.Addr().(*net.TCPAddr).Port}, JarConfig{}, afero.NewMemMapFs())
	defer s.Shutdown()
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}

func TestJarRegistry(t *testing.T) {
	log := logger.NewMockLogger()
	r := newJarRegistry(context.Background(), JarConfig{SweepCron: "* * * * *", LongestPathFirst: true}, log)
	defer r.closeAll()

	if _, err := r.get("a", false); err != ErrJarNotFound {
		t.Fatalf("expected ErrJarNotFound, got %v", err)
	}
	a1, _ := r.get("a", true)
	a2, _ := r.get("a", false)
	if a1 != a2 {
		t.Fatal("expected the same jar on second lookup")
	}
	r.get("b", true)
	if names := r.names(); len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("unexpected names %v", names)
	}
	if err := r.drop("a"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if err := r.drop("a"); err != ErrJarNotFound {
		t.Fatalf("expected ErrJarNotFound, got %v", err)
	}
	if len(log.InfoCalls()) != 3 {
		t.Fatalf("expected 3 info logs, got %v", log.InfoCalls())
	}
}
