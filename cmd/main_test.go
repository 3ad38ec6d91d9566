package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/hello/internal/config"
	"github.com/okian/hello/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

// freeAddr reserves a loopback port and releases it for the server to bind.
func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Addr = freeAddr(t)
	cfg.ShutdownTimeout = 2 * time.Second
	return cfg
}

func TestRun(t *testing.T) {
	convey.Convey("Given a valid configuration", t, func() {
		cfg := testConfig(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errCh := make(chan error, 1)
		go func() { errCh <- run(ctx, cfg) }()

		convey.Convey("When the service is up", func() {
			var (
				resp *http.Response
				err  error
			)
			for i := 0; i < 50; i++ {
				resp, err = http.Get("http://" + cfg.Addr + "/add/40/2")
				if err == nil {
					break
				}
				time.Sleep(20 * time.Millisecond)
			}
			convey.So(err, convey.ShouldBeNil)
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()

			convey.Convey("Then it should answer and stop cleanly on cancel", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(string(body), convey.ShouldEqual, "Result: 42")

				cancel()
				select {
				case err := <-errCh:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					t.Fatal("run did not return after cancel")
				}
			})
		})
	})

	convey.Convey("Given an unknown overflow policy", t, func() {
		cfg := testConfig(t)
		cfg.OverflowPolicy = "clamp"

		convey.Convey("Then run should fail before binding", func() {
			convey.So(run(context.Background(), cfg), convey.ShouldNotBeNil)
		})
	})

	convey.Convey("Given an address already in use", t, func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		convey.So(err, convey.ShouldBeNil)
		defer ln.Close()

		cfg := testConfig(t)
		cfg.Addr = ln.Addr().String()

		convey.Convey("Then run should report the bind error", func() {
			convey.So(run(context.Background(), cfg), convey.ShouldNotBeNil)
		})
	})

	convey.Convey("Given an unknown log format", t, func() {
		cfg := testConfig(t)
		cfg.LogFormat = "xml"

		convey.Convey("Then run should fail", func() {
			convey.So(run(context.Background(), cfg), convey.ShouldNotBeNil)
		})
	})
}

func TestSystemMetricsUpdater(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update should not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop should exit when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(done)
			}()
			cancel()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("updater did not stop")
			}
		})
	})
}
