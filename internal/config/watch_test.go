package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/hello/internal/config"
	"github.com/okian/hello/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestWatch(t *testing.T) {
	convey.Convey("Given a watched config file", t, func() {
		clearConfigEnvVars()
		tmpFile := createTempConfigFile("log_level: info\n")
		defer func() { _ = os.Remove(tmpFile) }()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		changes := make(chan *config.Config, 16)
		done := make(chan error, 1)
		go func() {
			done <- config.Watch(ctx, tmpFile, func(c *config.Config) {
				select {
				case changes <- c:
				default:
				}
			})
		}()

		// Give the watcher time to register the path.
		time.Sleep(200 * time.Millisecond)

		convey.Convey("When the file is rewritten with a new level", func() {
			err := os.WriteFile(tmpFile, []byte("log_level: debug\n"), 0o600)
			convey.So(err, convey.ShouldBeNil)

			// Truncate and write may arrive as separate events.
			got := waitForLevel(changes, "debug")

			convey.Convey("Then onChange should receive the reloaded config", func() {
				convey.So(got, convey.ShouldNotBeNil)
				convey.So(got.LogLevel, convey.ShouldEqual, "debug")
			})

			cancel()
			convey.So(<-done, convey.ShouldBeNil)
		})

		convey.Convey("When the context is cancelled", func() {
			cancel()

			convey.Convey("Then Watch should return without error", func() {
				convey.So(<-done, convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a config file saved by renaming a temp file over it", t, func() {
		clearConfigEnvVars()
		dir := t.TempDir()
		path := filepath.Join(dir, "hello.yaml")
		convey.So(os.WriteFile(path, []byte("log_level: info\n"), 0o600), convey.ShouldBeNil)

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		changes := make(chan *config.Config, 16)
		done := make(chan error, 1)
		go func() {
			done <- config.Watch(ctx, path, func(c *config.Config) {
				select {
				case changes <- c:
				default:
				}
			})
		}()
		time.Sleep(200 * time.Millisecond)

		saveByRename := func(content string) error {
			tmp := path + ".tmp"
			if err := os.WriteFile(tmp, []byte(content), 0o600); err != nil {
				return err
			}
			return os.Rename(tmp, path)
		}

		convey.Convey("When it is replaced twice in a row", func() {
			convey.So(saveByRename("log_level: debug\n"), convey.ShouldBeNil)
			first := waitForLevel(changes, "debug")

			convey.So(saveByRename("log_level: warn\n"), convey.ShouldBeNil)
			second := waitForLevel(changes, "warn")

			convey.Convey("Then both saves should be reloaded", func() {
				convey.So(first, convey.ShouldNotBeNil)
				convey.So(second, convey.ShouldNotBeNil)
				convey.So(second.LogLevel, convey.ShouldEqual, "warn")
			})

			cancel()
			convey.So(<-done, convey.ShouldBeNil)
		})
	})

	convey.Convey("Given a sibling file in the watched directory", t, func() {
		clearConfigEnvVars()
		dir := t.TempDir()
		path := filepath.Join(dir, "hello.yaml")
		convey.So(os.WriteFile(path, []byte("log_level: info\n"), 0o600), convey.ShouldBeNil)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		changes := make(chan *config.Config, 16)
		done := make(chan error, 1)
		go func() {
			done <- config.Watch(ctx, path, func(c *config.Config) {
				select {
				case changes <- c:
				default:
				}
			})
		}()
		time.Sleep(200 * time.Millisecond)

		convey.Convey("When only the sibling changes", func() {
			convey.So(os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("log_level: debug\n"), 0o600), convey.ShouldBeNil)

			convey.Convey("Then no reload should happen", func() {
				select {
				case c := <-changes:
					t.Fatalf("unexpected reload: %+v", c)
				case <-time.After(500 * time.Millisecond):
				}
			})

			cancel()
			convey.So(<-done, convey.ShouldBeNil)
		})
	})

	convey.Convey("Given a path that does not exist", t, func() {
		err := config.Watch(context.Background(), "/non/existent/file.yaml", func(*config.Config) {})
		convey.So(err, convey.ShouldNotBeNil)
	})
}

// waitForLevel returns the first reloaded config carrying level, or nil
// after a timeout.
func waitForLevel(changes <-chan *config.Config, level string) *config.Config {
	timeout := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			if c.LogLevel == level {
				return c
			}
		case <-timeout:
			return nil
		}
	}
}
