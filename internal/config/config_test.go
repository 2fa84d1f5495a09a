package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	config "github.com/veganaut/veganaut-backend/internal/config"
)

func TestConfig_Defaults(t *testing.T) {
	Convey("Given no overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the defaults load", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.DailyDecayPercent, ShouldEqual, 10)
			So(cfg.MaxTriggerDepth, ShouldEqual, 1)
			So(cfg.RetryQueueSize, ShouldEqual, 10_000)
			So(cfg.ReconcilerCount, ShouldEqual, 2)
			So(cfg.DedupeSize, ShouldEqual, 50_000)
			So(cfg.ShardCount, ShouldEqual, 8)
		})
	})
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("VEGANAUT_ADDR", ":7070")
	t.Setenv("VEGANAUT_LOG_LEVEL", "debug")
	t.Setenv("VEGANAUT_SHARD_COUNT", "32")

	Convey("Given environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then they win over the defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.ShardCount, ShouldEqual, 32)
		})

		Convey("And untouched values keep their defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.MaxTriggerDepth, ShouldEqual, 1)
		})
	})
}

func TestConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":6060\"\nmax_trigger_depth: 3\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("VEGANAUT_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then its values load", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
			So(cfg.MaxTriggerDepth, ShouldEqual, 3)
		})
	})
}

func TestConfig_FileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":6060\"\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("VEGANAUT_CONFIG", path)
	t.Setenv("VEGANAUT_ADDR", ":7070")

	Convey("Given both a file and an env override", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the environment wins", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
		})
	})
}

func TestConfig_Validation(t *testing.T) {
	t.Setenv("VEGANAUT_DAILY_DECAY_PERCENT", "150")

	Convey("Given an out-of-range decay", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then loading fails", func() {
			So(cfg, ShouldBeNil)
			So(err, ShouldWrap, config.ErrInvalidConfig)
		})
	})
}

func TestConfig_MissingFile(t *testing.T) {
	t.Setenv("VEGANAUT_CONFIG", "/does/not/exist.yaml")

	Convey("Given a config path that does not exist", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading fails with a load error", func() {
			So(err, ShouldWrap, config.ErrLoadConfig)
		})
	})
}
