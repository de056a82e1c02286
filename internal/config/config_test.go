package config_test

import (
	"path/filepath"
	"testing"

	"github.com/okian/aporte/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Cadence, convey.ShouldEqual, config.CadenceHalfMonth)
			convey.So(cfg.HistoryTopN, convey.ShouldEqual, 10)
			convey.So(cfg.BaseAward, convey.ShouldEqual, 1)
			convey.So(cfg.BonusAward, convey.ShouldEqual, 1)
			convey.So(cfg.BonusThreshold, convey.ShouldEqual, 800)
			convey.So(cfg.TelegramToken, convey.ShouldBeEmpty)
			convey.So(cfg.UpdateQueueSize, convey.ShouldEqual, 1024)
		})

		convey.Convey("Then document paths should join the data dir", func() {
			cfg.DataDir = "/var/lib/aporte"
			convey.So(cfg.LedgerPath(), convey.ShouldEqual, filepath.Join("/var/lib/aporte", "ranking.json"))
			convey.So(cfg.ArchivePath(), convey.ShouldEqual, filepath.Join("/var/lib/aporte", "ranking_history.json"))
		})
	})
}
