// sendlog dispatches one operational day's log by hand: recovery for
// trigger windows the bot slept through. It reuses the bot's config,
// marker and delivery path, so a manual send is indistinguishable from
// a scheduled one.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"sinaleiro/internal/logstore"
	"sinaleiro/internal/modules/config"
	telegramsvc "sinaleiro/internal/modules/telegram/service"
	"sinaleiro/pkg/logger"
)

func main() {
	date := flag.String("date", "", "operational day to send (YYYY-MM-DD); default: last closed day")
	keep := flag.Bool("keep", false, "do not delete the log file after sending")
	flag.Parse()

	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.SetServiceName("sendlog")

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatal("config: %v", err)
	}

	store := logstore.New(cfg.Log.Dir, cfg.Log.CutoverHour, cfg.Location())
	marker := logstore.NewMarker(cfg.Log.MarkerPath)

	var target time.Time
	if *date != "" {
		target, err = time.ParseInLocation("2006-01-02", *date, cfg.Location())
		if err != nil {
			logger.Fatal("bad -date %q: %v", *date, err)
		}
	} else {
		target = store.Day(time.Now()).AddDate(0, 0, -1)
	}
	iso := target.Format("2006-01-02")

	if !store.Exists(target) {
		logger.Fatal("no log file for %s (%s)", iso, store.Path(target))
	}

	tg, err := telegramsvc.NewTelegram(cfg)
	if err != nil {
		logger.Fatal("telegram: %v", err)
	}

	caption := fmt.Sprintf("📊 Log diário (envio manual)\nData operacional: %s", target.Format("02/01/2006"))
	if err := tg.SendFile(store.Path(target), caption); err != nil {
		logger.Fatal("send %s: %v", iso, err)
	}

	if err := marker.Set(iso); err != nil {
		logger.Fatal("marker write for %s (log file kept): %v", iso, err)
	}
	if !*keep {
		if err := store.Remove(target); err != nil {
			logger.Error("remove %s: %v", store.Path(target), err)
		}
	}
	logger.Info("log %s dispatched", iso)
}
