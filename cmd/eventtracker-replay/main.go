// Package main replays recorded play and share events through the event tracker.
//
// Events are read from standard input, one JSON object per line:
//
//	{"kind": "play", "refID": "vid42", "apiSessionID": "sess9", "viewTimeSeconds": 42.5}
//	{"kind": "share", "shareMethod": "Email", "refID": "vid42", "apiSessionID": "sess9"}
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/mbsj/go-event-tracker/internal/cmd/replay"
)

func main() {
	cfg, err := replay.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[REPLAY] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loggers := ldlog.NewDefaultLoggers()
	stats, err := replay.Run(ctx, cfg, os.Stdin, loggers)
	if err != nil {
		log.Fatalf("replay: %v", err)
	}
	log.Printf("tracked %d events, rejected %d, %d still queued", stats.Tracked, stats.Rejected, stats.Pending)
}
