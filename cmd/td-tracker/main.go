package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	lib "github.com/openrail/tdtracker"
	"github.com/openrail/tdtracker/alert"
	"github.com/openrail/tdtracker/config"
)

func main() {
	mode := flag.String("mode", "serve", "serve|replay")
	cfgPath := flag.String("config", "", "path to config file (default: conventional locations)")
	replayFile := flag.String("replay", "", "NDJSON feed capture to replay (replay mode)")
	window := flag.String("window", "", "window name to print after replay (default: all)")
	flag.Parse()

	lib.InitLogging()
	cfg, err := config.LoadAppConfig(*cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	notifier := alert.NewNotifier(64)
	var publisher alert.Publisher = notifier
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Topic != "" {
		kp, err := alert.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Fatalf("connecting Kafka: %v", err)
		}
		defer kp.Close()
		publisher = alert.Fanout{notifier, kp}
	}
	go func() {
		for ev := range notifier.Events() {
			log.Printf("ALERT [%s] %s (%s) entered %s", ev.Window, ev.Description, ev.Category, ev.Berth)
		}
	}()

	hub, err := lib.NewHub(cfg, publisher)
	if err != nil {
		log.Fatalf("building hub: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := hub.RefreshTopology(ctx); err != nil {
		log.Fatalf("loading topology: %v", err)
	}

	switch *mode {
	case "serve":
		go hub.Run(ctx)
		server := hub.StartServer()
		lib.HandleGracefulShutdown(server)
		_ = hub.Close()
	case "replay":
		if *replayFile == "" {
			log.Fatal("replay mode requires -replay FILE")
		}
		if err := replay(hub, *replayFile, *window); err != nil {
			log.Fatalf("replay: %v", err)
		}
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

// replay feeds a captured NDJSON stream through the hub, then prints the
// resulting window snapshots.
func replay(hub *lib.Hub, path, window string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	lines := 0
	for scanner.Scan() {
		hub.HandleRaw(scanner.Bytes())
		lines++
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	_ = hub.Close() // flush queued alerts before printing
	log.Printf("replayed %d lines", lines)

	snapshots := hub.Snapshot()
	if window != "" {
		only, ok := snapshots[window]
		if !ok {
			return fmt.Errorf("unknown window %q", window)
		}
		snapshots = map[string][]lib.WindowTrain{window: only}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snapshots)
}
