package main

import (
	"flag"
	"log"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"hifi/cmd"
	"hifi/config"
	"hifi/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var (
		root string
		port int
	)
	flag.StringVar(&root, "root", "", "Music library root directory")
	flag.IntVar(&port, "port", 0, "Port for the web server")
	flag.Parse()

	if root != "" {
		cfg.Root = root
	}
	if port != 0 {
		cfg.Port = port
	}

	if cfg.Root == "" {
		log.Fatalf("You must provide a music library root (-root flag, HIFI_ROOT, or config.toml)")
	}

	library := services.NewLibrary(cfg.Root, services.NewTagReader())

	log.Printf("Scanning %s ...", cfg.Root)
	report, err := library.Scan(newBarReporter())
	if err != nil {
		log.Fatalf("Failed to scan library: %v", err)
	}

	snap := library.Snapshot()
	log.Printf("Indexed %s tracks (%s), skipped %d",
		humanize.Comma(int64(report.Scanned)),
		humanize.IBytes(uint64(snap.Catalog.TotalSize())),
		report.Skipped,
	)

	cmd.StartWebServer(cfg, library)
}

// barReporter shows startup scan progress on the terminal.
type barReporter struct {
	bar *progressbar.ProgressBar
}

func newBarReporter() *barReporter {
	return &barReporter{
		bar: progressbar.Default(-1, "indexing"),
	}
}

func (r *barReporter) FileIndexed(path string, scanned, skipped int) {
	r.bar.Add(1)
}
