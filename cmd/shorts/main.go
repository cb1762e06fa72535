// Command shorts is a terminal client for the shorts feed: vertically
// paginated bilingual news cards with bookmarks and a persisted session.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/alshorts/shorts/internal/api"
	"github.com/alshorts/shorts/internal/config"
	"github.com/alshorts/shorts/internal/controller"
	"github.com/alshorts/shorts/internal/feed"
	"github.com/alshorts/shorts/internal/logging"
	"github.com/alshorts/shorts/internal/session"
	"github.com/alshorts/shorts/internal/ui"
)

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "shorts: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	peek := flag.Bool("peek", false, "print the first feed page and exit (no TUI)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	dataDir := config.Dir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		fatal("create data directory: %v", err)
	}
	if err := logging.Init(dataDir); err != nil {
		fatal("init logging: %v", err)
	}
	defer logging.Close()
	if *debug {
		logging.SetDebug()
	}

	cfg := config.Load()

	sess, err := session.Open(filepath.Join(dataDir, "shorts.db"))
	if err != nil {
		fatal("open session store: %v", err)
	}
	defer sess.Close()
	sess.Restore()

	client := api.NewClient(cfg.APIBaseURL, sess)
	ctrl := controller.New(cfg.StartLanguage(), cfg.PageLimit, sess)

	if *peek {
		if err := runPeek(client, cfg, sess); err != nil {
			fatal("%v", err)
		}
		return
	}

	logging.Info("starting",
		"base", cfg.APIBaseURL,
		"language", cfg.Language,
		"authenticated", sess.Authenticated(),
	)

	p := tea.NewProgram(
		ui.New(ctrl, client, sess, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fatal("run: %v", err)
	}
}

// runPeek fetches the first page (and, when logged in, the bookmark ids)
// concurrently and prints a plain-text digest. Useful for checking the
// backend without entering the TUI.
func runPeek(client *api.Client, cfg *config.Config, sess *session.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lang := cfg.StartLanguage()

	var (
		items []feed.Item
		marks map[string]bool
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := client.FetchFeed(ctx, 1, lang, cfg.PageLimit)
		if err != nil {
			return fmt.Errorf("fetch feed: %w", err)
		}
		items = page
		return nil
	})
	if sess.Authenticated() {
		g.Go(func() error {
			ids, err := client.Bookmarks(ctx)
			if err != nil {
				return fmt.Errorf("fetch bookmarks: %w", err)
			}
			marks = make(map[string]bool, len(ids))
			for _, id := range ids {
				marks[id] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("feed is empty")
		return nil
	}
	now := time.Now()
	for i, it := range items {
		star := " "
		if marks[it.ID] {
			star = "★"
		}
		fmt.Printf("%2d %s %s  (%s)\n", i+1, star, it.Title(lang), it.Age(now))
	}
	return nil
}
