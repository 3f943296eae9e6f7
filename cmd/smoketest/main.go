package main

import (
	"context"
	"fmt"
	"log/slog"
	neturl "net/url"
	"os"
	"strings"
	"time"

	"github.com/myrjola/homegym/internal/e2etest"
	"github.com/myrjola/homegym/internal/logging"
	"github.com/myrjola/homegym/internal/testhelpers"
)

// checkPages walks the pages an anonymous visitor sees and logs a sun session, which exercises the session store
// and the database.
func checkPages(ctx context.Context, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	for _, path := range []string{"/", "/stats", "/history", "/nutrition", "/sun", "/profile", "/coach"} {
		doc, err := client.GetDoc(ctx, path)
		if err != nil {
			return fmt.Errorf("get %s: %w", path, err)
		}
		if doc.Find("main").Length() == 0 {
			return fmt.Errorf("page %s has no main element", path)
		}
	}

	doc, err := client.PostForm(ctx, "/sun", neturl.Values{"date": {""}})
	if err != nil {
		return fmt.Errorf("log sun: %w", err)
	}
	if doc.Find(`[data-testid="sun-log"]`).Length() == 0 {
		return fmt.Errorf("sun log missing after posting")
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		client   *e2etest.Client
		err      error
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", slog.Any("error", err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}
	if err = checkPages(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error checking pages", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
