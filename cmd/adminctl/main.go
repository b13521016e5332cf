// Command adminctl lists the admin directory and relays a selection from a terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"golang.org/x/text/language"

	"github.com/Its-donkey/admin-picker/internal/config"
	"github.com/Its-donkey/admin-picker/internal/ui/app"
	"github.com/Its-donkey/admin-picker/internal/ui/directory"
	"github.com/Its-donkey/admin-picker/internal/ui/i18n"
	"github.com/Its-donkey/admin-picker/internal/ui/model"
	"github.com/Its-donkey/admin-picker/internal/ui/view"
	"github.com/Its-donkey/admin-picker/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("adminctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", config.DefaultPath, "path to configuration (.json, .toml, .yaml)")
	apiBase := fs.String("api", "", "directory API base URL (defaults to api.base_url)")
	locale := fs.String("lang", "", "output language: ru or en (defaults to ui.locale)")
	verbose := fs.Bool("v", false, "log requests to stderr")
	fs.Usage = func() { printUsage(stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		printUsage(stderr)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		color.New(color.FgRed).Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *apiBase != "" {
		cfg.API.BaseURL = *apiBase
	}
	if *locale != "" {
		cfg.UI.Locale = *locale
	}
	lang, ok := i18n.ParseTag(cfg.UI.Locale)
	if !ok {
		lang = language.Russian
	}
	logger := logging.Discard()
	if *verbose {
		logger = logging.New(logging.DEBUG, stderr)
	}

	picker, err := app.New(app.Options{
		Directory: directory.New(cfg.API.BaseURL, directory.WithTimeout(cfg.API.Timeout), directory.WithLogger(logger)),
		Logger:    logger,
		Language:  lang,
		// Nothing is scheduled from a one-shot command.
		AfterFunc: func(time.Duration, func()) {},
	})
	if err != nil {
		color.New(color.FgRed).Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch cmd := fs.Arg(0); cmd {
	case "list":
		err = cmdList(ctx, picker, stdout)
	case "select":
		if fs.NArg() != 2 {
			fmt.Fprintln(stderr, "Usage: adminctl select <tag>")
			return 2
		}
		err = cmdSelect(ctx, picker, fs.Arg(1), stdout)
	case "help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		printUsage(stderr)
		return 2
	}
	if err != nil {
		color.New(color.FgRed).Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	yellow := color.New(color.FgYellow)
	fmt.Fprintln(w, "Usage: adminctl [flags] <command> [args]")
	fmt.Fprintln(w)
	yellow.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list            Show available and unavailable admins")
	fmt.Fprintln(w, "  select <tag>    Notify the bot that <tag> was chosen")
	fmt.Fprintln(w)
	yellow.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -config <path>  Configuration file")
	fmt.Fprintln(w, "  -api <url>      Directory API base URL")
	fmt.Fprintln(w, "  -lang <ru|en>   Output language")
	fmt.Fprintln(w, "  -v              Log requests to stderr")
}

func cmdList(ctx context.Context, picker *app.App, w io.Writer) error {
	// A failed fetch is shown in both panels, like every other surface.
	_ = picker.Load(ctx)
	printPage(w, picker.Page(picker.Language()))
	return nil
}

func cmdSelect(ctx context.Context, picker *app.App, tag string, w io.Writer) error {
	if err := picker.Load(ctx); err != nil {
		return err
	}
	if err := picker.SelectTag(tag); err != nil {
		if errors.Is(err, app.ErrUnknownAdmin) {
			return fmt.Errorf("admin %q not found", tag)
		}
		return fmt.Errorf("admin %q: %w", tag, err)
	}
	picker.Confirm(i18n.NewContext(ctx, picker.Language()))

	page := picker.Page(picker.Language())
	if page.Notice == nil {
		return errors.New("no response from the directory")
	}
	printNotice(w, *page.Notice)
	if page.Notice.Kind == string(model.NoticeError) {
		return errors.New("selection was not accepted")
	}
	return nil
}

func printPage(w io.Writer, page view.Page) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	gray := color.New(color.FgHiBlack)
	red := color.New(color.FgRed)

	cyan.Fprintln(w, page.Title)
	for i, panel := range page.Panels {
		fmt.Fprintln(w)
		if i < len(page.Tabs) {
			cyan.Fprintf(w, "%s (%d)\n", page.Tabs[i].Label, page.Tabs[i].Count)
		}
		switch {
		case panel.Loading != "":
			gray.Fprintf(w, "  %s\n", panel.Loading)
		case panel.Error != nil:
			red.Fprintf(w, "  %s\n", panel.Error.Title)
			fmt.Fprintf(w, "  %s\n", panel.Error.Summary)
			gray.Fprintf(w, "  %s\n", panel.Error.Detail)
		case panel.Empty != nil:
			fmt.Fprintf(w, "  %s\n", panel.Empty.Title)
			gray.Fprintf(w, "  %s\n", panel.Empty.Description)
		default:
			for _, card := range panel.Cards {
				status := gray
				if card.Interactive {
					status = green
				}
				fmt.Fprintf(w, "  #%s", card.Tag)
				if card.Rating != "" {
					fmt.Fprintf(w, "  %s", card.Rating)
				}
				fmt.Fprint(w, "  ")
				status.Fprintf(w, "%s %s\n", card.StatusIcon, card.StatusText)
				gray.Fprintf(w, "    %s\n", card.Description)
			}
		}
	}
}

func printNotice(w io.Writer, n view.Notice) {
	c := color.New(color.FgGreen)
	if n.Kind == string(model.NoticeError) {
		c = color.New(color.FgRed)
	}
	c.Fprintln(w, n.Text)
}
