package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"sprestore/application"
	"sprestore/database"
	"sprestore/domain/contracts"
	"sprestore/domain/recyclebin"
	"sprestore/infrastructure/config"
	"sprestore/infrastructure/graphclient"
	"sprestore/infrastructure/repositories"
	"sprestore/infrastructure/transfer"
	"sprestore/logging"
)

const appName = "sprestore"

// Option holds the command-line surface. Identifiers given here skip the
// corresponding interactive picker, so the tool is fully scriptable.
type Option struct {
	GraphToken string   `long:"graph-token" description:"Microsoft Graph access token (or set GRAPH_TOKEN)"`
	SiteID     string   `long:"site-id" description:"SharePoint site ID (skips Team selection)"`
	TeamID     string   `long:"team-id" description:"Team ID to resolve the site from (skips Team picker)"`
	ItemIDs    []string `long:"item-id" description:"Recycle-bin entry ID to restore (repeatable; skips item picker)"`
	OutDir     string   `long:"out-dir" description:"Directory for downloaded files" default:""`
	Top        int      `long:"top" description:"Recycle-bin page size" default:"0"`
	NoHistory  bool     `long:"no-history" description:"Do not record the run in the local history database"`
	Version    bool     `short:"V" long:"version" description:"Show version"`
}

var version = "dev"

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	warnMark = color.New(color.FgYellow).SprintFunc()
	infoMark = color.New(color.FgCyan).SprintFunc()
)

func run() error {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Name = appName
	parser.Usage = "[OPTIONS]"
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			return nil
		}
		return err
	}
	if opt.Version {
		fmt.Printf("%s %s\n", appName, version)
		return nil
	}

	loadEnvironment()
	cfg := config.LoadAppConfigFromEnv()
	applyOverrides(cfg, &opt)

	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	token, err := resolveToken(cfg.Graph.Token, opt.GraphToken)
	if err != nil {
		return err
	}
	cfg.Graph.Token = token

	client := graphclient.NewClient(graphclient.Config{
		BaseURL:         cfg.Graph.BaseURL,
		BetaURL:         cfg.Graph.BetaURL,
		Token:           cfg.Graph.Token,
		Timeout:         cfg.Graph.Timeout,
		DownloadTimeout: cfg.Graph.DownloadTimeout,
	})

	var history contracts.RestoreHistoryRepository
	if !opt.NoHistory {
		db, err := database.New(*cfg.Database, logger)
		if err != nil {
			// History is supplementary; a broken local database should not
			// block a restore.
			logger.Warn("History database unavailable, continuing without it", "error", err.Error())
		} else {
			defer db.Close()
			history = repositories.NewRestoreHistoryRepository(db)
		}
	}

	locator := application.NewLocateService(client, cfg.Locate.MaxAttempts, cfg.Locate.Delay)
	downloader := transfer.NewDownloader(client)
	service := application.NewRestoreService(client, locator, downloader, history, cfg.OutDir)

	siteID, err := resolveSite(ctx, client, &opt)
	if err != nil {
		return err
	}

	entries, err := selectEntries(ctx, service, siteID, &opt, cfg.RecycleBinPageSize)
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Printf("%s Restoring %q (id=%s)\n", infoMark("[..]"), e.Name, e.ID)
	}

	reports, err := service.RestoreAndFetch(ctx, siteID, entries)
	if err != nil {
		return err
	}

	printReports(reports)
	return nil
}

func loadEnvironment() {
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded configuration from .env file")
	}
}

func applyOverrides(cfg *config.AppConfig, opt *Option) {
	if opt.OutDir != "" {
		cfg.OutDir = opt.OutDir
	}
	if opt.Top > 0 {
		cfg.RecycleBinPageSize = opt.Top
	}
}

// resolveToken picks the credential from flag, environment, or an
// interactive prompt, in that order. The token is opaque to this tool.
func resolveToken(envToken, flagToken string) (string, error) {
	if flagToken != "" {
		return flagToken, nil
	}
	if envToken != "" {
		return envToken, nil
	}
	fmt.Println("Paste a Graph access token (e.g. from: az account get-access-token --resource-type ms-graph --query accessToken -o tsv)")
	fmt.Print("Graph token: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return "", fmt.Errorf("no token provided")
	}
	return token, nil
}

// resolveSite returns the target site ID, walking Team (and Channel, for
// context only) selection when no site or team was given.
func resolveSite(ctx context.Context, client graphclient.Client, opt *Option) (string, error) {
	if opt.SiteID != "" {
		return opt.SiteID, nil
	}

	teamID := opt.TeamID
	if teamID == "" {
		fmt.Println("\nFetching your Teams...")
		teams, err := client.ListJoinedTeams(ctx)
		if err != nil {
			return "", err
		}
		team, err := pickTeam(teams)
		if err != nil {
			return "", err
		}
		teamID = team.ID
		fmt.Printf("\nSelected Team: %s\n", team.DisplayName)

		// Channel choice is informational: the restore is scoped to the
		// team's root site either way.
		channels, err := client.ListChannels(ctx, teamID)
		if err == nil && len(channels) > 0 {
			if channel, err := pickChannel(channels); err == nil {
				fmt.Printf("\nSelected Channel: %s\n", channel.DisplayName)
			}
		}
	}

	fmt.Println("\nResolving SharePoint site for the Team...")
	site, err := client.ResolveTeamSite(ctx, teamID)
	if err != nil {
		return "", err
	}
	fmt.Printf("Site: %s\nSiteId: %s\n", site.WebURL, site.ID)
	return site.ID, nil
}

// selectEntries returns the recycle-bin entries to restore, either matched
// from --item-id flags or chosen interactively.
func selectEntries(ctx context.Context, service *application.RestoreService, siteID string, opt *Option, pageSize int) ([]*recyclebin.Entry, error) {
	fmt.Println("\nFetching recycle bin items...")
	all, err := service.ListRecycleBin(ctx, siteID, pageSize)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("recycle bin is empty")
	}

	if len(opt.ItemIDs) > 0 {
		byID := make(map[string]*recyclebin.Entry, len(all))
		for _, e := range all {
			byID[e.ID] = e
		}
		var selected []*recyclebin.Entry
		for _, id := range opt.ItemIDs {
			entry, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("recycle-bin entry %s not found in site %s", id, siteID)
			}
			selected = append(selected, entry)
		}
		return selected, nil
	}

	entry, err := pickEntry(all)
	if err != nil {
		return nil, err
	}
	return []*recyclebin.Entry{entry}, nil
}

func printReports(reports []*application.ItemReport) {
	for _, report := range reports {
		name := report.Entry.Name
		switch {
		case report.Locate.Outcome == application.LocateFound && report.LocalPath != "":
			fmt.Printf("%s Downloaded to: %s\n", okMark("[ok]"), report.LocalPath)
			fmt.Printf("%s Restored to: %s\n", infoMark("[info]"), report.Locate.Item.RestoredPath())
		case report.Locate.Outcome == application.LocateFound:
			fmt.Printf("%s Located %q but download failed: %v\n", warnMark("[warn]"), name, report.DownloadErr)
			fmt.Printf("%s Restored to: %s\n", infoMark("[info]"), report.Locate.Item.RestoredPath())
		case report.Locate.Outcome == application.LocateCancelled:
			fmt.Printf("%s Cancelled while waiting for %q to reappear.\n", warnMark("[warn]"), name)
		default:
			fmt.Printf("%s Could not confirm %q after %d attempts.\n", warnMark("[warn]"), name, report.Locate.Attempts)
			if report.ExpectedFolder != "" {
				fmt.Printf("%s Check manually under: %s/%s\n", infoMark("[info]"), report.ExpectedFolder, name)
			} else {
				fmt.Printf("%s Check the site library manually for: %s\n", infoMark("[info]"), name)
			}
		}
	}
	fmt.Println("\nDone.")
}
