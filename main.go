// Command matchdata-scraper scrapes match, shot map and player data from FotMob,
// SofaScore and Transfermarkt, either one record at a time or behind a JSON API.
//
// Usage:
//
//	matchdata-scraper serve
//	matchdata-scraper match https://www.fotmob.com/matches/ac-milan-vs-roma/2gl9pd#4446402
//	matchdata-scraper match-id 4446402
//	matchdata-scraper shots https://www.fotmob.com/matches/ac-milan-vs-roma/2gl9pd#4446402
//	matchdata-scraper shotmap https://www.sofascore.com/football/match/inter-miami-cf-new-york-red-bulls/gabsccKc
//	matchdata-scraper player https://www.transfermarkt.us/erling-haaland/profil/spieler/418560
//	matchdata-scraper recent Arsenal --count 3 --expand
//	matchdata-scraper compare URL_A URL_B --home 8564 --away 9825
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"matchdata-scraper/internal/api"
	"matchdata-scraper/internal/browser"
	"matchdata-scraper/internal/config"
	"matchdata-scraper/internal/logging"
	"matchdata-scraper/internal/model"
	"matchdata-scraper/internal/provider/fotmob"
	"matchdata-scraper/internal/provider/sofascore"
	"matchdata-scraper/internal/provider/transfermarkt"
	"matchdata-scraper/internal/workflow"
)

const shutdownTimeout = 10 * time.Second

type app struct {
	cfg       config.Config
	logger    *logging.Logger
	fotmob    *fotmob.Client
	sofascore *sofascore.Client
	players   *transfermarkt.Client
	workflows *workflow.Service
}

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "matchdata-scraper",
		Short:         "Football match, shot map and player scraper",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(matchCmd())
	root.AddCommand(matchIDCmd())
	root.AddCommand(shotmapCmd())
	root.AddCommand(shotsCmd())
	root.AddCommand(playerCmd())
	root.AddCommand(recentCmd())
	root.AddCommand(compareCmd())

	if err := root.Execute(); err != nil {
		logging.Default().Error("command failed", "error", err)
		_ = logging.Default().Sync()
		os.Exit(1)
	}
	_ = logging.Default().Sync()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, a *app) error {
				handler := api.NewHandler(a.fotmob, a.sofascore, a.players, a.workflows, a.logger)
				srv := &http.Server{
					Addr:         a.cfg.HTTPAddr,
					Handler:      api.NewRouter(handler),
					ReadTimeout:  a.cfg.ReadTimeout,
					WriteTimeout: a.cfg.WriteTimeout,
				}

				errCh := make(chan error, 1)
				go func() {
					a.logger.Info("server running", "addr", a.cfg.HTTPAddr)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						errCh <- err
					}
					close(errCh)
				}()

				select {
				case err := <-errCh:
					return errors.Wrap(err, "listen")
				case <-ctx.Done():
				}

				a.logger.Info("shutting down server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown")
			})
		},
	}
}

// fetchCmd builds a one-shot command that prints the record a single adapter produces.
func fetchCmd[R any](use, short string, pick func(a *app) model.Fetcher[R]) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, a *app) error {
				return printRecord(pick(a).Fetch(ctx, args[0]))
			})
		},
	}
}

func matchCmd() *cobra.Command {
	return fetchCmd("match URL_OR_ID", "Scrape a FotMob match page or fetch it by numeric id",
		func(a *app) model.Fetcher[model.MatchData] { return a.fotmob })
}

func shotmapCmd() *cobra.Command {
	return fetchCmd("shotmap URL", "Scrape a SofaScore event shot map",
		func(a *app) model.Fetcher[model.Shotmap] { return a.sofascore })
}

func playerCmd() *cobra.Command {
	return fetchCmd("player URL", "Scrape a Transfermarkt player profile",
		func(a *app) model.Fetcher[model.PlayerProfile] { return a.players })
}

func matchIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match-id ID",
		Short: "Fetch a FotMob match by its numeric id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, a *app) error {
				return printRecord(a.fotmob.FetchMatchByID(ctx, args[0]))
			})
		},
	}
}

func shotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shots URL",
		Short: "Fetch the shot map of a FotMob match URL through its match details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, a *app) error {
				return printRecord(a.fotmob.FetchShots(ctx, args[0]))
			})
		},
	}
}

func recentCmd() *cobra.Command {
	var count int
	var expand bool
	cmd := &cobra.Command{
		Use:   "recent TEAM",
		Short: "List a team's most recent completed FotMob fixtures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, a *app) error {
				if expand {
					matches, err := a.workflows.RecentForm(ctx, args[0], count)
					if err != nil {
						return err
					}
					return printRecord(matches)
				}
				ids, err := a.fotmob.RecentFixtures(ctx, args[0], count)
				if err != nil {
					return err
				}
				return printRecord(ids)
			})
		},
	}
	cmd.Flags().IntVar(&count, "count", 3, "Number of completed fixtures")
	cmd.Flags().BoolVar(&expand, "expand", false, "Fetch every fixture as a full match")
	return cmd
}

func compareCmd() *cobra.Command {
	var home, away string
	cmd := &cobra.Command{
		Use:   "compare URL_A URL_B",
		Short: "Scrape two FotMob matches side by side",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (home == "") != (away == "") {
				return errors.New("--home and --away must be given together")
			}
			return run(func(ctx context.Context, a *app) error {
				cmp, err := a.workflows.Compare(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				if home == "" {
					return printRecord(cmp)
				}
				sel, err := cmp.Select(model.TeamID(home), model.TeamID(away))
				if err != nil {
					return err
				}
				return printRecord(sel)
			})
		},
	}
	cmd.Flags().StringVar(&home, "home", "", "Team id to take as the home side")
	cmd.Flags().StringVar(&away, "away", "", "Team id to take as the away side")
	return cmd
}

// run loads config, wires the adapters and cancels on SIGINT or SIGTERM.
func run(fn func(ctx context.Context, a *app) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)

	return fn(ctx, newApp(cfg, logger))
}

func newApp(cfg config.Config, logger *logging.Logger) *app {
	chrome := browser.NewChrome(browser.Options{
		ExecPath:  cfg.ChromePath,
		Headless:  cfg.ChromeHeadless,
		UserAgent: cfg.UserAgent,
		Logger:    logger,
	})

	fm := fotmob.New(chrome, fotmob.Options{
		BaseURL:         cfg.FotMobBaseURL,
		NavigateTimeout: cfg.NavigateTimeout,
		StateWait:       cfg.StateWait,
		SearchWait:      cfg.SearchWait,
		Logger:          logger,
	})
	ss := sofascore.New(chrome, sofascore.Options{
		APIBaseURL:      cfg.SofaScoreAPIBaseURL,
		NavigateTimeout: cfg.SofaScoreNavigateTimeout,
		ConsentWait:     cfg.ConsentWait,
		StateWait:       cfg.SofaScoreStateWait,
		FetchTimeout:    cfg.HTTPTimeout,
		Logger:          logger,
	})
	tm := transfermarkt.New(transfermarkt.Options{
		CEAPIBaseURL: cfg.TransfermarktCEAPIBaseURL,
		UserAgent:    cfg.UserAgent,
		Timeout:      cfg.HTTPTimeout,
		Logger:       logger,
	})

	return &app{
		cfg:       cfg,
		logger:    logger,
		fotmob:    fm,
		sofascore: ss,
		players:   tm,
		workflows: workflow.New(fm, cfg.MaxSessions, logger),
	}
}

func printRecord(v any) error {
	enc := sonic.ConfigStd.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encode output")
}
