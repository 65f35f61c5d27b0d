// Starpilot is a passive co-pilot for the flight journal: it tails the
// journal directory, tracks the active route, computes jump range, tallies
// survey value, and surfaces everything on a terminal dashboard, an
// optional websocket overlay, and speech.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nathoo/starpilot/clip"
	"github.com/nathoo/starpilot/config"
	"github.com/nathoo/starpilot/engine/bus"
	"github.com/nathoo/starpilot/engine/route"
	"github.com/nathoo/starpilot/engine/router"
	"github.com/nathoo/starpilot/engine/state"
	"github.com/nathoo/starpilot/journal"
	"github.com/nathoo/starpilot/overlay"
	"github.com/nathoo/starpilot/report"
	"github.com/nathoo/starpilot/settings"
	"github.com/nathoo/starpilot/speech"
	"github.com/nathoo/starpilot/tables"
	"github.com/nathoo/starpilot/tui"
	"github.com/nathoo/starpilot/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var flags struct {
	configPath string
	tablesDir  string
	journalDir string
	phrasesDir string
	dataDir    string
	routeFile  string
	listenAddr string
	plain      bool
	speak      bool
}

func main() {
	root := &cobra.Command{
		Use:   "starpilot",
		Short: "Passive journal co-pilot: routes, jump range, survey value",
		Long: `Starpilot watches the game's journal directory and narrates what
matters: next-hop clipboard copies along a planned route, live jump-range
figures, cartography and exobiology tallies, and trade alerts.`,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", defaultPath("config.yaml"), "configuration file")
	root.PersistentFlags().StringVar(&flags.tablesDir, "tables", defaultPath("tables"), "reference table directory")
	root.PersistentFlags().StringVar(&flags.dataDir, "data", defaultPath(""), "state directory (settings database)")

	run := &cobra.Command{
		Use:   "run",
		Short: "Tail the journal and run the dashboard",
		RunE:  runMain,
	}
	run.Flags().StringVar(&flags.journalDir, "journal-dir", "", "journal directory (required)")
	run.Flags().StringVar(&flags.phrasesDir, "phrases", defaultPath("phrases"), "Lua phrase script directory")
	run.Flags().StringVar(&flags.routeFile, "route", "", "route file to load on start")
	run.Flags().StringVar(&flags.listenAddr, "listen", "", "serve the websocket overlay on this address")
	run.Flags().BoolVar(&flags.plain, "plain", false, "line-oriented output instead of the dashboard")
	run.Flags().BoolVar(&flags.speak, "speak", false, "print spoken phrases to stderr")
	run.MarkFlagRequired("journal-dir")

	inspect := &cobra.Command{
		Use:   "route <file>",
		Short: "Print a route file as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			systems, err := route.ReadFile(args[0])
			if err != nil {
				return err
			}
			report.RouteTable(os.Stdout, types.ActiveRoute{SystemsRaw: systems})
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("starpilot %s (commit %s, built %s)\n", version, commit, date)
		},
	}

	root.AddCommand(run, inspect, versionCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	tbl, err := tables.Load(flags.tablesDir)
	if err != nil {
		// Degraded mode: lookups miss, everything else runs.
		fmt.Fprintf(os.Stderr, "warning: %v; running without reference tables\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := bus.New()
	st := state.New(cfg, tbl, b, clip.System{})
	r := router.New(cfg, st, b)
	w := journal.New(flags.journalDir, r, st)

	store, err := settings.Open(ctx, filepath.Join(flags.dataDir, "settings.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	// Speech first so it hears the route announcement below.
	if flags.speak {
		phraser, err := speech.Load(flags.phrasesDir)
		if err != nil {
			return fmt.Errorf("loading phrase scripts: %w", err)
		}
		defer phraser.Close()
		speaker := speech.NewSpeaker(cfg, phraser, func(text string) {
			fmt.Fprintf(os.Stderr, "🔈 %s\n", text)
		})
		go speaker.Run(ctx, b.Subscribe())
	}

	if flags.listenAddr != "" {
		hub := overlay.NewHub()
		go hub.Run(ctx, b.Subscribe())
		mux := http.NewServeMux()
		mux.Handle("/overlay", hub.Handler())
		srv := &http.Server{Addr: flags.listenAddr, Handler: mux}
		go srv.ListenAndServe()
		go func() {
			<-ctx.Done()
			srv.Close()
		}()
	}

	// Dashboard or plain logger takes its subscription before any replay.
	uiCh := b.Subscribe()

	// Replay the journal to the present, then install the route: from the
	// command line if given, otherwise the one persisted last session.
	if err := w.Bootstrap(); err != nil {
		return err
	}
	switch {
	case flags.routeFile != "":
		systems, err := route.ReadFile(flags.routeFile)
		if err != nil {
			return err
		}
		st.MarkLive()
		st.SetRoute(systems, "file:"+flags.routeFile)
	default:
		if saved, ok, err := store.LoadRoute(ctx); err == nil && ok {
			// Fast-forward silently to the persisted position.
			wasReplaying := st.Bootstrap()
			st.SetBootstrap(true)
			st.SetRoute(saved.Systems, saved.Source)
			for i := 0; i < saved.Index; i++ {
				st.CopyNextHop()
			}
			if !wasReplaying {
				st.MarkLive()
			}
		}
	}

	go w.Run(ctx)
	defer persistRoute(st, store)

	if flags.plain {
		logger := report.NewLogger(os.Stdout)
		for {
			select {
			case <-ctx.Done():
				return nil
			case m := <-uiCh:
				logger.Handle(m)
			}
		}
	}

	return tui.Run(st, uiCh)
}

// persistRoute saves the active route so the next session resumes it.
func persistRoute(st *state.State, store *settings.Store) {
	r := st.Route()
	_ = store.SaveRoute(context.Background(), settings.SavedRoute{
		Systems: r.SystemsRaw,
		Index:   r.Index,
		Source:  r.Source,
	})
}

// defaultPath anchors config and data under ~/.starpilot.
func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".starpilot", name)
}
