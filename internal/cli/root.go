package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/DripjobsJeremy/workorders/internal/gateway"
	"github.com/DripjobsJeremy/workorders/internal/gateway/sqlite"
	"github.com/DripjobsJeremy/workorders/internal/session"
)

// NewRootCmd creates the top-level "woedit" command.
func NewRootCmd() *cobra.Command {
	var (
		gatewayURL string
		dbPath     string
		actor      string
		plain      bool
		logCalls   bool
	)

	root := &cobra.Command{
		Use:   "woedit <work-order-id>",
		Short: "Interactive work order editor",
		Long: `Edit a work order's areas and line items: inline field edits,
keyboard reorder, soft delete, and batch save. Changes persist through
the configured gateway (HTTP service or local SQLite database).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workOrderID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid work order id %q", args[0])
			}

			gw, closer, err := buildGateway(gatewayURL, dbPath, actor, logCalls)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			var observers []session.Observer
			if logCalls {
				observers = append(observers, session.NewLogObserver(os.Stderr))
			}
			sess := session.New(gw, workOrderID, observers...)

			if plain || !isInteractive() {
				return runPlain(cmd.OutOrStdout(), sess)
			}

			program := tea.NewProgram(newAppModel(sess), tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}

	root.Flags().StringVar(&gatewayURL, "gateway", "", "base URL of the work order service (default from WOEDIT_GATEWAY_URL)")
	root.Flags().StringVar(&dbPath, "db", os.Getenv("WOEDIT_DB"), "path to a local SQLite database (used instead of the HTTP gateway)")
	root.Flags().StringVar(&actor, "actor", "", "actor name recorded on every write (default from WOEDIT_ACTOR)")
	root.Flags().BoolVar(&plain, "plain", false, "print the document and exit (no TUI)")
	root.Flags().BoolVar(&logCalls, "log", false, "log session and gateway activity to stderr")

	root.AddCommand(newSeedCmd())
	return root
}

// buildGateway picks the persistence backend: a local SQLite store when
// a db path is given, the HTTP client otherwise.
func buildGateway(gatewayURL, dbPath, actor string, logCalls bool) (gateway.Client, io.Closer, error) {
	cfg := gateway.LoadConfig()
	if gatewayURL != "" {
		cfg.BaseURL = gatewayURL
	}
	if actor != "" {
		cfg.Actor = actor
	}
	cfg.LogCalls = cfg.LogCalls || logCalls

	if dbPath != "" {
		store, err := sqlite.Open(dbPath, cfg.Actor)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return store, store, nil
	}

	var observer gateway.Observer = gateway.NoopObserver{}
	if cfg.LogCalls {
		observer = gateway.NewLogObserver(os.Stderr)
	}
	return gateway.NewHTTPClient(cfg, observer), nil, nil
}

func isInteractive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
