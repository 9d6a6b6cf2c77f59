package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"casebook/internal/app"
	"casebook/internal/jurisdiction/handler"
	domain "casebook/internal/jurisdiction/models"
	"casebook/internal/law"
	"casebook/internal/platform/config"
	"casebook/internal/platform/httpserver"
	"casebook/internal/platform/logger"
	"casebook/internal/platform/metrics"
	"casebook/internal/records"
)

var v = config.NewViper()

var rootCmd = &cobra.Command{
	Use:   "casebook",
	Short: "Read jurisdiction laws and cases from the indexer and shape new case submissions",
	Long: `casebook reads jurisdiction rules and cases from an indexing service
(a GraphQL subgraph, a Postgres mirror, or a local seed file), groups rules
into laws by the action they regulate, and validates case submissions before
handing them to the chain relay.

Every flag can also be set with a CASEBOOK_* environment variable, e.g.
CASEBOOK_SUBGRAPH_URL or CASEBOOK_REDIS_URL.`,
	SilenceUsage: true,
}

func main() {
	addPersistentFlags()
	rootCmd.AddCommand(serveCmd(), lawsCmd(), casesCmd(), migrateCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addPersistentFlags() {
	flags := rootCmd.PersistentFlags()
	flags.String("subgraph-url", "", "indexer GraphQL endpoint")
	flags.String("database-url", "", "Postgres mirror DSN (takes precedence over --subgraph-url)")
	flags.String("seed-file", "", "JSON seed file for an in-memory source")
	flags.String("redis-url", "", "Redis URL for the shared action cache")
	flags.String("jurisdiction", "", "default jurisdiction address")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "json", "json or text")
	for _, name := range []string{"subgraph-url", "database-url", "seed-file", "redis-url", "jurisdiction", "log-level", "log-format"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Log.Level, cfg.Log.Format)
			ctx := cmd.Context()

			a, err := app.Build(ctx, cfg, log, app.NewMetrics())
			if err != nil {
				return err
			}
			defer a.Close()

			router := httpserver.NewRouter(log, metrics.New(nil), handler.New(a.Service, log))
			return httpserver.Run(ctx, httpserver.New(cfg.Server.Addr, router), cfg.Server.ShutdownTimeout, log)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	_ = v.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the Postgres mirror tables when missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}
			log := logger.NewWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Format)
			return app.MigrateMirror(cmd.Context(), cfg, log)
		},
	}
}

type pageFlags struct {
	first, skip int
	json        bool
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.first, "first", records.DefaultPageSize, "page size")
	cmd.Flags().IntVar(&p.skip, "skip", 0, "page offset")
	cmd.Flags().BoolVar(&p.json, "json", false, "output JSON")
}

func (p *pageFlags) page() records.Page {
	return records.Page{First: p.first, Skip: p.skip}
}

func lawsCmd() *cobra.Command {
	var pf pageFlags
	cmd := &cobra.Command{
		Use:   "laws [jurisdiction]",
		Short: "List the laws of a jurisdiction",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				result, err := a.Service.GetLawsByJurisdiction(ctx, firstArg(args), pf.page())
				if err != nil {
					return err
				}
				if pf.json {
					return printJSON(cmd.OutOrStdout(), handler.FromLawResult(result))
				}
				renderLaws(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}
	pf.register(cmd)
	return cmd
}

func casesCmd() *cobra.Command {
	var pf pageFlags
	cmd := &cobra.Command{
		Use:   "cases [jurisdiction]",
		Short: "List the cases of a jurisdiction",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				found, err := a.Service.GetCases(ctx, firstArg(args), pf.page())
				if err != nil {
					return err
				}
				if pf.json {
					return printJSON(cmd.OutOrStdout(), handler.CasesResponse{Cases: found})
				}
				renderCases(cmd.OutOrStdout(), found)
				return nil
			})
		},
	}
	pf.register(cmd)
	return cmd
}

func withApp(cmd *cobra.Command, fn func(context.Context, *app.App) error) error {
	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}
	// Logs go to stderr so table and JSON output stay clean.
	log := logger.NewWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	ctx := cmd.Context()
	a, err := app.Build(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func renderLaws(w io.Writer, result *law.Result) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Action", "Rule", "Negation", "Witnesses", "Effects"})
	for _, l := range result.Laws.Values() {
		for _, r := range l.Rules {
			tw.AppendRow(table.Row{l.Action.GUID, r.ID, r.Negation, r.RequiredWitnessCount(), effects(r.Effects)})
		}
	}
	tw.Render()

	if skipped := result.Skipped(); len(skipped) > 0 {
		st := table.NewWriter()
		st.SetOutputMirror(w)
		st.SetTitle("Skipped rules")
		st.AppendHeader(table.Row{"Rule", "Action", "Reason"})
		for _, o := range skipped {
			st.AppendRow(table.Row{o.RuleID, o.ActionGUID, o.Reason})
		}
		st.Render()
	}
}

func renderCases(w io.Writer, found []domain.Case) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Created", "Stage", "Rules", "Roles", "Posts"})
	for _, c := range found {
		tw.AppendRow(table.Row{c.ID, c.CreatedDate.Format("2006-01-02 15:04"), c.Stage, len(c.Rules), len(c.Roles), len(c.Posts)})
	}
	tw.Render()
}

func effects(list []domain.Effect) string {
	parts := make([]string, 0, len(list))
	for _, e := range list {
		sign := "-"
		if e.Direction {
			sign = "+"
		}
		parts = append(parts, fmt.Sprintf("%s %s%d", e.Name, sign, e.Value))
	}
	return strings.Join(parts, ", ")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
