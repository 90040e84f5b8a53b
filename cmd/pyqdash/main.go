// Package main provides the CLI entrypoint for pyqdash.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/pyqdash/internal/catalog"
	"github.com/verte-zerg/pyqdash/internal/chapters"
	"github.com/verte-zerg/pyqdash/internal/config"
	"github.com/verte-zerg/pyqdash/internal/dashui"
	"github.com/verte-zerg/pyqdash/internal/dataset"
	"github.com/verte-zerg/pyqdash/internal/model"
	"github.com/verte-zerg/pyqdash/internal/report"
	"github.com/verte-zerg/pyqdash/internal/store"
	"github.com/verte-zerg/pyqdash/internal/view"
)

const (
	defaultSubject = "physics"
	defaultSort    = "name"
	defaultOrder   = "asc"
)

// dashboardFlags are shared by the root and list commands.
type dashboardFlags struct {
	subject string
	sort    string
	order   string
	locale  string
	data    string
	useDB   bool
}

type listFlags struct {
	dashboardFlags
	classes []string
	units   []string
	status  string
	weak    bool
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &dashboardFlags{}
	rootCmd := &cobra.Command{
		Use:           "pyqdash",
		Short:         "Chapter-wise PYQ dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboardCmd(cmd, flags)
		},
	}
	bindDashboardFlags(rootCmd, flags)

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newImportsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func bindDashboardFlags(cmd *cobra.Command, flags *dashboardFlags) {
	cmd.Flags().StringVar(&flags.subject, "subject", defaultSubject, "subject: physics, chemistry or mathematics")
	cmd.Flags().StringVar(&flags.sort, "sort", defaultSort, "sort key: name, questions or solved")
	cmd.Flags().StringVar(&flags.order, "order", defaultOrder, "sort order: asc or desc")
	cmd.Flags().StringVar(&flags.locale, "locale", chapters.DefaultLocale, "locale for chapter name ordering (BCP 47)")
	cmd.Flags().StringVar(&flags.data, "data", "", "dataset file (.json, .yaml); defaults to the built-in dataset")
	cmd.Flags().BoolVar(&flags.useDB, "db", false, "use the latest imported snapshot")
}

func runDashboardCmd(cmd *cobra.Command, flags *dashboardFlags) error {
	cfg, err := resolveConfig(cmd, flags)
	if err != nil {
		return err
	}
	ctrl, err := newController(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	program := tea.NewProgram(dashui.NewModel(ctrl), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newListCmd() *cobra.Command {
	flags := &listFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print filtered and sorted chapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListCmd(cmd, flags)
		},
	}
	bindDashboardFlags(cmd, &flags.dashboardFlags)
	cmd.Flags().StringArrayVar(&flags.classes, "class", nil, "class filter (repeatable)")
	cmd.Flags().StringArrayVar(&flags.units, "unit", nil, "unit filter (repeatable)")
	cmd.Flags().StringVar(&flags.status, "status", "", "status filter: not-started, in-progress or completed")
	cmd.Flags().BoolVar(&flags.weak, "weak", false, "only weak chapters")
	return cmd
}

func runListCmd(cmd *cobra.Command, flags *listFlags) error {
	cfg, err := resolveConfig(cmd, &flags.dashboardFlags)
	if err != nil {
		return err
	}
	state, err := listState(cfg, flags)
	if err != nil {
		return err
	}
	ctrl, err := newController(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	ctrl.Dispatch(func(view.State) view.State { return state })

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, report.FilterSummary(state.Subject, state.Filters, state.SortKey, state.SortOrder)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	years := report.DisplayYears(ctrl.Catalog().All(), 2)
	if err := report.RenderChapters(out, ctrl.Visible(), years, report.TerminalWidth()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func listState(cfg model.DashboardConfig, flags *listFlags) (view.State, error) {
	state := view.DefaultState(cfg.Subject).WithSort(cfg.SortKey, cfg.SortOrder)
	for _, class := range flags.classes {
		if !state.HasClass(class) {
			state = state.ToggleClass(class)
		}
	}
	for _, unit := range flags.units {
		if !state.HasUnit(unit) {
			state = state.ToggleUnit(unit)
		}
	}
	if flags.status != "" {
		status, err := model.ParseStatus(flags.status)
		if err != nil {
			return view.State{}, fmt.Errorf("invalid --status: %w", err)
		}
		state = state.SelectStatus(status)
	}
	if flags.weak {
		state = state.ToggleWeak()
	}
	return state, nil
}

func newSummaryCmd() *cobra.Command {
	flags := &dashboardFlags{}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print per-subject totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := report.RenderSummary(cmd.OutOrStdout(), cat.All()); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.data, "data", "", "dataset file (.json, .yaml); defaults to the built-in dataset")
	cmd.Flags().BoolVar(&flags.useDB, "db", false, "use the latest imported snapshot")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Validate a dataset and store it as a new snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	path := args[0]
	records, err := dataset.LoadFile(path)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	source, err := filepath.Abs(path)
	if err != nil {
		source = path
	}
	imp, err := st.ImportDataset(cmd.Context(), source, records)
	if err != nil {
		return fmt.Errorf("failed to import dataset: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d chapters as %s\n", imp.Chapters, imp.ID); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newImportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "imports",
		Short: "List imported snapshots",
		Args:  cobra.NoArgs,
		RunE:  runImportsCmd,
	}
}

func runImportsCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	imports, err := st.ListImports(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list imports: %w", err)
	}
	if len(imports) == 0 {
		logErrln("No snapshots yet. Import one with: pyqdash import <file>")
		return nil
	}
	for _, imp := range imports {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %4d  %s\n",
			imp.ID, imp.ImportedAt.Local().Format(time.DateTime), imp.Chapters, imp.Source); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// resolveConfig merges the TOML config under explicitly set flags and validates the result.
func resolveConfig(cmd *cobra.Command, flags *dashboardFlags) (model.DashboardConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.DashboardConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	d := fileCfg.Dashboard
	applyStringConfig(cmd, "subject", &flags.subject, d.Subject)
	applyStringConfig(cmd, "sort", &flags.sort, d.Sort)
	applyStringConfig(cmd, "order", &flags.order, d.Order)
	applyStringConfig(cmd, "locale", &flags.locale, d.Locale)
	applyStringConfig(cmd, "data", &flags.data, d.Data)
	applyBoolConfig(cmd, "db", &flags.useDB, d.UseDB)
	resolveDataSource(cmd, flags)
	return buildConfig(flags)
}

// resolveDataSource keeps one dataset source. An explicit flag beats the other
// source's config value, and a config data file beats config use-db.
// Both flags set explicitly is left for buildConfig to reject.
func resolveDataSource(cmd *cobra.Command, flags *dashboardFlags) {
	if flags.data == "" || !flags.useDB {
		return
	}
	dataSet := cmd.Flags().Changed("data")
	dbSet := cmd.Flags().Changed("db")
	switch {
	case dataSet && dbSet:
	case dbSet:
		flags.data = ""
	default:
		flags.useDB = false
	}
}

func buildConfig(flags *dashboardFlags) (model.DashboardConfig, error) {
	cfg := model.DashboardConfig{
		Locale:   flags.locale,
		DataPath: flags.data,
		UseDB:    flags.useDB,
	}
	var err error
	if cfg.Subject, err = model.ParseSubject(orDefault(flags.subject, defaultSubject)); err != nil {
		return cfg, fmt.Errorf("invalid --subject: %w", err)
	}
	if cfg.SortKey, err = model.ParseSortKey(orDefault(flags.sort, defaultSort)); err != nil {
		return cfg, fmt.Errorf("invalid --sort: %w", err)
	}
	if cfg.SortOrder, err = model.ParseSortOrder(orDefault(flags.order, defaultOrder)); err != nil {
		return cfg, fmt.Errorf("invalid --order: %w", err)
	}
	if _, err := chapters.NewCollator(cfg.Locale); err != nil {
		return cfg, fmt.Errorf("invalid --locale: %w", err)
	}
	if cfg.DataPath != "" && cfg.UseDB {
		return cfg, fmt.Errorf("--data and --db are mutually exclusive")
	}
	return cfg, nil
}

func newController(ctx context.Context, cfg model.DashboardConfig) (*view.Controller, error) {
	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}
	coll, err := chapters.NewCollator(cfg.Locale)
	if err != nil {
		return nil, err
	}
	initial := view.DefaultState(cfg.Subject).WithSort(cfg.SortKey, cfg.SortOrder)
	return view.NewController(cat, coll, initial), nil
}

// loadCatalog resolves the dataset: --data file, then the latest snapshot, then the built-in fixture.
func loadCatalog(ctx context.Context, cfg model.DashboardConfig) (*catalog.Catalog, error) {
	switch {
	case cfg.DataPath != "":
		records, err := dataset.LoadFile(cfg.DataPath)
		if err != nil {
			return nil, err
		}
		return catalog.New(cfg.DataPath, records), nil
	case cfg.UseDB:
		return loadSnapshot(ctx)
	default:
		records, err := dataset.Embedded()
		if err != nil {
			return nil, err
		}
		return catalog.New(dataset.EmbeddedSource, records), nil
	}
}

func loadSnapshot(ctx context.Context) (*catalog.Catalog, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer closeStore(st)

	imp, err := st.LatestImport(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoImports) {
			return nil, fmt.Errorf("%w; run: pyqdash import <file>", err)
		}
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}
	records, err := st.LoadChapters(ctx, imp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", imp.ID, err)
	}
	return catalog.New("snapshot:"+imp.ID, records), nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pyqdash configuration
# Uncomment a value to enable it. CLI flags override config values.

[dashboard]
# subject = %q       # physics, chemistry or mathematics
# sort = %q             # name, questions or solved
# order = %q             # asc or desc
# locale = %q             # Locale for chapter name ordering
# data = ""                # Dataset file (.json, .yaml)
# use-db = false           # Load the latest imported snapshot
`,
		defaultSubject,
		defaultSort,
		defaultOrder,
		chapters.DefaultLocale,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
