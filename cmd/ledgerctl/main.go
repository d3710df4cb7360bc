// ledgerctl herramienta de operación del log de eventos de stock.
//
// Uso:
//
//	ledgerctl import [-mode validate|raw] [-charset utf8|latin1] <archivo.ndjson>
//	ledgerctl report [-window 30] [-top 5]
//	ledgerctl token -user <id> [-email <email>]
//
// Lee la misma configuración que la API (STORE_DRIVER, DATABASE_URL, JWT_SECRET, ...).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/intelligence"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/store"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr})

	ctx := context.Background()
	switch os.Args[1] {
	case "import":
		err = runImport(ctx, cfg, log, os.Args[2:])
	case "report":
		err = runReport(ctx, cfg, log, os.Args[2:], os.Stdout)
	case "token":
		err = runToken(cfg, os.Args[2:], os.Stdout)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "uso: ledgerctl <import|report|token> [flags]")
}

func runImport(ctx context.Context, cfg *config.Config, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	modeFlag := fs.String("mode", "validate", "validate | raw")
	charset := fs.String("charset", "utf8", "codificación del archivo: utf8 | latin1")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("se espera un archivo NDJSON")
	}
	mode, err := inventory.ParseImportMode(*modeFlag)
	if err != nil {
		return err
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("abrir archivo: %w", err)
	}
	defer f.Close()
	input, err := decodeCharset(f, *charset)
	if err != nil {
		return err
	}

	repo, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	res, err := inventory.NewImportUseCase(repo, log).Import(ctx, input, mode)
	if err != nil {
		return err
	}
	fmt.Printf("leídas: %d  importadas: %d  rechazadas: %d\n", res.Read, res.Imported, res.Rejected)
	for _, e := range res.Errors {
		fmt.Printf("  línea %d: %s (%s)\n", e.Line, e.Code, e.Message)
	}
	return nil
}

// decodeCharset envuelve r para convertir exports Latin-1 a UTF-8.
func decodeCharset(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf8", "utf-8":
		return r, nil
	case "latin1", "iso-8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("charset no soportado: %q", charset)
}

func runReport(ctx context.Context, cfg *config.Config, log *logger.Logger, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	window := fs.Int("window", cfg.Intelligence.WindowDays, "ventana en días")
	top := fs.Int("top", cfg.Intelligence.TopN, "cantidad de fast movers")
	_ = fs.Parse(args)

	repo, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	uc := inventory.NewLedgerUseCase(repo, nil, inventory.Settings{
		Thresholds: intelligence.Thresholds{
			Low:      int64(cfg.Intelligence.LowThreshold),
			Critical: int64(cfg.Intelligence.CriticalThreshold),
		},
		WindowDays: *window,
		TopN:       *top,
	}, log)

	report, err := uc.StockReport(ctx)
	if err != nil {
		return err
	}
	printReport(out, report)
	return nil
}

func printReport(out io.Writer, s *dto.StockReportData) {
	ledger := s.Ledger
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "LEDGER (%d ítems, %d eventos, %d anomalías)\n", len(ledger.Items), ledger.Events, len(ledger.Anomalies))
	fmt.Fprintln(w, "ÍTEM\tTOTAL\tEN RUTA\tUBICACIONES")
	for _, it := range ledger.Items {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", it.ItemID, it.Total, it.OnRoad, formatLocations(it.Locations))
	}

	fmt.Fprintf(w, "\nALERTAS (crítico <= %d, bajo <= %d)\n", s.Alerts.CriticalThreshold, s.Alerts.LowThreshold)
	for _, a := range s.Alerts.Critical {
		fmt.Fprintf(w, "CRÍTICO\t%s\t%d\n", a.ItemID, a.Total)
	}
	for _, a := range s.Alerts.Low {
		fmt.Fprintf(w, "BAJO\t%s\t%d\n", a.ItemID, a.Total)
	}

	fmt.Fprintf(w, "\nFAST MOVERS (%d días)\n", s.FastMovers.WindowDays)
	for i, f := range s.FastMovers.Items {
		fmt.Fprintf(w, "%d.\t%s\t%d\n", i+1, f.ItemID, f.DeliveredInWindow)
	}

	fmt.Fprintf(w, "\nRIESGO DE REORDEN (%d días)\n", s.ReorderRisk.WindowDays)
	fmt.Fprintln(w, "ÍTEM\tTOTAL\tPROM. DIARIO\tDÍAS A CERO\tNIVEL")
	for _, r := range s.ReorderRisk.Items {
		days := "∞"
		if r.DaysToZero != nil {
			days = r.DaysToZero.StringFixed(1)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", r.ItemID, r.Total, r.AvgDaily.StringFixed(2), days, r.Risk)
	}
	_ = w.Flush()
}

func formatLocations(locations map[string]int64) string {
	if len(locations) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(locations))
	for name, qty := range locations {
		parts = append(parts, fmt.Sprintf("%s=%d", name, qty))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

func runToken(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	user := fs.String("user", "", "user id (obligatorio)")
	email := fs.String("email", "", "email que firmará los eventos")
	exp := fs.Int("exp", cfg.JWT.Expiration, "expiración en minutos")
	_ = fs.Parse(args)
	if *user == "" {
		return fmt.Errorf("-user es obligatorio")
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *user, *email, cfg.JWT.Issuer, *exp)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, tok)
	return nil
}
