// Command serd detects solvent-exposed residues of a biomolecule: it
// voxelizes the structure, labels the solvent-exposed surface, and reports
// the residues touching it. Runs can be recorded to a SQLite store and
// served or rendered as HTML reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jvsguerra/SERD/internal/api"
	"github.com/jvsguerra/SERD/internal/config"
	"github.com/jvsguerra/SERD/internal/db"
	"github.com/jvsguerra/SERD/internal/engine"
	"github.com/jvsguerra/SERD/internal/pdb"
	"github.com/jvsguerra/SERD/internal/report"
	"github.com/jvsguerra/SERD/internal/version"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: serd <command> [flags]

commands:
  surface   compute solvent-exposed residues of a PDB file
  serve     run the HTTP API server
  report    render an HTML report for a recorded run
  version   print build information
`)
	os.Exit(2)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)

	if len(os.Args) < 2 {
		usage()
	}

	var err error
	switch os.Args[1] {
	case "surface":
		err = runSurface(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "report":
		err = runReport(os.Args[2:])
	case "version":
		fmt.Printf("serd %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
	default:
		usage()
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runSurface(args []string) error {
	fs := flag.NewFlagSet("surface", flag.ExitOnError)
	pdbPath := fs.String("pdb", "", "input PDB file (required)")
	step := fs.Float64("step", 0.6, "grid spacing in Angstroms")
	probe := fs.Float64("probe", 1.4, "solvent probe radius in Angstroms")
	mode := fs.String("mode", "ses", "surface mode: ses or sas")
	align := fs.Bool("align", true, "align the molecule to its principal axes")
	workers := fs.Int("workers", 0, "worker count for parallel stages (0 = all CPUs)")
	dbPath := fs.String("db", "", "record the run in this SQLite database")
	configPath := fs.String("config", "serd.json", "JSON tuning defaults (missing file is ignored)")
	verbose := fs.Bool("v", false, "print pipeline progress")
	fs.Parse(args)

	if *pdbPath == "" {
		return fmt.Errorf("surface: -pdb is required")
	}

	tuning, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	f, err := os.Open(*pdbPath)
	if err != nil {
		return err
	}
	defer f.Close()

	atoms, err := pdb.ParsePDB(f)
	if err != nil {
		return err
	}
	if len(atoms) == 0 {
		return fmt.Errorf("surface: %s contains no atoms", *pdbPath)
	}

	if *mode != "ses" && *mode != "sas" {
		return fmt.Errorf("surface: unknown mode %q", *mode)
	}

	// Tuning-file values override the built-in defaults; explicit flags
	// override both.
	params := tuning.Apply(engine.DefaultParams())
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "step":
			params.Step = *step
		case "probe":
			params.Probe = *probe
		case "mode":
			params.SES = *mode != "sas"
		case "align":
			params.Align = *align
		case "workers":
			params.Workers = *workers
		}
	})
	params.Verbose = *verbose

	result, err := engine.Run(pdb.XYZR(atoms), pdb.ResidueIDs(atoms), params)
	if err != nil {
		return err
	}

	log.Printf("%s: %d atoms, grid %dx%dx%d, %d surface points, %d exposed residues in %v",
		*pdbPath, result.NAtoms, result.NX, result.NY, result.NZ,
		result.SurfacePoints, len(result.Residues), result.Duration.Round(time.Millisecond))
	for _, id := range result.Residues {
		fmt.Println(id)
	}

	if *dbPath != "" {
		store, err := db.NewDB(*dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		run := db.Run{
			RunID:         uuid.NewString(),
			InputName:     *pdbPath,
			NAtoms:        result.NAtoms,
			NX:            result.NX,
			NY:            result.NY,
			NZ:            result.NZ,
			Step:          params.Step,
			Probe:         params.Probe,
			SurfaceMode:   params.Mode(),
			SurfacePoints: result.SurfacePoints,
			ResidueCount:  len(result.Residues),
			DurationMs:    float64(result.Duration.Nanoseconds()) / 1e6,
			CreatedAt:     time.Now(),
		}
		if err := store.RecordRun(run, result.Residues); err != nil {
			return err
		}
		log.Printf("recorded run %s in %s", run.RunID, *dbPath)
	}
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	listen := fs.String("listen", ":8080", "listen address")
	dbPath := fs.String("db", "serd_runs.db", "SQLite run database")
	fs.Parse(args)

	store, err := db.NewDB(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	apiMux := api.NewServer(store).ServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", apiMux))

	server := &http.Server{
		Addr:    *listen,
		Handler: api.LoggingMiddleware(mux),
	}

	go func() {
		log.Printf("listening on %s", *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	log.Println("graceful shutdown complete")
	return nil
}

func runReport(args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	dbPath := fs.String("db", "serd_runs.db", "SQLite run database")
	runID := fs.String("run", "", "run id to render (required)")
	out := fs.String("out", "report.html", "output HTML file")
	fs.Parse(args)

	if *runID == "" {
		return fmt.Errorf("report: -run is required")
	}

	store, err := db.NewDB(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.GetRun(*runID)
	if err != nil {
		return fmt.Errorf("report: load run %s: %w", *runID, err)
	}
	residues, err := store.RunResidues(*runID)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := report.WriteRunReport(f, run, residues); err != nil {
		return err
	}
	log.Printf("wrote %s", *out)
	return nil
}
