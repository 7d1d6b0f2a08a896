package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"

	"bookscout/internal/session"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check backend connectivity and show system info",
	Long: `Probe the configured catalog and session services and print a
short system summary. Useful when the browser shows errors and you
want to know which backend is down.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	fmt.Fprintln(out, "bookscout doctor")
	fmt.Fprintln(out)

	// Catalog
	source, watch, err := buildCatalogSource(cfg)
	if err != nil {
		return err
	}
	if watch != nil {
		defer watch.Close()
	}
	if recs, err := source.FetchAll(ctx); err != nil {
		fmt.Fprintf(out, "  catalog (%s): FAIL: %v\n", cfg.Catalog.Source, err)
	} else {
		fmt.Fprintf(out, "  catalog (%s): ok, %d books\n", cfg.Catalog.Source, len(recs))
	}

	// Session service
	sessions := session.NewClient(cfg.Session.BaseURL, cfg.Session.Timeout)
	if info, err := sessions.Init(ctx); err != nil {
		fmt.Fprintf(out, "  sessions: FAIL: %v\n", err)
	} else {
		fmt.Fprintf(out, "  sessions: ok, session %s\n", info.SessionID)
	}

	// Invoking the agent needs credentials and costs money; any HTTP
	// answer from the endpoint counts as reachable.
	if err := probe(ctx, cfg.Agent.BaseURL); err != nil {
		fmt.Fprintf(out, "  agent: FAIL: %v\n", err)
	} else {
		fmt.Fprintf(out, "  agent: reachable at %s\n", cfg.Agent.BaseURL)
	}

	fmt.Fprintln(out)
	printSystemSummary(out)
	return nil
}

func probe(ctx context.Context, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func printSystemSummary(out io.Writer) {
	if info, err := host.Info(); err == nil {
		fmt.Fprintf(out, "  os: %s %s (%s)\n", info.Platform, info.PlatformVersion, info.KernelArch)
	}
	if counts, err := cpu.Counts(true); err == nil {
		fmt.Fprintf(out, "  cpu: %d logical cores\n", counts)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		fmt.Fprintf(out, "  mem: %.1fGB total, %.0f%% used\n",
			float64(vm.Total)/1024/1024/1024, vm.UsedPercent)
	}
}
