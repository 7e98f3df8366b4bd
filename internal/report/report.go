// Package report renders HTML reports of surface runs with go-echarts.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/jvsguerra/SERD/internal/db"
)

// chainOf extracts the chain component of a "<number>_<chain>" residue id.
func chainOf(residueID string) string {
	if idx := strings.LastIndexByte(residueID, '_'); idx >= 0 && idx+1 < len(residueID) {
		return residueID[idx+1:]
	}
	return "?"
}

// WriteRunReport renders an HTML page for one run: exposure counts per chain
// and the residue list, in a single self-contained page.
func WriteRunReport(w io.Writer, run db.Run, residues []string) error {
	perChain := map[string]int{}
	for _, id := range residues {
		perChain[chainOf(id)]++
	}
	chains := make([]string, 0, len(perChain))
	for c := range perChain {
		chains = append(chains, c)
	}
	sort.Strings(chains)

	barData := make([]opts.BarData, 0, len(chains))
	pieData := make([]opts.PieData, 0, len(chains))
	for _, c := range chains {
		barData = append(barData, opts.BarData{Value: perChain[c]})
		pieData = append(pieData, opts.PieData{Name: "chain " + c, Value: perChain[c]})
	}

	subtitle := fmt.Sprintf("%s · %d atoms · grid %dx%dx%d · step %.2f Å · probe %.2f Å · %s",
		run.InputName, run.NAtoms, run.NX, run.NY, run.NZ, run.Step, run.Probe,
		run.CreatedAt.Format(time.RFC3339))

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Solvent-Exposed Residues", Width: "900px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Exposed residues per chain (%s)", strings.ToUpper(run.SurfaceMode)),
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(chains).AddSeries("residues", barData,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Chain share of exposed residues"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries("chains", pieData,
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"35%", "60%"}}),
	)

	page := components.NewPage()
	page.AddCharts(bar, pie)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	// Append the residue list after the charts so the page stands alone as
	// a record of the run.
	var sb strings.Builder
	sb.WriteString("<div style=\"font-family: monospace; margin: 2em;\"><h3>Residues (")
	fmt.Fprintf(&sb, "%d", len(residues))
	sb.WriteString(")</h3><p>")
	sb.WriteString(strings.Join(residues, ", "))
	sb.WriteString("</p></div>")
	_, err := io.WriteString(w, sb.String())
	return err
}
