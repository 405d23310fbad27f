//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package oram

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/markkurossi/picogram/circuit"
	"github.com/markkurossi/picogram/p2p"
	"github.com/markkurossi/tabulate"
)

// Session phases.
const (
	PhaseInit = iota
	PhaseAccess
	PhaseShuffle
	numPhases
)

var phaseNames = [numPhases]string{
	PhaseInit:    "Init",
	PhaseAccess:  "Access",
	PhaseShuffle: "Shuffle",
}

// Phase accumulates the cost of one kind of session operation.
type Phase struct {
	Name     string
	Count    int
	Duration time.Duration
	Gates    circuit.Stats
	IO       p2p.IOStats
}

type mark struct {
	start time.Time
	gates circuit.Stats
	io    p2p.IOStats
}

func (o *ORAM) begin() mark {
	m := mark{
		start: time.Now(),
		io:    o.conn.Stats(),
	}
	if o.backend != nil {
		m.gates = o.backend.Stats()
	}
	return m
}

func (o *ORAM) end(phase int, m mark) time.Duration {
	d := time.Since(m.start)
	gates := o.backend.Stats().Sub(m.gates)
	xfer := o.conn.Stats().Sub(m.io)

	ph := &o.phases[phase]
	ph.Count++
	ph.Duration += d
	ph.Gates = ph.Gates.Add(gates)
	ph.IO = ph.IO.Add(xfer)

	return d
}

// Phases returns the accumulated cost of the session phases.
func (o *ORAM) Phases() []Phase {
	result := make([]Phase, numPhases)
	for i := range result {
		result[i] = o.phases[i]
		result[i].Name = phaseNames[i]
	}
	return result
}

// Latencies returns the duration of each access in access order.
func (o *ORAM) Latencies() []time.Duration {
	return slices.Clone(o.latencies)
}

// PrintReport prints the session profile to out: time, AND gates,
// and traffic per phase, the access latency distribution, and the
// channel totals.
func (o *ORAM) PrintReport(out io.Writer) {
	phases := o.Phases()

	var total time.Duration
	for _, ph := range phases {
		total += ph.Duration
	}
	if total == 0 {
		return
	}

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Phase").SetAlign(tabulate.ML)
	tab.Header("Count").SetAlign(tabulate.MR)
	tab.Header("Time").SetAlign(tabulate.MR)
	tab.Header("%").SetAlign(tabulate.MR)
	tab.Header("ANDs").SetAlign(tabulate.MR)
	tab.Header("Xfer").SetAlign(tabulate.MR)

	for i, ph := range phases {
		if ph.Count == 0 {
			continue
		}
		row := tab.Row()
		row.Column(ph.Name)
		row.Column(fmt.Sprintf("%d", ph.Count))
		row.Column(ph.Duration.String())
		row.Column(fmt.Sprintf("%.2f%%",
			float64(ph.Duration)/float64(total)*100))
		row.Column(fmt.Sprintf("%d", ph.Gates.And))
		row.Column(p2p.FileSize(ph.IO.Sum()).String())

		if i == PhaseAccess && len(o.latencies) > 0 {
			sorted := slices.Clone(o.latencies)
			slices.Sort(sorted)

			for idx, q := range []struct {
				label string
				d     time.Duration
			}{
				{"min", sorted[0]},
				{"median", sorted[len(sorted)/2]},
				{"max", sorted[len(sorted)-1]},
			} {
				prefix := "├╴"
				if idx == 2 {
					prefix = "╰╴"
				}
				row := tab.Row()
				row.Column(prefix + q.label).SetFormat(tabulate.FmtItalic)
				row.Column("")
				row.Column(q.d.String()).SetFormat(tabulate.FmtItalic)
			}
		}
	}

	stats := o.conn.Stats()
	sent := stats.Sent
	received := stats.Recvd

	row := tab.Row()
	row.Column("Total").SetFormat(tabulate.FmtBold)
	row.Column("")
	row.Column(total.String()).SetFormat(tabulate.FmtBold)
	row.Column("")
	row.Column(fmt.Sprintf("%d", o.Stats().Gates.And)).
		SetFormat(tabulate.FmtBold)
	row.Column(p2p.FileSize(stats.Sum()).String()).SetFormat(tabulate.FmtBold)

	if sent+received > 0 {
		row = tab.Row()
		row.Column("├╴Sent").SetFormat(tabulate.FmtItalic)
		row.Column("")
		row.Column("")
		row.Column(fmt.Sprintf("%.2f%%",
			float64(sent)/float64(sent+received)*100)).
			SetFormat(tabulate.FmtItalic)
		row.Column("")
		row.Column(p2p.FileSize(sent).String()).SetFormat(tabulate.FmtItalic)

		row = tab.Row()
		row.Column("├╴Rcvd").SetFormat(tabulate.FmtItalic)
		row.Column("")
		row.Column("")
		row.Column(fmt.Sprintf("%.2f%%",
			float64(received)/float64(sent+received)*100)).
			SetFormat(tabulate.FmtItalic)
		row.Column("")
		row.Column(p2p.FileSize(received).String()).
			SetFormat(tabulate.FmtItalic)
	}

	row = tab.Row()
	row.Column("╰╴Flcd").SetFormat(tabulate.FmtItalic)
	row.Column("")
	row.Column("")
	row.Column("")
	row.Column("")
	row.Column(fmt.Sprintf("%d", stats.Flushed)).SetFormat(tabulate.FmtItalic)

	tab.Print(out)
}
