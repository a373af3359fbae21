// Copyright 2026 The sdnroute Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package telemetry

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/sdnroute/sdnroute/pkg/log"
	"github.com/sdnroute/sdnroute/private/topology"
)

// Printer periodically writes the link table to the debug log.
type Printer struct {
	Store *topology.Store
	View  *View
}

// Name returns the task name.
func (p *Printer) Name() string {
	return "telemetry_printer"
}

// Run logs the link table if debug logging is enabled.
func (p *Printer) Run(ctx context.Context) {
	logger := log.FromCtx(ctx)
	if !logger.Enabled(log.DebugLevel) {
		return
	}
	var b strings.Builder
	RenderLinks(&b, p.Store.Snapshot(), p.View)
	logger.Debug("Link table", "table", "\n"+b.String())
}

// RenderLinks writes one row per link of the snapshot. The error rate column
// is filled from the view if it is not nil.
func RenderLinks(w io.Writer, snap *topology.Snapshot, view *View) {
	var rows [][]string
	for _, key := range snap.Keys() {
		for _, l := range snap.Links[key] {
			errRate := "-"
			if view != nil {
				if s, ok := view.Lookup(l.Key, l.Ports); ok {
					errRate = fmt.Sprintf("%.2f", s.ErrorRate)
				}
			}
			rows = append(rows, []string{
				l.Key.Lo.String(),
				l.Key.Hi.String(),
				fmt.Sprintf("%d-%d", l.Ports.Lo, l.Ports.Hi),
				string(l.Attr),
				fmt.Sprintf("%.2f", l.Delay),
				fmt.Sprintf("%.4f", l.Loss),
				fmt.Sprintf("%.1f", l.TotalBandwidth/1e6),
				fmt.Sprintf("%.1f", l.AvailableBandwidth/1e6),
				errRate,
			})
		}
	}
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"SRC", "DST", "PORTS", "ATTR", "DELAY",
		"LOSS", "TOTAL", "AVAILABLE", "ERR%"})
	table.AppendBulk(rows)
	table.Render()
}
