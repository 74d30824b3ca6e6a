package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
)

// RoutesCmd implements the 'routes' command.
type RoutesCmd struct{}

func (RoutesCmd) Run(globals *Global, root *CLI) error {
	s, err := root.loadSite()
	if err != nil {
		return err
	}
	table, err := s.Table()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(globals.Stdout, 0, 4, 2, ' ', 0)
	for _, r := range table.Routes() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", r.Endpoint, r.Source.RelativePath())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, d := range table.Duplicates() {
		_, _ = fmt.Fprintf(globals.Stdout, "duplicate %s: %s replaced by %s\n",
			d.Endpoint, d.Replaced.RelativePath(), d.Winner.RelativePath())
	}
	return nil
}

// NavCmd implements the 'nav' command.
type NavCmd struct {
	Current string `help:"Endpoint whose ancestors are marked open"`
}

func (n *NavCmd) Run(globals *Global, root *CLI) error {
	s, err := root.loadSite()
	if err != nil {
		return err
	}
	nodes, err := s.Nav().Build(n.Current)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(globals.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(nodes)
}
