package commands

import (
	"fmt"
)

// RenderCmd implements the 'render' command: one synchronous dispatch, body on
// stdout, status on stderr. Nothing is written to disk.
type RenderCmd struct {
	Path string `arg:"" optional:"" help:"Request path, e.g. /guide or /topics/setup?x=1" default:"/"`
}

func (r *RenderCmd) Run(globals *Global, root *CLI) error {
	s, err := root.loadSite()
	if err != nil {
		return err
	}
	d, err := s.Dispatcher(globals.ctx())
	if err != nil {
		return err
	}
	resp, err := d.Dispatch(globals.ctx(), r.Path)
	if err != nil {
		return err
	}
	if _, err := globals.Stdout.Write(resp.Body); err != nil {
		return err
	}
	endpoint, _ := d.Resolve(r.Path)
	_, _ = fmt.Fprintf(globals.Stderr, "%d %s\n", resp.Status, endpoint)
	return nil
}
