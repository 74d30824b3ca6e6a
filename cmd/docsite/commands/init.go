package commands

import (
	"fmt"

	"github.com/phpnomad/documentation/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(globals *Global, root *CLI) error {
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(globals.Stdout, "Wrote configuration to %s\n", root.Config)
	return nil
}
