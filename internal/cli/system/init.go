package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/meetmate/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Delete the existing calendar before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	if c.Force && ctx.FileBacked() {
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing calendar: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing calendar: %w", err)
			}
			fmt.Printf("Deleted existing calendar at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing calendar: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized meetmate calendar at: %s\n", path)
	fmt.Printf("Working hours: %s to %s (%d slots)\n", ctx.Hours()[0], ctx.Hours()[len(ctx.Hours())-1], len(ctx.Hours()))
	return nil
}
