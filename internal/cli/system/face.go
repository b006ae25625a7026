package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/meetmate/internal/cli"
)

type FaceCmd struct{}

func (c *FaceCmd) Run(ctx *cli.Context) error {
	found, res, err := ctx.Assistant.FaceAuth(context.Background())
	if err != nil {
		return err
	}

	mark := "✓"
	if !found {
		mark = "✗"
	}
	ctx.Notifier.NotifyUser("", fmt.Sprintf("%s %s", mark, res.Summary))
	fmt.Printf("  Efficiency: %s\n", cli.FormatScore(res.Score))
	return nil
}
