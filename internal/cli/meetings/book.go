package meetings

import (
	"context"
	"fmt"

	"github.com/julianstephens/meetmate/internal/assistant"
	"github.com/julianstephens/meetmate/internal/cli"
)

type BookCmd struct {
	Slot string `arg:"" help:"Slot to book (e.g. '9:00 AM', 9am, 15:00)."`
	Name string `arg:"" help:"Meeting name."`
}

func (c *BookCmd) Run(ctx *cli.Context) error {
	res, err := ctx.Assistant.ScheduleManual(context.Background(), ctx.Label(c.Slot), c.Name)
	if err != nil {
		return err
	}
	printResult(ctx, res)
	return nil
}

type DeleteCmd struct {
	Slot string `arg:"" help:"Slot to free."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	res, err := ctx.Assistant.Delete(context.Background(), ctx.Label(c.Slot))
	if err != nil {
		return err
	}
	printResult(ctx, res)
	return nil
}

type RescheduleCmd struct {
	From string `arg:"" help:"Slot the meeting is booked in."`
	To   string `arg:"" help:"Free slot to move it to."`
}

func (c *RescheduleCmd) Run(ctx *cli.Context) error {
	res, err := ctx.Assistant.Reschedule(context.Background(), ctx.Label(c.From), ctx.Label(c.To))
	if err != nil {
		return err
	}
	printResult(ctx, res)
	return nil
}

// printResult reports a completed operation and its efficiency score
func printResult(ctx *cli.Context, res assistant.Result) {
	ctx.Notifier.NotifyUser("", "✓ "+res.Summary)
	if res.Link != "" {
		fmt.Printf("  Link:       %s\n", res.Link)
	}
	fmt.Printf("  Efficiency: %s\n", cli.FormatScore(res.Score))
	fmt.Print(cli.FormatWarnings(res.Warnings))
}
