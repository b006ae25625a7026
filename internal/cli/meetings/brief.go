package meetings

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/meetmate/internal/cli"
)

type BriefCmd struct {
	Text         []string `arg:"" help:"Free-text description, e.g. 'Tomorrow 3 PM about project demo'."`
	Participants string   `help:"Comma separated emails and phone numbers to notify." short:"p"`
}

func (c *BriefCmd) Run(ctx *cli.Context) error {
	res, err := ctx.Assistant.ScheduleBrief(context.Background(), strings.Join(c.Text, " "), c.Participants)
	if err != nil {
		return err
	}
	printResult(ctx, res)

	if res.Delivery == nil {
		return nil
	}
	// The process exits after this command, so wait for the invitations to go out
	warnings := res.Delivery.Wait()
	for _, contact := range res.Contacts {
		fmt.Printf("  Participant: %s (%s)\n", contact.Value, contact.Kind)
	}
	fmt.Print(cli.FormatWarnings(warnings))
	return nil
}
