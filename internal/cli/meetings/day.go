package meetings

import (
	"fmt"
	"time"

	"github.com/julianstephens/meetmate/internal/cli"
	"github.com/julianstephens/meetmate/internal/models"
	"github.com/julianstephens/meetmate/internal/tui/components/calendar"
	"github.com/julianstephens/meetmate/internal/utils"
)

type DayCmd struct {
	Free bool `help:"Only list free slots."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	views := models.DayView(ctx.Scheduler.Snapshot(), ctx.Hours(), utils.SlotLabel(time.Now()))

	if c.Free {
		var free int
		for _, v := range views {
			if !v.Busy {
				fmt.Println(v.Label)
				free++
			}
		}
		if free == 0 {
			fmt.Println("No free slots today.")
		}
		return nil
	}

	fmt.Printf("Meetings for %s\n\n", time.Now().Format("Monday, January 2"))
	fmt.Print(calendar.Render(views))
	return nil
}
