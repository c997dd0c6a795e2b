package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"askstream/internal/dashboard"
	"askstream/pkg/cardstack"
)

func newRenderCommand(opts *Options) *cobra.Command {
	var (
		offset float64
		scale  float64
		events []string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Apply events to the card stack and print its layout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			parsed := make([]cardstack.Event, 0, len(events))
			for _, raw := range events {
				e, err := ParseEvent(raw)
				if err != nil {
					return err
				}
				parsed = append(parsed, e)
			}

			data, err := dashboard.LoadData(opts.DataPath)
			if err != nil {
				return err
			}
			stack := cardstack.New(dashboard.StackCards(data.StackedCards),
				cardstack.WithOffsetStep(offset),
				cardstack.WithScaleStep(scale),
			)
			for i, e := range parsed {
				changed := stack.Apply(e)
				logger.Debug("applied event", "index", i, "event", events[i], "changed", changed, "order", stack.IDs())
			}
			return writeLayout(cmd.OutOrStdout(), stack.Render())
		},
	}

	cmd.Flags().Float64Var(&offset, "offset", cardstack.DefaultOffsetStep, "Vertical offset step in px")
	cmd.Flags().Float64Var(&scale, "scale", cardstack.DefaultScaleStep, "Scale step per position")
	cmd.Flags().StringArrayVarP(&events, "event", "e", nil, "Event to apply: click:N, drag:Y, drag:X,Y or key:NAME (repeatable)")
	return cmd
}

func writeLayout(w io.Writer, placements []cardstack.Placement) error {
	if _, err := fmt.Fprintf(w, "%-4s %-10s %8s %7s %8s %5s %s\n", "POS", "ID", "OFFSET", "SCALE", "ROTATE", "ORDER", "INTERACTIVE"); err != nil {
		return err
	}
	for _, p := range placements {
		_, err := fmt.Fprintf(w, "%-4d %-10s %8.1f %7.2f %8.1f %5d %t\n",
			p.Position, p.Card.ID, p.Params.VerticalOffset, p.Params.Scale,
			p.Params.RotationDegrees, p.Params.StackOrder, p.Params.Interactive)
		if err != nil {
			return err
		}
	}
	return nil
}
