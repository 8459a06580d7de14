package workflow

import (
	"context"
	"fmt"
	"sync"

	"payrun/internal/payout"
	"payrun/internal/stage"
	"payrun/internal/templates"
)

func (r *Runner) notifyStage() stage.Stage {
	return stage.Stage{
		Title: "send notifications",
		Skip:  func(run *payout.RunContext) bool { return !run.Continue },
		Run: func(ctx context.Context, run *payout.RunContext) error {
			logger := r.logger()
			logger.Info("compiling message template")

			tmpl, err := templates.Parse(run.MessageTemplate)
			if err != nil {
				return err
			}

			// All sends settle before the stage continues; one recipient's
			// failure never cancels or blocks the others.
			results := make([]error, len(run.Records))
			var wg sync.WaitGroup
			for i, rec := range run.Records {
				wg.Add(1)
				go func(i int, rec *payout.Record) {
					defer wg.Done()
					message, renderErr := templates.Render(tmpl, rec, run.Currency)
					if renderErr != nil {
						results[i] = renderErr
						return
					}
					results[i] = r.Notifier.Send(ctx, rec.ChatID, message)
				}(i, rec)
			}
			wg.Wait()

			failed := 0
			for i, sendErr := range results {
				if sendErr != nil {
					failed++
					logger.Error("notification failed",
						"telegram", run.Records[i].Telegram,
						"chat_id", run.Records[i].ChatID,
						"error", sendErr,
					)
				}
			}
			logger.Info("notifications dispatched", "sent", len(run.Records)-failed, "failed", failed)
			fmt.Fprintf(r.out(), "Sent %d notifications (%d failed); messages should show up soon\n", len(run.Records)-failed, failed)
			return nil
		},
	}
}
