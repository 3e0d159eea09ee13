// Package cli events command: inspect the dispatch event log.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/moxierobots/openmoxie/internal/db"
	"github.com/moxierobots/openmoxie/internal/models"
)

var (
	eventsType   string
	eventsEntity string
	eventsLimit  int
	eventsSince  string
)

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().StringVar(&eventsType, "type", "", "filter by event type (e.g. dispatch.started)")
	eventsCmd.Flags().StringVar(&eventsEntity, "entity", "", "filter by entity ID (device or dispatch)")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 50, "max events to show")
	eventsCmd.Flags().StringVar(&eventsSince, "since", "", "only events after this RFC3339 time or duration ago (e.g. 1h)")
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the dispatch event log",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		query := db.EventQuery{Limit: eventsLimit}
		if eventsType != "" {
			eventType := models.EventType(eventsType)
			query.Type = &eventType
		}
		if eventsEntity != "" {
			query.EntityID = &eventsEntity
		}
		if eventsSince != "" {
			since, err := parseSince(eventsSince)
			if err != nil {
				return err
			}
			query.Since = &since
		}

		events, err := db.NewEventRepository(database).Query(ctx, query)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(events))
		for _, event := range events {
			payload := string(event.Payload)
			if len(payload) > 80 {
				payload = payload[:77] + "..."
			}
			rows = append(rows, []string{
				event.Timestamp.Local().Format("2006-01-02 15:04:05"),
				string(event.Type),
				string(event.EntityType),
				event.EntityID,
				payload,
			})
		}
		return writeTable(cmd.OutOrStdout(), []string{"TIME", "TYPE", "ENTITY", "ID", "PAYLOAD"}, rows)
	},
}

func parseSince(value string) (time.Time, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return time.Now().Add(-d), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse --since %q: use RFC3339 or a duration like 30m", value)
}
