package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alarm-clock-backend/config"
	"alarm-clock-backend/internal/db"
	"alarm-clock-backend/internal/kv"
	"alarm-clock-backend/internal/model"
	"alarm-clock-backend/internal/sorter"
	"alarm-clock-backend/internal/store"
)

var listSort string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the stored alarms",
	Long: `Loads the alarm slot and prints one alarm per line. Stored order is kept
unless --sort is given; the slot itself is never rewritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return list(cmd.Context(), cfg, logger, listSort, cmd.OutOrStdout())
	},
}

func init() {
	listCmd.Flags().StringVar(&listSort, "sort", "", "order by time or title")
}

func list(ctx context.Context, cfg *config.Config, logger *zap.Logger, sortKey string, out io.Writer) error {
	var key sorter.Key
	if sortKey != "" {
		var err error
		if key, err = sorter.ParseKey(sortKey); err != nil {
			return err
		}
	}

	gormDB, err := db.Init(&cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	s := store.NewKVStore(kv.NewGormStore(gormDB), cfg.Storage.SlotKey, logger)
	s.Load(ctx)

	alarms := s.All()
	if key != "" {
		alarms = sorter.Sort(alarms, key)
	}
	return printAlarms(out, alarms)
}

func printAlarms(out io.Writer, alarms []model.Alarm) error {
	if len(alarms) == 0 {
		_, err := fmt.Fprintln(out, "no alarms")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tTITLE\tDESCRIPTION")
	for _, a := range alarms {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", a.ID, a.Time, a.Title, a.Description)
	}
	return tw.Flush()
}
