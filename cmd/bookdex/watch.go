// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bookdex/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a drop directory and resolve new files",
	Long: `Watch monitors a directory and resolves every newly created file's name
stem as a query. Dropping "明朝那些事儿 当年明月.epub" into the directory
ingests that book. Runs until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := viper.GetString("watch.dir")
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		dir = "drop"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	r, s, err := newResolver(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wa := &watch.Watcher{Dir: dir, Resolver: r}
	if err := wa.Run(ctx, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
