package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/zhengshuai-xiao/StorSync/internal"
	"github.com/zhengshuai-xiao/StorSync/pkg/fetch"
)

func cmdSync() *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Category:  "TRANSFER",
		Usage:     "Recursively download every object below a storage prefix",
		ArgsUsage: "LOCATOR DEST-DIR",
		Description: `
			Lists the objects below the locator's prefix, filters them and
			fans the transfers out to a bounded worker pool. The remote
			sub-prefix hierarchy is recreated below DEST-DIR unless --flat
			is given. One failed object never aborts the rest of the batch;
			consult the printed summary and the log for partial failures.

			Examples:
			$ storsync sync s3://bucket/scenes/2020/ /data/scenes
			$ storsync sync --flat --include '\.tif$' gs://bucket/scenes/ /data/flat --anonymous
			$ storsync sync --jobs 8 --overwrite minio://bucket/backup/ /restore --endpoint localhost:9000`,
		Flags: expandFlags(backendFlags(), filterFlags(), []cli.Flag{
			&cli.BoolFlag{
				Name:  "flat",
				Usage: "dump all matched objects into DEST-DIR without recreating sub-prefix directories",
			},
			&cli.BoolFlag{
				Name:  "overwrite",
				Usage: "re-fetch objects whose destination file already exists",
			},
			&cli.StringFlag{
				Name:  "prefix-to-replace",
				Usage: "object-name prefix replaced by DEST-DIR (defaults to the locator's prefix)",
			},
			&cli.IntFlag{
				Name:  "jobs",
				Value: fetch.DefaultConcurrency,
				Usage: "number of concurrent downloads",
			},
		}),
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("usage: storsync sync LOCATOR DEST-DIR")
			}
			raw := c.Args().Get(0)
			destDir := c.Args().Get(1)
			ctx := context.Background()

			// Tag every log line of this batch with a short run id.
			runID := strings.Split(uuid.NewString(), "-")[0]
			internal.SetLogID(runID + " ")

			client, err := fetch.NewClientForLocator(ctx, raw, backendConfig(c))
			if err != nil {
				return err
			}

			start := time.Now()
			summary, err := client.RecursiveDownload(ctx, raw, destDir, fetch.SyncOptions{
				PreserveStructure: !c.Bool("flat"),
				Overwrite:         c.Bool("overwrite"),
				PrefixToReplace:   c.String("prefix-to-replace"),
				Include:           c.String("include"),
				Exclude:           c.String("exclude"),
				Concurrency:       c.Int("jobs"),
			})
			if err != nil {
				return err
			}

			fmt.Printf("Sync finished in %s:\n", time.Since(start).Round(time.Millisecond))
			fmt.Printf("  Completed: %d\n", summary.Completed)
			fmt.Printf("  Skipped:   %d\n", summary.Skipped)
			fmt.Printf("  Failed:    %d\n", summary.Failed)
			if summary.Failed > 0 {
				logger.Warnf("Run %s completed with %d failed objects, see the log above", runID, summary.Failed)
			}
			return nil
		},
	}
}
