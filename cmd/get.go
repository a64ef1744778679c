package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/zhengshuai-xiao/StorSync/pkg/fetch"
)

func cmdGet() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Category:  "TRANSFER",
		Usage:     "Download a single object into a local directory",
		ArgsUsage: "LOCATOR DEST-DIR",
		Description: `
			Downloads one object, keeping its basename. An existing
			destination file is skipped unless --overwrite is given.

			Examples:
			$ storsync get s3://bucket/scenes/2020/001/img1.tif /data/scenes`,
		Flags: expandFlags(backendFlags(), []cli.Flag{
			&cli.BoolFlag{
				Name:  "overwrite",
				Usage: "overwrite the destination file if it exists",
			},
		}),
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("usage: storsync get LOCATOR DEST-DIR")
			}
			raw := c.Args().Get(0)
			destDir := c.Args().Get(1)
			ctx := context.Background()

			client, err := fetch.NewClientForLocator(ctx, raw, backendConfig(c))
			if err != nil {
				return err
			}

			destPath, err := client.Download(ctx, raw, destDir, c.Bool("overwrite"))
			if err != nil {
				return err
			}
			if destPath == "" {
				fmt.Printf("Skipped: destination already exists\n")
				return nil
			}
			fmt.Printf("Downloaded %s to %s\n", raw, destPath)
			return nil
		},
	}
}
