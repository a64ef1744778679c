package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/zhengshuai-xiao/StorSync/internal"
	"github.com/zhengshuai-xiao/StorSync/pkg/fetch"
)

func cmdList() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Category:  "QUERY",
		Usage:     "List the objects below a storage prefix",
		ArgsUsage: "LOCATOR",
		Description: `
			Lists every object whose name starts with the locator's prefix.

			Examples:
			$ storsync list s3://bucket/scenes/2020/
			$ storsync list --include '\.tif$' gs://bucket/scenes/ --anonymous`,
		Flags: expandFlags(backendFlags(), filterFlags()),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: storsync list LOCATOR")
			}
			raw := c.Args().Get(0)
			ctx := context.Background()

			client, err := fetch.NewClientForLocator(ctx, raw, backendConfig(c))
			if err != nil {
				return err
			}

			objects, err := client.List(ctx, raw, c.String("include"), c.String("exclude"))
			if err != nil {
				return err
			}

			var total uint64
			for _, obj := range objects {
				fmt.Printf("%12d  %s/%s\n", obj.Size, obj.Container, obj.Key)
				total += uint64(obj.Size)
			}
			fmt.Printf("%d objects, %s\n", len(objects), internal.FormatBytes(total))
			return nil
		},
	}
}
