package main

import (
	"os"

	"github.com/zhengshuai-xiao/StorSync/cmd"
	"github.com/zhengshuai-xiao/StorSync/internal"
)

var logger = internal.GetLogger("storsync_main")

func main() {
	if err := cmd.Main(os.Args); err != nil {
		logger.Fatal(err)
	}
}
