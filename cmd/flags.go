package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/zhengshuai-xiao/StorSync/pkg/fetch"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "loglevel",
			Value: "info",
			Usage: "log level: trace/debug/info/warn/error",
		},
		&cli.StringFlag{
			Name:  "logdir",
			Usage: "write rotated logs into this directory instead of stderr",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable colored log output",
		},
	}
}

// backendFlags configure the storage backend picked by the locator scheme.
// Flags that do not apply to the selected backend are ignored.
func backendFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "region",
			Usage:   "AWS region for s3:// locators",
			EnvVars: []string{"AWS_REGION"},
		},
		&cli.StringFlag{
			Name:    "profile",
			Usage:   "AWS shared-config profile for s3:// locators",
			EnvVars: []string{"AWS_PROFILE"},
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "endpoint for minio:// locators or custom s3:// endpoints",
			EnvVars: []string{"STORSYNC_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:    "access-key",
			Usage:   "access key for endpoint-style backends",
			EnvVars: []string{"MINIO_ROOT_USER"},
		},
		&cli.StringFlag{
			Name:    "secret-key",
			Usage:   "secret key for endpoint-style backends",
			EnvVars: []string{"MINIO_ROOT_PASSWORD"},
		},
		&cli.BoolFlag{
			Name:  "ssl",
			Usage: "use TLS for endpoint-style backends",
		},
		&cli.BoolFlag{
			Name:  "anonymous",
			Usage: "use an unauthenticated client (public buckets)",
		},
	}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "include",
			Usage: "regular expression: keep only matching object names",
		},
		&cli.StringFlag{
			Name:  "exclude",
			Usage: "regular expression: drop matching object names",
		},
	}
}

func expandFlags(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, group := range groups {
		flags = append(flags, group...)
	}
	return flags
}

func backendConfig(c *cli.Context) fetch.BackendConfig {
	return fetch.BackendConfig{
		Region:    c.String("region"),
		Profile:   c.String("profile"),
		Endpoint:  c.String("endpoint"),
		AccessKey: c.String("access-key"),
		SecretKey: c.String("secret-key"),
		UseSSL:    c.Bool("ssl"),
		Anonymous: c.Bool("anonymous"),
	}
}
