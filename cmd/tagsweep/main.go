// Command tagsweep populates a bucket with tagged sample objects and deletes
// the objects whose tags and metadata match a filter.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/input-output-hk/catalyst-forge-libs/tagsweep"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/filter"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/internal/config"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/sweeptypes"
)

const defaultBucket = "objectswithtagsandmetadata"

// clientFactory builds the client used by the commands.
type clientFactory func(ctx context.Context, opts ...sweeptypes.Option) (*tagsweep.Client, error)

// runner carries state shared by the commands of one invocation.
type runner struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &runner{stdout: os.Stdout, stderr: os.Stderr, newClient: tagsweep.New}
	if err := r.app().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "tagsweep: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func (r *runner) app() *cli.App {
	return &cli.App{
		Name:  "tagsweep",
		Usage: "Populate a bucket with tagged objects and delete objects by tag and metadata",

		// Filter values are comma separated; keep each --tags/--metadata token whole.
		DisableSliceFlagSeparator: true,
		Writer:                    r.stdout,
		ErrWriter:                 r.stderr,

		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Load settings from these .env files instead of ./.env",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error), overrides TAGSWEEP_LOG_LEVEL",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (text, json), overrides TAGSWEEP_LOG_FORMAT",
			},
		},
		Before: r.setup,
		Commands: []*cli.Command{
			{
				Name:  "delete",
				Usage: "Delete objects whose tags and metadata match the filters",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "bucket",
						Usage:    "Name of the bucket",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "tags",
						Usage: "Tag filter as key=value1,value2 (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "metadata",
						Usage: "Metadata filter as key=value1,value2 (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "continue-on-error",
						Usage: "Count failed deletes instead of stopping at the first one",
					},
				},
				Action: r.deleteAction,
			},
			{
				Name:  "populate",
				Usage: "Create or empty a bucket and fill it with generated objects",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "bucket",
						Usage: "Name of the bucket",
						Value: defaultBucket,
					},
					&cli.StringFlag{
						Name:  "region",
						Usage: "Region used to create the bucket",
						Value: sweeptypes.DefaultRegion,
					},
					&cli.IntFlag{
						Name:  "count",
						Usage: "Number of objects to write",
						Value: sweeptypes.DefaultObjectCount,
					},
					&cli.IntFlag{
						Name:  "count-min",
						Usage: "Lower bound of a randomly drawn object count",
					},
					&cli.IntFlag{
						Name:  "count-max",
						Usage: "Upper bound of a randomly drawn object count",
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Seed for reproducible objects",
					},
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Key prefix of generated objects",
						Value: sweeptypes.DefaultPrefix,
					},
					&cli.IntFlag{
						Name:  "payload-size",
						Usage: "Size of each generated payload in bytes",
						Value: sweeptypes.DefaultPayloadSize,
					},
				},
				Action: r.populateAction,
			},
		},
	}
}

// setup loads the configuration and builds the logger.
func (r *runner) setup(c *cli.Context) error {
	cfg, err := config.Load(c.StringSlice("env-file")...)
	if err != nil {
		return err
	}

	if level := c.String("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if format := c.String("log-format"); format != "" {
		cfg.LogFormat = format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.cfg = cfg
	r.logger = cfg.NewLogger(r.stderr)
	return nil
}

func (r *runner) client(ctx context.Context, extra ...sweeptypes.Option) (*tagsweep.Client, error) {
	opts := append(r.cfg.ClientOptions(), tagsweep.WithLogger(r.logger))
	return r.newClient(ctx, append(opts, extra...)...)
}

// rejectArgs fails on positional arguments. Filter tokens must each follow
// their own flag; a stray token would otherwise be dropped and widen the
// selection.
func rejectArgs(c *cli.Context) error {
	if c.Args().Len() > 0 {
		return fmt.Errorf("unexpected arguments %q: repeat --tags or --metadata for each key=value token", c.Args().Slice())
	}
	return nil
}

func (r *runner) deleteAction(c *cli.Context) error {
	if err := rejectArgs(c); err != nil {
		return err
	}
	bucket := c.String("bucket")
	tagFilter := filter.Parse(c.StringSlice("tags"))
	metadataFilter := filter.Parse(c.StringSlice("metadata"))

	var extra []sweeptypes.Option
	if c.IsSet("continue-on-error") {
		extra = append(extra, tagsweep.WithContinueOnDeleteError(c.Bool("continue-on-error")))
	}

	client, err := r.client(c.Context, extra...)
	if err != nil {
		return err
	}

	r.logger.Info("deleting matching objects",
		"bucket", bucket,
		"tags", tagFilter.String(),
		"metadata", metadataFilter.String())

	result, err := client.DeleteMatching(c.Context, bucket, tagFilter, metadataFilter)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.stdout, "Deleted %d objects from bucket %s\n", result.Deleted, bucket)
	return nil
}

func (r *runner) populateAction(c *cli.Context) error {
	if err := rejectArgs(c); err != nil {
		return err
	}
	bucket := c.String("bucket")

	region := r.cfg.Region
	if c.IsSet("region") || region == "" {
		region = c.String("region")
	}

	opts := []sweeptypes.Option{
		tagsweep.WithRegion(region),
		tagsweep.WithPrefix(c.String("prefix")),
		tagsweep.WithPayloadSize(c.Int("payload-size")),
		tagsweep.WithObjectCount(c.Int("count")),
	}
	if c.IsSet("count-min") || c.IsSet("count-max") {
		if c.Int("count-max") <= 0 || c.Int("count-min") > c.Int("count-max") {
			return fmt.Errorf("invalid object count range: --count-min %d --count-max %d",
				c.Int("count-min"), c.Int("count-max"))
		}
		opts = append(opts, tagsweep.WithObjectCountRange(c.Int("count-min"), c.Int("count-max")))
	}
	if c.IsSet("seed") {
		opts = append(opts, tagsweep.WithSeed(c.Int64("seed")))
	}

	client, err := r.client(c.Context, opts...)
	if err != nil {
		return err
	}

	result, err := client.Populate(c.Context, bucket, region)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.stdout, "Populated bucket %s with %d objects (bucket %s, %d cleared)\n",
		bucket, result.Written, result.Status, result.Cleared)
	return nil
}
