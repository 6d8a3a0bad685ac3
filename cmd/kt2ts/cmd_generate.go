package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dhamidi/kt2ts/generate"
	"github.com/dhamidi/kt2ts/watch"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("kt2ts")

func newGenerateCmd() *cobra.Command {
	var watchMode bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Extract the class model and write TypeScript declarations",
		Long: `Scan compiled classes, build the type model and render it with the
declaration template.

Settings come from kt2ts.yaml, KT2TS_* environment variables and flags,
flags winning.

Examples:
  kt2ts generate -c build/classes/kotlin/main -p com.example.model -o types/model.d.ts
  kt2ts generate --map java.time.Instant=string --overwrite
  kt2ts generate --watch --overwrite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			gen := generate.New(c)
			if !watchMode {
				return runGenerate(gen)
			}
			return runWatch(gen)
		},
	}

	addExtractFlags(cmd)
	addOutputFlags(cmd)
	cmd.Flags().BoolVar(&watchMode, "watch", false, "regenerate whenever classes change")

	return cmd
}

func runGenerate(gen *generate.Generator) error {
	outcome, err := gen.Run()
	if err != nil {
		return err
	}
	if outcome.Path == "" {
		fmt.Print(outcome.Text)
	}
	return nil
}

func runWatch(gen *generate.Generator) error {
	c := gen.Config()
	if err := c.Validate(); err != nil {
		return err
	}
	if c.OutputFile != "" && !c.Overwrite {
		log.Warning("overwrite is off: regenerated output will not replace the existing file")
	}
	if err := runGenerate(gen); err != nil {
		log.Errorf("%s", err)
	}

	var paths []string
	for _, root := range c.Roots() {
		paths = append(paths, root.Path)
	}
	w, err := watch.New(paths)
	if err != nil {
		return err
	}
	defer commonlog.CallAndLogWarning(w.Close, "close watcher", log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Noticef("watching %d roots, press Ctrl-C to stop", len(paths))
	return w.Run(ctx, func(changed []string) error {
		return runGenerate(gen)
	})
}
