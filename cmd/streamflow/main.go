// The MIT License

// Copyright (c) 2020 Temporal Technologies Inc.  All rights reserved.

// Copyright (c) 2020 Uber Technologies, Inc.

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.temporal.io/server/common/log"
	"go.temporal.io/server/common/log/tag"
	"go.uber.org/fx"

	"github.com/temporalio/s2s-streams/actor"
	"github.com/temporalio/s2s-streams/config"
	"github.com/temporalio/s2s-streams/logging"
	"github.com/temporalio/s2s-streams/metrics"
	"github.com/temporalio/s2s-streams/stream"
)

const (
	StreamflowVersion = "0.1.0"

	itemsFlag   = "items"
	stagesFlag  = "stages"
	timeoutFlag = "timeout"
	outputFlag  = "output"

	debugAddressFlag = "debug-address"
	debugPath        = "/debug/streams"
)

type RunParams struct {
	fx.In

	System *actor.System
	Logger log.Logger
}

func run(args []string) error {
	app := buildCLIOptions()
	return app.Run(args)
}

func buildCLIOptions() *cli.App {
	app := cli.NewApp()
	app.Name = "streamflow"
	app.Usage = "Flow-controlled streams between actors"
	app.Version = StreamflowVersion

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    config.ConfigPathFlag,
			Usage:   "path to the streams configuration file",
			Aliases: []string{"c"},
		},
		&cli.StringFlag{
			Name:  config.LogLevelFlag,
			Usage: "log level, overrides the configuration file",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:  "run",
			Usage: "Streams a sequence of integers through a pipeline and prints the sink's result.",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  itemsFlag,
					Usage: "number of integers the source produces",
					Value: 1000,
				},
				&cli.IntFlag{
					Name:  stagesFlag,
					Usage: "number of doubling stages between source and sink",
					Value: 1,
				},
				&cli.DurationFlag{
					Name:  timeoutFlag,
					Usage: "how long to wait for the result",
					Value: 30 * time.Second,
				},
				&cli.StringFlag{
					Name:  debugAddressFlag,
					Usage: "serve live stream info as JSON on this address while the pipeline runs",
				},
			},
			Action: runPipeline,
		},
		{
			Name:  "write-config",
			Usage: "Writes the effective configuration, defaults included.",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     outputFlag,
					Usage:    "path of the configuration file to write",
					Required: true,
				},
			},
			Action: writeConfig,
		},
	}

	return app
}

func newApp(c *cli.Context, populate ...interface{}) *fx.App {
	return fx.New(
		fx.Provide(func() *cli.Context { return c }),
		config.Module,
		logging.Module,
		metrics.Module,
		actor.Module,
		fx.NopLogger,
		fx.Populate(populate...),
	)
}

func runPipeline(c *cli.Context) error {
	items, stages := c.Int(itemsFlag), c.Int(stagesFlag)
	if items < 0 || stages < 0 {
		return fmt.Errorf("--%s and --%s must not be negative", itemsFlag, stagesFlag)
	}

	var params RunParams
	app := newApp(c, &params)
	if err := app.Err(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Context, c.Duration(timeoutFlag))
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			params.Logger.Error("failed to stop", tag.Error(err))
		}
	}()

	if address := c.String(debugAddressFlag); address != "" {
		server, err := startDebugServer(address, params.System, params.Logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := server.Close(); err != nil {
				params.Logger.Warn("failed to close debug server", tag.Error(err))
			}
		}()
	}

	source, hops, err := spawnPipeline(params.System, items, stages)
	if err != nil {
		return err
	}
	start := time.Now()
	result, err := params.System.Ask(ctx, source, &actor.StartStream{}, actor.Route(hops...)...)
	if err != nil {
		return err
	}
	params.Logger.Info("stream finished",
		tag.NewInt("items", items),
		tag.NewInt("stages", stages),
		tag.NewDurationTag("elapsed", time.Since(start)))
	_, err = fmt.Fprintln(c.App.Writer, result)
	return err
}

// spawnPipeline starts a source of 1..items, stages doubling every element and a summing sink.
// It returns the source and the remaining hops in travel order.
func spawnPipeline(system *actor.System, items, stages int) (stream.Ref, []stream.Ref, error) {
	source, err := system.Spawn("source", actor.Props{Receiver: actor.SourceReceiver(func() stream.PullFunc[int64] {
		next := int64(1)
		return func(demand int) ([]int64, bool) {
			var xs []int64
			for ; demand > 0 && next <= int64(items); demand-- {
				xs = append(xs, next)
				next++
			}
			return xs, next > int64(items)
		}
	})})
	if err != nil {
		return nil, nil, err
	}

	hops := make([]stream.Ref, 0, stages+1)
	for i := range stages {
		stage, err := system.Spawn(fmt.Sprintf("double-%d", i+1), actor.Props{
			Acceptor: actor.StageAcceptor(stream.MapFunc(func(x int64) (int64, error) {
				return 2 * x, nil
			})),
		})
		if err != nil {
			return nil, nil, err
		}
		hops = append(hops, stage)
	}

	sink, err := system.Spawn("sum", actor.Props{
		Acceptor: actor.SinkAcceptor(int64(0), func(acc, x int64) (int64, error) {
			return acc + x, nil
		}),
	})
	if err != nil {
		return nil, nil, err
	}
	return source, append(hops, sink), nil
}

// startDebugServer serves the system's debug snapshot on debugPath until the server is closed.
func startDebugServer(address string, system *actor.System, logger log.Logger) (*http.Server, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("debug server: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle(debugPath, actor.NewDebugHandler(system, logger))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("debug server stopped", tag.Error(err))
		}
	}()
	logger.Info("serving debug info", tag.NewStringTag("address", listener.Addr().String()))
	return server, nil
}

func writeConfig(c *cli.Context) error {
	var provider config.ConfigProvider
	app := fx.New(
		fx.Provide(func() *cli.Context { return c }),
		config.Module,
		fx.NopLogger,
		fx.Populate(&provider),
	)
	if err := app.Err(); err != nil {
		return err
	}
	return config.WriteConfig(provider.GetStreamsConfig(), c.String(outputFlag))
}

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
