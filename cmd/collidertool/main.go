// Package main is a command line tool for building the collision mesh and
// running individual queries against it.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

const (
	flagConfig     = "config"
	flagLogLevel   = "log-level"
	flagScene      = "scene"
	flagSeed       = "seed"
	flagCellSize   = "cell-size"
	flagOrigin     = "origin"
	flagDir        = "dir"
	flagMaxDist    = "max"
	flagPoint      = "point"
	flagCenter     = "center"
	flagRadius     = "radius"
	flagFrom       = "from"
	flagTo         = "to"
	flagIterations = "iterations"
	flagQueries    = "queries"
	flagQuerySeed  = "query-seed"
	flagWorkers    = "workers"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "collidertool",
		Usage: "build the tunnel collision mesh and query it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Value: "warn",
				Usage: "log level written to stderr",
			},
			&cli.StringFlag{
				Name:  flagScene,
				Usage: "override the scene kind: tunnel or cube",
			},
			&cli.Uint64Flag{
				Name:  flagSeed,
				Usage: "override the tunnel generator seed",
			},
			&cli.StringFlag{
				Name:  flagCellSize,
				Usage: `override the grid cell size: "auto" or a number`,
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "print mesh, bake and grid statistics",
				Action: statsAction,
			},
			{
				Name:  "raycast",
				Usage: "cast a ray and print the nearest hit",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagOrigin, Required: true, Usage: "ray origin `X,Y,Z`"},
					&cli.StringFlag{Name: flagDir, Required: true, Usage: "ray direction `X,Y,Z`, need not be unit"},
					&cli.Float64Flag{Name: flagMaxDist, Value: 1000, Usage: "maximum hit distance"},
				},
				Action: raycastAction,
			},
			{
				Name:  "contains",
				Usage: "report whether a point is enclosed by the mesh",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagPoint, Required: true, Usage: "query point `X,Y,Z`"},
				},
				Action: containsAction,
			},
			{
				Name:  "penetrate",
				Usage: "report the deepest sphere contact",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagCenter, Required: true, Usage: "sphere center `X,Y,Z`"},
					&cli.Float64Flag{Name: flagRadius, Value: 1, Usage: "sphere radius"},
				},
				Action: penetrateAction,
			},
			{
				Name:  "sweep",
				Usage: "move a sphere from one point toward another and resolve contacts",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagFrom, Required: true, Usage: "start position `X,Y,Z`"},
					&cli.StringFlag{Name: flagTo, Required: true, Usage: "desired position `X,Y,Z`"},
					&cli.Float64Flag{Name: flagRadius, Value: 1, Usage: "sphere radius"},
					&cli.IntFlag{Name: flagIterations, Usage: "push-out iterations (default from config)"},
				},
				Action: sweepAction,
			},
			{
				Name:  "bench",
				Usage: "time random queries inside the mesh bounds",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: flagQueries, Value: 100000, Usage: "queries per kind"},
					&cli.Float64Flag{Name: flagRadius, Value: 1, Usage: "sphere radius"},
					&cli.Uint64Flag{Name: flagQuerySeed, Value: 1, Usage: "query generator seed"},
					&cli.IntFlag{Name: flagWorkers, Value: 1, Usage: "goroutines sharing the collider"},
				},
				Action: benchAction,
			},
			{
				Name:   "config",
				Usage:  "print the effective configuration as YAML",
				Action: configAction,
			},
		},
	}
}
