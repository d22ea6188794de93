package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/asteroid-tunnel/internal/config"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/collision"
	"github.com/Faultbox/asteroid-tunnel/internal/logger"
	"github.com/Faultbox/asteroid-tunnel/pkg/geom"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

// setupLogging sends logs to stderr so command output stays parseable.
func setupLogging(c *cli.Context) error {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), logger.ParseLevel(c.String(flagLogLevel)))
	logger.Set(zap.New(core))
	return nil
}

// loadConfig reads the config file, if any, and applies global overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadFile(c.String(flagConfig))
	if err != nil {
		return nil, err
	}
	if scene := c.String(flagScene); scene != "" {
		cfg.Scene.Kind = scene
	}
	if c.IsSet(flagSeed) {
		cfg.Scene.Tunnel.Seed = c.Uint64(flagSeed)
	}
	if s := c.String(flagCellSize); s != "" {
		cs, err := config.ParseCellSize(s)
		if err != nil {
			return nil, err
		}
		cfg.Collider.CellSize = cs
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func buildCollider(c *cli.Context) (*config.Config, *collision.Collider, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	return cfg, cfg.BuildCollider(), nil
}

// parseVec3 parses "x,y,z".
func parseVec3(s string) (math.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math.Vec3{}, fmt.Errorf("vector %q: want 3 comma separated numbers", s)
	}
	var v [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("vector %q: %w", s, err)
		}
		v[i] = float32(f)
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func vecFlag(c *cli.Context, name string) (math.Vec3, error) {
	v, err := parseVec3(c.String(name))
	if err != nil {
		return math.Vec3{}, fmt.Errorf("--%s: %w", name, err)
	}
	return v, nil
}

func statsAction(c *cli.Context) error {
	_, col, err := buildCollider(c)
	if err != nil {
		return err
	}
	s := col.Stats()
	w := c.App.Writer
	fmt.Fprintf(w, "triangles:  %d (%d degenerate)\n", s.Triangles, s.Degenerate)
	if s.Bounds.IsEmpty() {
		fmt.Fprintln(w, "bounds:     empty")
	} else {
		fmt.Fprintf(w, "bounds:     %v .. %v\n", s.Bounds.Min, s.Bounds.Max)
	}
	fmt.Fprintf(w, "cell size:  %g\n", s.Grid.CellSize)
	fmt.Fprintf(w, "cells:      %d occupied, %d references, max bucket %d, average %.2f\n",
		s.Grid.OccupiedCells, s.Grid.References, s.Grid.MaxBucket, s.Grid.AverageBucket)
	fmt.Fprintf(w, "bake:       %d submeshes, %d hidden, %d empty, %d invalid triangles\n",
		s.Bake.Submeshes, s.Bake.Hidden, s.Bake.Empty, s.Bake.InvalidTriangles)
	return nil
}

func raycastAction(c *cli.Context) error {
	origin, err := vecFlag(c, flagOrigin)
	if err != nil {
		return err
	}
	dir, err := vecFlag(c, flagDir)
	if err != nil {
		return err
	}
	_, col, err := buildCollider(c)
	if err != nil {
		return err
	}

	hit := col.Raycast(origin, dir.Normalize(), float32(c.Float64(flagMaxDist)))
	if !hit.Hit {
		fmt.Fprintln(c.App.Writer, "miss")
		return nil
	}
	fmt.Fprintf(c.App.Writer, "hit distance=%g point=%v normal=%v triangle=%d\n",
		hit.Distance, hit.Point, hit.Normal, hit.Triangle)
	return nil
}

func containsAction(c *cli.Context) error {
	p, err := vecFlag(c, flagPoint)
	if err != nil {
		return err
	}
	_, col, err := buildCollider(c)
	if err != nil {
		return err
	}

	if col.ContainsPoint(p) {
		fmt.Fprintln(c.App.Writer, "inside")
	} else {
		fmt.Fprintln(c.App.Writer, "outside")
	}
	return nil
}

func penetrateAction(c *cli.Context) error {
	center, err := vecFlag(c, flagCenter)
	if err != nil {
		return err
	}
	_, col, err := buildCollider(c)
	if err != nil {
		return err
	}

	contact := col.SpherePenetration(center, float32(c.Float64(flagRadius)))
	if !contact.Hit {
		fmt.Fprintln(c.App.Writer, "clear")
		return nil
	}
	fmt.Fprintf(c.App.Writer, "contact depth=%g point=%v normal=%v triangle=%d\n",
		contact.Depth, contact.Point, contact.Normal, contact.Triangle)
	return nil
}

func sweepAction(c *cli.Context) error {
	from, err := vecFlag(c, flagFrom)
	if err != nil {
		return err
	}
	to, err := vecFlag(c, flagTo)
	if err != nil {
		return err
	}
	cfg, col, err := buildCollider(c)
	if err != nil {
		return err
	}

	iterations := cfg.Solver.MaxIterations
	if c.IsSet(flagIterations) {
		iterations = c.Int(flagIterations)
	}
	res := col.Constrain(from, to, float32(c.Float64(flagRadius)), iterations)
	fmt.Fprintf(c.App.Writer, "position=%v hit=%t iterations=%d normal=%v\n",
		res.Position, res.Hit, res.Iterations, res.Normal)
	return nil
}

func configAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(data)
	return err
}

func benchAction(c *cli.Context) error {
	_, col, err := buildCollider(c)
	if err != nil {
		return err
	}
	n := c.Int(flagQueries)
	if n <= 0 {
		return fmt.Errorf("--%s must be positive, got %d", flagQueries, n)
	}
	workers := max(c.Int(flagWorkers), 1)
	radius := float32(c.Float64(flagRadius))

	box := col.Bounds()
	if box.IsEmpty() {
		return fmt.Errorf("collider is empty")
	}
	points := randomPoints(box, n, c.Uint64(flagQuerySeed))

	diag := box.Size().Length()
	kinds := []struct {
		name string
		run  func(q *collision.Querier, p math.Vec3, i int) bool
	}{
		{"raycast", func(q *collision.Querier, p math.Vec3, i int) bool {
			return q.Raycast(p, points[(i+1)%n].Sub(p).Normalize(), diag).Hit
		}},
		{"penetrate", func(q *collision.Querier, p math.Vec3, _ int) bool {
			return q.SpherePenetration(p, radius).Hit
		}},
		{"sweep", func(q *collision.Querier, p math.Vec3, i int) bool {
			to := p.AddScaled(points[(i+1)%n].Sub(p).Normalize(), radius)
			return q.Constrain(p, to, radius, collision.DefaultMaxIterations).Hit
		}},
		{"contains", func(q *collision.Querier, p math.Vec3, _ int) bool {
			return q.ContainsPoint(p)
		}},
	}

	w := c.App.Writer
	fmt.Fprintf(w, "%d triangles, %d queries per kind, %d workers\n", col.TriangleCount(), n, workers)
	for _, k := range kinds {
		elapsed, hits, err := runParallel(col, points, workers, k.run)
		if err != nil {
			return err
		}
		report(w, k.name, n, elapsed, hits)
	}
	return nil
}

// runParallel splits points across workers, each with its own Querier.
func runParallel(col *collision.Collider, points []math.Vec3, workers int, fn func(*collision.Querier, math.Vec3, int) bool) (time.Duration, int64, error) {
	var hits atomic.Int64
	var g errgroup.Group

	start := time.Now()
	chunk := (len(points) + workers - 1) / workers
	for lo := 0; lo < len(points); lo += chunk {
		hi := min(lo+chunk, len(points))
		g.Go(func() error {
			q := col.Querier()
			var local int64
			for i := lo; i < hi; i++ {
				if fn(q, points[i], i) {
					local++
				}
			}
			hits.Add(local)
			return nil
		})
	}
	err := g.Wait()
	return time.Since(start), hits.Load(), err
}

func randomPoints(box geom.AABB, n int, seed uint64) []math.Vec3 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	size := box.Size()
	points := make([]math.Vec3, n)
	for i := range points {
		points[i] = box.Min.Add(math.Vec3{
			X: size.X * rng.Float32(),
			Y: size.Y * rng.Float32(),
			Z: size.Z * rng.Float32(),
		})
	}
	return points
}

func report(w io.Writer, name string, n int, elapsed time.Duration, hits int64) {
	perOp := elapsed / time.Duration(n)
	fmt.Fprintf(w, "%-10s %10v total %8v/op %7d hits\n", name, elapsed.Round(time.Microsecond), perOp, hits)
}
