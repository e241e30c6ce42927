package main

import (
	"io"

	"github.com/Carmen-Shannon/oxy-gl/config"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/log"
	"github.com/urfave/cli"
)

var logger = log.New("oxymat")

// setup applies the optional config file and the verbosity flags, then returns a manager that
// compiles by reflection. The closer releases the log file sink, if any.
func setup(ctx *cli.Context) (material.Manager, io.Closer, error) {
	cfg := config.Default()
	if path := ctx.GlobalString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, nil, err
		}
	}
	closer := cfg.ApplyLog()

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}
	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	m := material.NewManager(
		material.WithCompiler(shader.CompileReflect),
		material.WithChunkLength(cfg.Material.ChunkLength),
		material.WithWorkers(cfg.Material.Workers),
	)
	return m, closer, nil
}
