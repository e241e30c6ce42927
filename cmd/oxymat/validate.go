package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/urfave/cli"
)

// Validate loads every argument as a material document (or schema) and checks it against its shaders.
func Validate(ctx *cli.Context) error {
	m, closer, err := setup(ctx)
	if err != nil {
		return err
	}
	defer closer.Close()
	defer m.Close()

	if ctx.NArg() == 0 {
		return errors.New("missing material document")
	}
	return validate(os.Stdout, m, ctx.Args(), ctx.Bool("schema"), ctx.Bool("strict"))
}

func validate(w io.Writer, m material.Manager, paths []string, schema, strict bool) error {
	var errs []error
	for _, path := range paths {
		warnings, err := validateOne(m, path, schema)
		for _, warning := range warnings {
			fmt.Fprintf(w, "warn %s: %s\n", path, warning)
			if strict {
				errs = append(errs, fmt.Errorf("%s: %s", path, warning))
			}
		}
		if err != nil {
			fmt.Fprintf(w, "FAIL %s: %v\n", path, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "ok   %s\n", path)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d problems: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

func validateOne(m material.Manager, path string, schema bool) ([]string, error) {
	var (
		mat material.Material
		err error
	)
	if schema {
		var id material.TemplateID
		if id, err = m.LoadTemplate(path); err == nil {
			mat, err = m.CreateMaterial(id)
		}
	} else {
		mat, err = m.LoadMaterial(path)
	}
	if err != nil {
		return nil, err
	}
	defer m.Release(mat)

	t, err := m.Template(mat.TemplateID())
	if err != nil {
		return nil, err
	}
	if err := m.Use(mat); err != nil {
		return nil, err
	}

	var warnings []string
	for _, s := range t.Slots() {
		if s.Location < 0 {
			warnings = append(warnings, fmt.Sprintf("slot %q is not declared by any shader stage", s.Name))
		}
	}
	return warnings, nil
}
