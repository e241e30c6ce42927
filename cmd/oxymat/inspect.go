package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Inspect prints the slot layout of every schema given as an argument.
func Inspect(ctx *cli.Context) error {
	m, closer, err := setup(ctx)
	if err != nil {
		return err
	}
	defer closer.Close()
	defer m.Close()

	if ctx.NArg() == 0 {
		return errors.New("missing schema file")
	}
	return inspect(os.Stdout, m, ctx.Args())
}

func inspect(w io.Writer, m material.Manager, paths []string) error {
	for _, path := range paths {
		id, err := m.LoadTemplate(path)
		if err != nil {
			return err
		}
		t, err := m.Template(id)
		if err != nil {
			return err
		}
		def, err := m.CreateMaterial(id)
		if err != nil {
			return err
		}
		logger.Infof("inspecting template %d from %s", id, t.Path())

		fmt.Fprintf(w, "template %d: %s\n", id, t.Path())
		fmt.Fprintf(w, "instance size %d bytes, slot size %d bytes\n", t.InstanceSize(), t.SlotSize())

		table := tablewriter.NewWriter(w)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)
		table.SetHeader([]string{"Slot", "Kind", "Offset", "Size", "Location", "Default"})
		for _, s := range t.Slots() {
			v, err := m.Value(def, s.Name)
			if err != nil {
				return err
			}
			table.Append([]string{
				s.Name,
				s.Kind.String(),
				strconv.Itoa(s.Offset),
				strconv.Itoa(s.Kind.Size()),
				fmtLocation(s.Location),
				v.String(),
			})
		}
		table.Render()

		if unbound := unboundUniforms(t); len(unbound) > 0 {
			fmt.Fprintf(w, "uniforms without a slot: %s\n", strings.Join(unbound, ", "))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func fmtLocation(loc int32) string {
	if loc < 0 {
		return "-"
	}
	return strconv.Itoa(int(loc))
}

// unboundUniforms lists shader uniforms that no slot feeds, ignoring the per-draw transforms the
// renderer uploads itself.
func unboundUniforms(t material.Template) []string {
	uniforms, ok := shader.Uniforms(t.Program())
	if !ok {
		return nil
	}
	var out []string
	for _, u := range uniforms {
		if u.Name == shader.UniformModelName || u.Name == shader.UniformViewProjectionName {
			continue
		}
		if _, ok := t.SlotIndex(u.Name); !ok {
			out = append(out, u.Name)
		}
	}
	sort.Strings(out)
	return out
}
