// Command oxymat inspects material template layouts and validates material documents against
// their shaders without opening a window.
package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "oxymat"
	app.Usage = "inspect and validate oxy-gl material templates"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "engine config file supplying log and material settings",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "inspect",
			Usage: "print the instance layout of template schemas",
			Description: `
Load each schema, compile its shaders by reflection and print one table per
template listing every slot with its kind, byte offset, size, uniform location
and default value.`,
			ArgsUsage: "schema1.toml schema2.json ...",
			Action:    Inspect,
		},
		{
			Name:  "validate",
			Usage: "check material documents against their templates and shaders",
			Description: `
Load each material document (or schema with --schema), upload every slot to a
reflected program and report slots the shaders never declare. Upload type
mismatches are always errors; undeclared slots are warnings unless --strict.`,
			ArgsUsage: "material1.yaml material2.json ...",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "schema",
					Usage: "treat arguments as template schemas instead of material documents",
				},
				cli.BoolFlag{
					Name:  "strict",
					Usage: "fail on slots that no shader stage declares",
				},
			},
			Action: Validate,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
