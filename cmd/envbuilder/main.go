package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/envbuilder/internal/branch"
	"git.home.luguber.info/inful/envbuilder/internal/env"
	"git.home.luguber.info/inful/envbuilder/internal/logfields"
	"git.home.luguber.info/inful/envbuilder/internal/project"
)

var CLI struct {
	Verbose bool `short:"v" help:"Enable verbose logging"`

	Assemble struct {
		Project string            `arg:"" optional:"" help:"Project name or path; discovered from the working directory when omitted"`
		Branch  string            `short:"b" help:"Branch to use instead of auto-detection"`
		Variant string            `help:"Configuration variant to overlay"`
		Config  map[string]string `short:"c" help:"Configuration overrides (key=value)" mapsep:","`
		DryRun  bool              `help:"Log actions without performing filesystem or process side effects"`
	} `cmd:"" help:"Resolve a project and materialize its build environment"`

	Branch struct{} `cmd:"" help:"Print the resolved source branch and exit"`

	Resolve struct {
		Project string `arg:"" help:"Project name or path"`
	} `cmd:"" help:"Locate a project definition without assembling an environment"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// A .env file in the working directory supplies CI-style signals for
	// local runs; absence is fine.
	_ = godotenv.Load()

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "assemble", "assemble <project>":
		if err := runAssemble(); err != nil {
			slog.Error("Assembly failed", logfields.Error(err))
			os.Exit(1)
		}
	case "branch":
		b, src := branch.NewResolver("").Resolve(context.Background())
		slog.Info("Resolved branch", logfields.Branch(b), logfields.Source(string(src)))
		fmt.Println(b)
	case "resolve <project>":
		if err := runResolve(CLI.Resolve.Project); err != nil {
			slog.Error("Resolve failed", logfields.Error(err))
			os.Exit(1)
		}
	default:
		slog.Error("Unknown command", slog.String("command", ctx.Command()))
		os.Exit(1)
	}
}

func runAssemble() error {
	e, err := env.Assemble(context.Background(), env.Options{
		Project:   CLI.Assemble.Project,
		Branch:    CLI.Assemble.Branch,
		Variant:   CLI.Assemble.Variant,
		CLIConfig: CLI.Assemble.Config,
		DryRun:    CLI.Assemble.DryRun,
	})
	if err != nil {
		return err
	}
	if !e.Resolved() {
		slog.Warn("No project to build; specify one or run from a project directory")
		return nil
	}

	slog.Info("Environment assembled",
		logfields.RunID(e.RunID),
		logfields.Project(e.Project.Name),
		logfields.Branch(e.Branch),
		logfields.Dir(e.BuildDir))
	for _, key := range e.Variables.Keys() {
		value, _ := e.Variables.Get(key)
		fmt.Printf("%s=%s\n", key, value)
	}
	return nil
}

func runResolve(nameOrPath string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	p, err := project.Find(nameOrPath, nil, project.NewSearchContext(wd))
	if err != nil {
		return err
	}
	if !p.Resolved() {
		slog.Warn("Project not found locally", logfields.Project(p.Name))
		fmt.Printf("%s: unresolved\n", p.Name)
		return nil
	}
	fmt.Printf("%s: %s\n", p.Name, p.Path)
	return nil
}
