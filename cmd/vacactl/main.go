// vacactl runs a cattle weight analysis from the terminal and manages the saved history.
//
// Usage:
//
//	vacactl analyze cow.jpg --keep --condition media
//	vacactl history list --limit 5
//	vacactl history export --output history.json
package main

import (
	"AgroTech-Vision/cmd/config"
	"AgroTech-Vision/domain"
	"AgroTech-Vision/internal/utils"
	"AgroTech-Vision/pkg/analysis"
	"AgroTech-Vision/pkg/history"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "vacactl",
		Usage: "Estimate cattle weight and price from a photo",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "Path to the YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Prediction backend base URL",
				EnvVars: []string{"API_BASE_URL"},
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "Output format (text, json)",
			},
		},
		Before: func(c *cli.Context) error {
			utils.LoadConfigFile(c.String("config"))
			if url := c.String("api-url"); url != "" {
				utils.SetConfig("API_BASE_URL", url)
			}
			return nil
		},
		Commands: []*cli.Command{
			analyzeCommand(),
			historyCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openStack(ctx context.Context) (*config.Stack, error) {
	if !config.UsesDatabase() {
		return config.NewStack(ctx, nil)
	}
	db, err := config.ConnectDB()
	if err != nil {
		return nil, err
	}
	return config.NewStack(ctx, db)
}

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Send an image to the prediction backend",
		ArgsUsage: "<image>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "keep",
				Usage: "Add the result to the history",
			},
			&cli.StringFlag{
				Name:  "condition",
				Usage: "Body condition stored with the kept entry (delgada, media, gorda)",
			},
			&cli.StringFlag{
				Name:  "confidence",
				Usage: "Confidence stored with the kept entry, defaults to the backend value",
			},
			&cli.StringFlag{
				Name:  "device",
				Usage: "Device type stored with the kept entry",
			},
		},
		Action: runAnalyze,
	}
}

func runAnalyze(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("analyze expects exactly one image path", 2)
	}

	stack, err := openStack(c.Context)
	if err != nil {
		return err
	}
	defer stack.Controller.Close()

	file, err := analysis.SelectedFileFromPath(c.Args().First())
	if err != nil {
		return err
	}

	controller := stack.Controller
	if _, err := controller.Select(file); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	state, err := controller.Submit(c.Context)
	if err != nil {
		var apiErr *domain.ApiError
		if errors.As(err, &apiErr) {
			return cli.Exit(apiErr.Error(), 1)
		}
		return err
	}

	res := controller.Response(state)
	res.File.PreviewURL = ""
	if err := printAnalysis(c.App.Writer, c.String("format"), res); err != nil {
		return err
	}

	if !c.Bool("keep") {
		return nil
	}
	entry, err := controller.Keep(c.Context, domain.KeepResultRequest{
		Condition:  c.String("condition"),
		Confidence: c.String("confidence"),
		DeviceType: c.String("device"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Saved to history as %s\n", entry.ID)
	return nil
}

func printAnalysis(w io.Writer, format string, res domain.AnalysisResponse) error {
	if format == "json" {
		return writeJSON(w, res)
	}

	fmt.Fprintf(w, "File:     %s (%s, %s)\n", res.File.Name, res.File.MimeType, res.File.SizeHuman)
	fmt.Fprintf(w, "Weight:   %g kg\n", res.Result.Weight)
	fmt.Fprintf(w, "Price:    %s\n", res.DisplayPrice)
	fmt.Fprintf(w, "Cálculo:  %s\n", res.CalculationLine)
	if res.Result.Confidence != nil {
		fmt.Fprintf(w, "Confidence: %s\n", *res.Result.Confidence)
	}
	printList(w, "Nutrition", res.Result.Recommendations.Nutrition)
	printList(w, "Management", res.Result.Recommendations.Management)
	printList(w, "Health", res.Result.Recommendations.Health)
	return nil
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect and manage saved weight entries",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List entries, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: domain.DefaultRecentCount, Usage: "Maximum number of entries, 0 for all"},
					&cli.StringFlag{Name: "condition", Usage: "Only entries with this condition"},
					&cli.StringFlag{Name: "device", Usage: "Only entries from this device type"},
				},
				Action: withHistory(func(c *cli.Context, service history.HistoryService) error {
					entries := service.GetEntries(c.Context, domain.HistoryQuery{
						Limit:     c.Int("limit"),
						Condition: c.String("condition"),
						Device:    c.String("device"),
					})
					if c.String("format") == "json" {
						return writeJSON(c.App.Writer, entries)
					}
					for _, entry := range entries {
						fmt.Fprintf(c.App.Writer, "%s  %s  %8.1f kg  %-8s %s\n",
							entry.ID, entry.Timestamp.Local().Format(time.DateTime), entry.Weight, entry.Condition, entry.Confidence)
					}
					return nil
				}),
			},
			{
				Name:  "stats",
				Usage: "Show aggregate statistics",
				Action: withHistory(func(c *cli.Context, service history.HistoryService) error {
					stats := service.GetStats(c.Context)
					if c.String("format") == "json" {
						return writeJSON(c.App.Writer, stats)
					}
					fmt.Fprintf(c.App.Writer, "Total: %d\nAverage: %g kg\nMin: %g kg\nMax: %g kg\nRange: %g kg\n",
						stats.Total, stats.Average, stats.Min, stats.Max, stats.Range)
					return nil
				}),
			},
			{
				Name:  "export",
				Usage: "Write the history as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Target file, defaults to weight_history_<date>.json"},
				},
				Action: withHistory(func(c *cli.Context, service history.HistoryService) error {
					var buf bytes.Buffer
					fileName, err := service.ExportHistory(c.Context, &buf)
					if err != nil {
						return err
					}
					if output := c.String("output"); output != "" {
						fileName = output
					}
					if fileName == "-" {
						_, err = c.App.Writer.Write(buf.Bytes())
						return err
					}
					if err := os.WriteFile(fileName, buf.Bytes(), 0o644); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Exported to %s\n", fileName)
					return nil
				}),
			},
			{
				Name:      "mail",
				Usage:     "Send the export by email",
				ArgsUsage: "<email>",
				Action: withHistory(func(c *cli.Context, service history.HistoryService) error {
					email := strings.TrimSpace(c.Args().First())
					if email == "" {
						return cli.Exit("mail expects an email address", 2)
					}
					return service.MailExport(c.Context, domain.MailExportRequest{Email: email})
				}),
			},
			{
				Name:      "remove",
				Usage:     "Remove one entry",
				ArgsUsage: "<id>",
				Action: withHistory(func(c *cli.Context, service history.HistoryService) error {
					if c.NArg() != 1 {
						return cli.Exit("remove expects exactly one entry id", 2)
					}
					return service.RemoveEntry(c.Context, c.Args().First())
				}),
			},
			{
				Name:  "clear",
				Usage: "Remove every entry",
				Action: withHistory(func(c *cli.Context, service history.HistoryService) error {
					return service.ClearHistory(c.Context)
				}),
			},
		},
	}
}

func withHistory(action func(c *cli.Context, service history.HistoryService) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		stack, err := openStack(c.Context)
		if err != nil {
			return err
		}
		return action(c, stack.HistoryService)
	}
}
