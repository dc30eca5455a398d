// lawsearch is a terminal client for the legal search API. It is meant for
// corpus checks during development, not as a supported interface.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/mevzuatlab/legal-search/internal/core/domain"
)

func main() {
	app := &cli.App{
		Name:  "lawsearch",
		Usage: "Query the legal search service from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Aliases: []string{"a"},
				Usage:   "Base URL of the legal search API",
				Value:   "http://localhost:8080",
				EnvVars: []string{"LAWSEARCH_API_URL"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "HTTP request timeout",
				Value: 60 * time.Second,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Run a professional search and print the ranked passages",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "max-results",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   5,
					},
					&cli.StringFlag{
						Name:    "profile",
						Aliases: []string{"p"},
						Usage:   "Precision profile (strict, balanced, recall)",
						Value:   string(domain.ProfileBalanced),
					},
				},
			},
			{
				Name:      "answer",
				Usage:     "Ask a question and print the grounded answer",
				ArgsUsage: "<question>",
				Action:    answerCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "max-results",
						Aliases: []string{"n"},
						Usage:   "Maximum number of source passages",
						Value:   5,
					},
				},
			},
			{
				Name:      "evaluate",
				Usage:     "Run batch quality evaluation over test queries",
				ArgsUsage: "<query>...",
				Action:    evaluateCommand,
			},
			{
				Name:   "stats",
				Usage:  "Print indexed corpus statistics",
				Action: statsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return cli.Exit("usage: lawsearch search <query>", 1)
	}

	var outcome domain.SearchOutcome
	err := postJSON(c, "/v1/legal/search", map[string]any{
		"query":             query,
		"max_results":       c.Int("max-results"),
		"precision_profile": c.String("profile"),
	}, &outcome)
	if err != nil {
		return err
	}

	printQueryContext(outcome.QueryContext)
	if outcome.Warning != "" {
		color.Yellow("warning: %s", outcome.Warning)
	}
	if len(outcome.Results) == 0 {
		color.Red("no results")
		return nil
	}

	for i, r := range outcome.Results {
		printResult(i+1, r)
	}
	return nil
}

func answerCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return cli.Exit("usage: lawsearch answer <question>", 1)
	}

	var outcome struct {
		Answer  string                `json:"answer"`
		Sources []domain.ScoredResult `json:"sources"`
		Warning string                `json:"warning"`
	}
	err := postJSON(c, "/v1/legal/answer", map[string]any{
		"question":    question,
		"max_results": c.Int("max-results"),
	}, &outcome)
	if err != nil {
		return err
	}

	if outcome.Warning != "" {
		color.Yellow("warning: %s", outcome.Warning)
	}
	if outcome.Answer == "" {
		color.Red("no grounded answer")
		return nil
	}

	fmt.Println(outcome.Answer)
	fmt.Println()
	bold := color.New(color.Bold).SprintFunc()
	for i, src := range outcome.Sources {
		fmt.Printf("%s %s madde %s (skor %.3f)\n",
			bold(fmt.Sprintf("[%d]", i+1)), src.Metadata.LawName, src.Metadata.ArticleNo, src.FinalScore)
	}
	return nil
}

func evaluateCommand(c *cli.Context) error {
	queries := c.Args().Slice()
	if len(queries) == 0 {
		return cli.Exit("usage: lawsearch evaluate <query>...", 1)
	}

	var report domain.QualityReport
	if err := postJSON(c, "/v1/legal/evaluate", map[string]any{"queries": queries}, &report); err != nil {
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	fmt.Printf("%s %.3f\n", bold("precision@1:        "), report.PrecisionAtOne)
	fmt.Printf("%s %.3f\n", bold("precision@3:        "), report.PrecisionAtThree)
	fmt.Printf("%s %.3f\n", bold("false positive rate:"), report.FalsePositiveRate)
	fmt.Printf("%s %.3f\n", bold("average relevance:  "), report.AverageRelevance)
	return nil
}

func statsCommand(c *cli.Context) error {
	var stats domain.CorpusStats
	if err := getJSON(c, "/v1/corpus/stats", &stats); err != nil {
		return err
	}

	fmt.Printf("chunks: %d, articles: %d\n", stats.TotalChunks, stats.UniqueArticles)
	for _, name := range stats.LawNames {
		fmt.Printf("  - %s\n", name)
	}
	return nil
}

func printQueryContext(ctx domain.DomainContext) {
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Printf("domain: %s (confidence %.2f)", cyan(string(ctx.Primary)), ctx.Confidence)
	if len(ctx.Secondary) > 0 {
		parts := make([]string, len(ctx.Secondary))
		for i, d := range ctx.Secondary {
			parts[i] = string(d)
		}
		fmt.Printf(", secondary: %s", strings.Join(parts, ", "))
	}
	fmt.Println()
}

func printResult(rank int, r domain.ScoredResult) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()

	fmt.Println()
	fmt.Printf("%s %s madde %s (skor %.3f, %s)\n",
		green(fmt.Sprintf("%d.", rank)), r.Metadata.LawName, r.Metadata.ArticleNo, r.FinalScore, r.Confidence)
	if r.Explanation != "" {
		fmt.Printf("   %s\n", r.Explanation)
	}

	content := r.Content
	if len([]rune(content)) > 240 {
		content = string([]rune(content)[:240]) + "..."
	}
	fmt.Printf("   %s\n", content)
}

func postJSON(c *cli.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	client := &http.Client{Timeout: c.Duration("timeout")}
	url := strings.TrimRight(c.String("api"), "/") + path
	res, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer res.Body.Close()

	return decodeResponse(path, res, out)
}

func getJSON(c *cli.Context, path string, out any) error {
	client := &http.Client{Timeout: c.Duration("timeout")}
	url := strings.TrimRight(c.String("api"), "/") + path
	res, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer res.Body.Close()

	return decodeResponse(path, res, out)
}

func decodeResponse(path string, res *http.Response, out any) error {
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s (status %d)", path, apiErr.Error, res.StatusCode)
		}
		return fmt.Errorf("%s: unexpected status %d", path, res.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
