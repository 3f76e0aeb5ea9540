package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"dealer-insights/internal/analytics"
	"dealer-insights/internal/insights"
	"dealer-insights/internal/model"
)

// Command line front end for one-off analysis: cleans a CSV and prints
// the analysis (or the answer to a question) as JSON.
func main() {
	file := flag.String("file", "", "path to the sales CSV")
	intent := flag.String("intent", "general_analysis", "analysis intent")
	question := flag.String("question", "", "free-text question (overrides -intent)")
	out := flag.String("out", "", "write the cleaned CSV to this path")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: insights -file sales.csv [-intent profit_analysis] [-question \"who is my top rep\"] [-out cleaned.csv]")
		os.Exit(2)
	}

	raw, err := analytics.LoadCSVFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load %s: %v\n", *file, err)
		os.Exit(1)
	}
	fmt.Printf("📥 Loaded %s (%d rows, %d columns)\n", *file, raw.RowCount(), len(raw.Columns))

	table, schema := analytics.Clean(raw)
	fmt.Printf("🧹 Cleaned table, resolved %d column roles\n", len(schema))

	if *out != "" {
		if err := analytics.WriteCSVFile(table, *out); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to write %s: %v\n", *out, err)
			os.Exit(1)
		}
		fmt.Printf("💾 Wrote cleaned CSV to %s\n", *out)
	}

	var result interface{}
	if *question != "" {
		qIntent := insights.DetermineIntent(*question)
		analysis := analytics.Analyze(table, schema, qIntent)
		chart, chartType := analysis.Chart()
		result = model.QuestionResponse{
			Question:  *question,
			Intent:    qIntent,
			Answer:    insights.AnswerText(*question, analysis),
			Insights:  insights.Generate(analysis),
			ChartData: chart,
			ChartType: chartType,
		}
	} else {
		parsed := model.ParseIntent(*intent)
		analysis := analytics.Analyze(table, schema, parsed)
		chart, chartType := analysis.Chart()
		result = model.AnalyzeResponse{
			Intent:    parsed,
			Analysis:  analysis,
			Insights:  insights.Generate(analysis),
			ChartData: chart,
			ChartType: chartType,
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to encode result: %v\n", err)
		os.Exit(1)
	}
}
