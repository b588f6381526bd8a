// Package main provides the community self-consumption (CSC) optimizer's
// command-line entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/oss-grid/csc-optimizer/optimizer"
	"github.com/oss-grid/csc-optimizer/utils"
)

func main() {
	var (
		forecastFile    = flag.String("forecast", "", "Demand forecast JSON file (required)")
		batteriesFile   = flag.String("batteries", "", "Battery order book JSON file")
		shapeablesFile  = flag.String("shapeables", "", "Shapeable order book JSON file")
		deferrablesFile = flag.String("deferrables", "", "Deferrable order book JSON file")
		timestepHours   = flag.Float64("timestep", 1.0, "Horizon timestep width, in hours")
		solverName      = flag.String("solver", "glpk", "Solver to drive: glpk, gurobi, or cbc")
		solverPath      = flag.String("solver-path", "", "Override solver binary discovery")
		timeLimit       = flag.Duration("timelimit", 5*time.Minute, "Wall-clock budget given to the solver")
		verbose         = flag.Bool("verbose", false, "Forward the solver's own diagnostic output")
		help            = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	if *forecastFile == "" {
		fmt.Println("Error: -forecast is required")
		showHelp()
		os.Exit(1)
	}

	logger := log.New(os.Stdout, "[CSC-OPTIMIZE] ", log.LstdFlags)

	forecast, err := loadForecast(*forecastFile)
	if err != nil {
		logger.Fatalf("failed to load forecast: %v", err)
	}
	batteries, err := loadBatteries(*batteriesFile)
	if err != nil {
		logger.Fatalf("failed to load battery orders: %v", err)
	}
	shapeables, err := loadShapeables(*shapeablesFile)
	if err != nil {
		logger.Fatalf("failed to load shapeable orders: %v", err)
	}
	deferrables, err := loadDeferrables(*deferrablesFile)
	if err != nil {
		logger.Fatalf("failed to load deferrable orders: %v", err)
	}

	opts := optimizer.DefaultOptions()
	opts.TimestepHours = *timestepHours
	opts.Solver = *solverName
	opts.SolverPath = *solverPath
	opts.TimeLimit = *timeLimit
	opts.Verbose = *verbose
	opts.Logger = logger

	ctx, cancel := context.WithTimeout(context.Background(), *timeLimit+30*time.Second)
	defer cancel()

	result, err := optimizer.MaximizeSelfConsumption(ctx, forecast, batteries, shapeables, deferrables, opts)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	printResultTable(result)
}

func loadForecast(path string) (optimizer.DemandForecast, error) {
	var fc optimizer.DemandForecast
	if err := loadJSONFile(path, &fc); err != nil {
		return nil, err
	}
	return fc, nil
}

func loadBatteries(path string) ([]optimizer.BatteryOrder, error) {
	if path == "" {
		return nil, nil
	}
	var orders []optimizer.BatteryOrder
	if err := loadJSONFile(path, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func loadShapeables(path string) ([]optimizer.ShapeableOrder, error) {
	if path == "" {
		return nil, nil
	}
	var orders []optimizer.ShapeableOrder
	if err := loadJSONFile(path, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func loadDeferrables(path string) ([]optimizer.DeferrableOrder, error) {
	if path == "" {
		return nil, nil
	}
	var orders []optimizer.DeferrableOrder
	if err := loadJSONFile(path, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func loadJSONFile(path string, v interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func printResultTable(r *optimizer.Result) {
	fmt.Println()
	fmt.Println("========================================")
	fmt.Println("CSC OPTIMIZATION RESULT")
	fmt.Println("========================================")
	fmt.Printf("Solver:          %s\n", r.Solver)
	fmt.Printf("Status:          %s\n", r.SolveStatus)
	fmt.Printf("Solve duration:  %s\n", r.SolveDuration)
	fmt.Println()

	fmt.Println("┌──────┬──────────────────────┬──────────────┬──────────────┐")
	fmt.Println("│  t   │       Timestamp      │ Controllable │  Community   │")
	fmt.Println("│      │                      │     (kW)     │ Import (kW)  │")
	fmt.Println("├──────┼──────────────────────┼──────────────┼──────────────┤")
	for i, ts := range r.Timestamps {
		fmt.Printf("│ %4d │ %20s │   %8.3f   │   %8.3f   │\n",
			i, utils.FormatUTC(ts), r.DemandControllable[i], r.CommunityImport[i])
	}
	fmt.Println("└──────┴──────────────────────┴──────────────┴──────────────┘")

	fmt.Println()
	fmt.Println("========================================")
	fmt.Println("SUMMARY")
	fmt.Println("========================================")
	fmt.Printf("Peak high:               %.4f kW\n", r.PeakHigh)
	fmt.Printf("Peak low:                %.4f kW\n", r.PeakLow)
	fmt.Printf("Objective (spread):      %.4f kW\n", r.PeakHigh-r.PeakLow)
	fmt.Printf("Total community import:  %.4f kWh\n", r.TotalCommunityImport)
	fmt.Println("========================================")
}

func showHelp() {
	fmt.Println("csc-optimize - Community self-consumption MILP optimizer")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Schedules batteries, shapeable loads, and deferrable loads against an")
	fmt.Println("  uncontrollable demand forecast over a rolling horizon to minimize the")
	fmt.Println("  spread between the community's highest import peak and lowest export")
	fmt.Println("  peak, maximizing collective self-consumption.")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  csc-optimize -forecast forecast.json [OPTIONS]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Solve with GLPK using hourly timesteps")
	fmt.Println("  csc-optimize -forecast forecast.json -batteries batteries.json -solver glpk")
	fmt.Println()
	fmt.Println("  # Show this help")
	fmt.Println("  csc-optimize -help")
}
