package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ksebtracker/backend/services/tariff-service/internal/tariff"
)

var rootCmd = &cobra.Command{
	Use:   "ksebcalc [units]",
	Short: "Calculate a KSEB bi-monthly domestic (LT-IA) electricity bill",
	Long: `ksebcalc computes the bi-monthly KSEB bill breakdown for a given consumption.
With a units argument it prints the breakdown once; without arguments it starts an
interactive prompt. Rates and subsidies are subject to revision by KSERC.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			units, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid units %q: %w", args[0], err)
			}
			return printBreakdown(units)
		}
		return interactive()
	},
}

func interactive() error {
	fmt.Println("--- KSEB Bi-monthly Bill Calculator ---")
	fmt.Println("Rates and subsidies are subject to change by KSERC.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nEnter bi-monthly units consumed (or 'q' to quit): ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(input, "q") {
			return nil
		}

		units, err := strconv.ParseFloat(input, 64)
		if err != nil {
			fmt.Println("Invalid input. Please enter a number, or 'q' to quit.")
			continue
		}
		if err := printBreakdown(units); err != nil {
			fmt.Println(err)
		}
	}
}

func printBreakdown(units float64) error {
	breakdown, err := tariff.Calculate(units)
	if err != nil {
		return err
	}

	fmt.Printf("\n--- Consumption: %.0f units ---\n", breakdown.TotalUnits)
	fmt.Printf("  Fixed Charge:      ₹%.2f\n", breakdown.FixedCharge)
	fmt.Printf("  Energy Charge:     ₹%.2f\n", breakdown.EnergyCharge)
	fmt.Printf("  Electricity Duty:  ₹%.2f\n", breakdown.ElectricityDuty)
	fmt.Printf("  Fuel Surcharge:    ₹%.2f\n", breakdown.FuelSurcharge)
	fmt.Printf("  Meter Rent:        ₹%.2f\n", breakdown.MeterRent)
	fmt.Printf("  FC Subsidy:        ₹%.2f\n", breakdown.FCSubsidy)
	fmt.Printf("  EC Subsidy:        ₹%.2f\n", breakdown.ECSubsidy)
	fmt.Printf("  ---------------------------------\n")
	fmt.Printf("  Total Bill:        ₹%.2f\n", breakdown.TotalBill)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
