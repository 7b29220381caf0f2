package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "relaypoint-cli",
		Short: "RelayPoint CLI tool",
		Long:  `A command line interface for interacting with the RelayPoint API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the RelayPoint API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("RELAYPOINT_TOKEN"), "Bearer token for authenticated endpoints")

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	var reconcileAccount string
	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Verify that every balance matches its ledger history",
		Run: func(cmd *cobra.Command, args []string) {
			reconcile(reconcileAccount)
		},
	}
	reconcileCmd.Flags().StringVar(&reconcileAccount, "account", "", "Check a single account instead of all")

	ledgerCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(ledgerCmd)

	// Account commands
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var adjustAmount, adjustDirection, adjustReason string
	adjustCmd := &cobra.Command{
		Use:   "balance-adjust <account-id>",
		Short: "Credit or debit an account balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			adjustBalance(args[0], adjustAmount, adjustDirection, adjustReason)
		},
	}
	adjustCmd.Flags().StringVar(&adjustAmount, "amount", "", "Amount to apply")
	adjustCmd.Flags().StringVar(&adjustDirection, "direction", "credit", "credit or debit")
	adjustCmd.Flags().StringVar(&adjustReason, "reason", "", "Reason for the adjustment")
	adjustCmd.MarkFlagRequired("amount")
	adjustCmd.MarkFlagRequired("reason")

	accountCmd.AddCommand(adjustCmd)
	rootCmd.AddCommand(accountCmd)

	// Dashboard commands
	var statsYear, statsMonth int
	var statsView string
	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Dashboard statistics",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Fetch the dashboard report for a window",
		Run: func(cmd *cobra.Command, args []string) {
			dashboardStats(statsYear, statsMonth, statsView)
		},
	}
	statsCmd.Flags().IntVar(&statsYear, "year", 0, "Window year (0 = current)")
	statsCmd.Flags().IntVar(&statsMonth, "month", 0, "Window month (0 = current)")
	statsCmd.Flags().StringVar(&statsView, "view", "month", "month or year")

	dashboardCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(dashboardCmd)

	// Package commands
	packageCmd := &cobra.Command{
		Use:   "package",
		Short: "Package operations",
	}

	trackCmd := &cobra.Command{
		Use:   "track <tracking-number>",
		Short: "Look up a package by tracking number",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			trackPackage(args[0])
		},
	}

	packageCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(packageCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func doRequest(method, path string, body any) []byte {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	return respBody
}

func printJSON(body []byte) {
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}

	fmt.Println(out.String())
}

func reconcile(accountID string) {
	path := "/api/v1/admin/reconciliation"
	if accountID != "" {
		path += "?account_id=" + url.QueryEscape(accountID)
	}

	body := doRequest(http.MethodGet, path, nil)

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if reconciled, ok := result["is_reconciled"].(bool); ok {
		status := "PASSED"
		if !reconciled {
			status = "FAILED"
		}
		fmt.Printf("Reconciliation %s for account %s\n", status, accountID)
		printJSON(body)
		return
	}

	fmt.Println("Reconciliation sweep complete")
	printJSON(body)
}

func adjustBalance(accountID, amount, direction, reason string) {
	body := doRequest(http.MethodPost, "/api/v1/admin/accounts/"+url.PathEscape(accountID)+"/balance", map[string]string{
		"amount":    amount,
		"direction": direction,
		"reason":    reason,
	})

	fmt.Println("Balance adjusted")
	printJSON(body)
}

func dashboardStats(year, month int, view string) {
	path := fmt.Sprintf("/api/v1/admin/dashboard?year=%d&month=%d&view=%s", year, month, url.QueryEscape(view))
	printJSON(doRequest(http.MethodGet, path, nil))
}

func trackPackage(trackingNumber string) {
	printJSON(doRequest(http.MethodGet, "/api/v1/track/"+url.PathEscape(trackingNumber), nil))
}
