package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

// validateSelection validates comma-separated selection input
func validateSelection(input string, maxCount int) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("selection is required")
	}

	if strings.ToLower(input) == "all" {
		var all []int
		for i := 1; i <= maxCount; i++ {
			all = append(all, i)
		}
		return all, nil
	}

	var selections []int
	parts := strings.Split(input, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		num, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid selection: %s (must be numbers 1-%d or 'all')", part, maxCount)
		}
		if num < 1 || num > maxCount {
			return nil, fmt.Errorf("invalid selection: %d (must be between 1 and %d)", num, maxCount)
		}
		selections = append(selections, num)
	}

	return selections, nil
}

// validateCronExpression validates cron expression input
func validateCronExpression(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("cron expression is required")
	}

	if _, err := cron.ParseStandard(input); err != nil {
		return "", fmt.Errorf("invalid cron expression: %s (%v)", input, err)
	}

	return input, nil
}

// validateAPIKey validates API key input
func validateAPIKey(input string, provider string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("API key is required for %s", provider)
	}
	if len(input) < 10 {
		return "", fmt.Errorf("API key seems too short")
	}
	return input, nil
}

// validateBaseURL validates base URL input
func validateBaseURL(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "http://localhost:11434", nil // Default for Ollama
	}
	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		return "", fmt.Errorf("base URL must start with http:// or https://")
	}
	return input, nil
}

// maskSensitiveData masks sensitive data for display
func maskSensitiveData(data string) string {
	if data == "" {
		return "(not set)"
	}
	if len(data) <= 8 {
		return "***"
	}
	return data[:4] + "..." + data[len(data)-4:]
}
