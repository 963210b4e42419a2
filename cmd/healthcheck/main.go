package main

import (
	"net/http"
	"os"
	"time"
)

// Probe binary for container orchestration. Exit 0 when /health answers 200.
func main() {
	url := os.Getenv("LOGICMART_HEALTH_URL")
	if url == "" {
		url = "http://localhost:8080/health"
	}
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
