package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const baseURL = "http://localhost:8080"

const userAddress = "0x47C51d53D8B03062a308887a5f49ad9Ab0eA9688"

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	// 1. Health Check
	checkEndpoint("GET", "/health", nil, 200)

	// 2. Holdings before the deposit
	checkEndpoint("GET", "/api/user-demat-holdings?address="+userAddress, nil, 200)

	// 3. Deposit 250000 INR of INR-SGB
	txnID := depositCollateral()
	fmt.Printf("Deposit transaction: %s\n", txnID)

	// 4. Holdings after the deposit
	checkEndpoint("GET", "/api/user-demat-holdings?address="+userAddress, nil, 200)

	// 5. Custody record reflects the transfer
	checkEndpoint("GET", "/api/company-custody", nil, 200)

	// 6. Over-requesting fails with 400
	checkEndpoint("POST", "/api/deposit-collateral", map[string]interface{}{
		"userAddress": userAddress,
		"assetSymbol": "INR-SGB",
		"assetName":   "Sovereign Gold Bonds",
		"quantity":    1000,
		"valueInINR":  99000000,
	}, 400)

	// 7. Unknown asset fails with 404
	checkEndpoint("POST", "/api/deposit-collateral", map[string]interface{}{
		"userAddress": userAddress,
		"assetSymbol": "INR-NOPE",
		"assetName":   "Unknown",
		"quantity":    1,
		"valueInINR":  1,
	}, 404)

	// 8. Catalog endpoints
	checkEndpoint("GET", "/api/available-countries", nil, 200)
	checkEndpoint("GET", "/api/assets-by-country?country=IN", nil, 200)

	fmt.Println("ALL TESTS PASSED")
}

func checkEndpoint(method, path string, body interface{}, expectedStatus int) {
	fmt.Printf("Testing %s %s...\n", method, path)
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, _ := http.NewRequest(method, baseURL+path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != expectedStatus {
		log.Fatalf("Expected status %d, got %d. Body: %s", expectedStatus, resp.StatusCode, string(respBody))
	}
	fmt.Printf("Response: %s\n", string(respBody))
}

func depositCollateral() string {
	fmt.Println("Depositing collateral...")
	reqBody := map[string]interface{}{
		"userAddress": userAddress,
		"assetSymbol": "INR-SGB",
		"assetName":   "Sovereign Gold Bonds",
		"quantity":    1000,
		"valueInINR":  250000,
	}
	jsonBody, _ := json.Marshal(reqBody)
	resp, err := http.Post(baseURL+"/api/deposit-collateral", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Fatalf("Deposit request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		log.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		TransactionID    string `json:"transactionId"`
		QuantityDeducted string `json:"quantityDeducted"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		log.Fatalf("Failed to parse deposit response: %v", err)
	}
	fmt.Printf("Quantity deducted: %s\n", parsed.QuantityDeducted)
	return parsed.TransactionID
}
