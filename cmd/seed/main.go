package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/avelinsk/txmon/internal/generator"
	"github.com/avelinsk/txmon/internal/usecases/dtos"
)

var URL, _ = os.LookupEnv("API_URL")
var PORT, _ = os.LookupEnv("API_PORT")
var TOKEN, _ = os.LookupEnv("API_TOKEN")
var apiURL = fmt.Sprintf("http://%s:%s/transaction", URL, PORT)

const (
	workers  = 10
	duration = 30 * time.Second
)

func main() {
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			start := time.Now()
			for time.Since(start) < duration {
				if err := sendTransaction(rnd); err != nil {
					fmt.Println("Error sending transaction:", err)
				}
				time.Sleep(time.Duration(rnd.Intn(1000)) * time.Millisecond)
			}
		}(time.Now().UnixNano() + int64(i))
	}
	wg.Wait()

	printAggregate()
}

func sendTransaction(rnd *rand.Rand) error {
	tx := generator.Synthesize(rnd, time.Now())
	data, err := json.Marshal(dtos.FromTransaction(tx))
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, apiURL, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+TOKEN)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var created dtos.CreatedDTO
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return fmt.Errorf("decoding create response: %w", err)
	}

	fmt.Printf("Transaction sent. Status code: %d, ID: %s\n", resp.StatusCode, created.TransactionID)
	return nil
}

func printAggregate() {
	req, err := http.NewRequest(http.MethodGet, apiURL+"/aggregate-data", nil)
	if err != nil {
		fmt.Println("Error building aggregate request:", err)
		return
	}
	req.Header.Set("Authorization", "Bearer "+TOKEN)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("Error getting aggregate data:", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Println("Wrong status code:", resp.StatusCode)
		return
	}

	var aggregate dtos.AggregateDataDTO
	if err := json.NewDecoder(resp.Body).Decode(&aggregate); err != nil {
		fmt.Println("Error decoding aggregate data:", err)
		return
	}

	fmt.Printf("Total USD: %.2f, successful: %d, declined: %d\n",
		aggregate.TotalAmountInUSD, aggregate.SuccessfulCount, aggregate.DeclinedCount)
}
