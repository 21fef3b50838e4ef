// score-producer drives the score-submission topic with synthetic traffic
// for load testing the ingestion path.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/IBM/sarama"
)

// submission mirrors the wire shape the ingestion consumer decodes.
type submission struct {
	Name       string `json:"name"`
	Section    string `json:"section"`
	Score      int64  `json:"score"`
	Skin       string `json:"skin"`
	NearMisses int    `json:"nearMisses"`
}

var namePrefixes = []string{
	"Phoenix", "Shadow", "Thunder", "Storm", "Blaze", "Ninja", "Dragon", "Wolf", "Hawk", "Viper",
	"Ghost", "Titan", "Frost", "Cyber", "Nova", "Raven", "Omega", "Alpha", "Delta", "Sigma",
}

var skins = []string{"Classic", "Golden", "Neon", "Shadow"}

func playerName(idx int) string {
	prefix := namePrefixes[idx%len(namePrefixes)]
	return fmt.Sprintf("%s%d", prefix, idx/len(namePrefixes)+1)
}

func main() {
	brokers := flag.String("brokers", "localhost:9092", "Kafka brokers (comma-separated)")
	topic := flag.String("topic", "score-submissions", "Kafka topic")
	sections := flag.String("sections", "General,Cave,Night,Storm", "Sections to submit into (comma-separated)")
	totalPlayers := flag.Int("players", 500, "Number of distinct players")
	rate := flag.Int("rate", 50, "Submissions per second")
	duration := flag.Duration("duration", 0, "Duration to run (0 = forever)")
	flag.Parse()

	brokerList := strings.Split(*brokers, ",")
	sectionList := strings.Split(*sections, ",")

	fmt.Printf("score-producer: brokers=%s topic=%s players=%d rate=%d/s sections=%v\n",
		*brokers, *topic, *totalPlayers, *rate, sectionList)

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Flush.Frequency = 100 * time.Millisecond
	cfg.Producer.Flush.Messages = 100
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true

	producer, err := sarama.NewAsyncProducer(brokerList, cfg)
	if err != nil {
		log.Fatalf("Failed to create producer: %v", err)
	}
	defer producer.Close()

	var successCount, errorCount int64
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for range producer.Successes() {
			atomic.AddInt64(&successCount, 1)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for err := range producer.Errors() {
			atomic.AddInt64(&errorCount, 1)
			log.Printf("Producer error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	send := func(sub submission) {
		data, err := json.Marshal(sub)
		if err != nil {
			log.Printf("Failed to marshal submission: %v", err)
			return
		}
		producer.Input() <- &sarama.ProducerMessage{
			Topic: *topic,
			Key:   sarama.StringEncoder(sub.Name),
			Value: sarama.ByteEncoder(data),
		}
	}

	shutdown := func() {
		producer.AsyncClose()
		wg.Wait()
		fmt.Printf("\nDone. Sent: %d, Errors: %d\n",
			atomic.LoadInt64(&successCount), atomic.LoadInt64(&errorCount))
	}

	interval := time.Second / time.Duration(*rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	statsTicker := time.NewTicker(5 * time.Second)
	defer statsTicker.Stop()

	var endTime time.Time
	if *duration > 0 {
		endTime = time.Now().Add(*duration)
	}

	fmt.Println("Producing. Press Ctrl+C to stop.")

	for {
		select {
		case <-sigChan:
			fmt.Println("\nShutting down...")
			shutdown()
			return

		case <-ticker.C:
			if *duration > 0 && time.Now().After(endTime) {
				fmt.Println("\nDuration reached.")
				shutdown()
				return
			}

			// A small pool of regulars dominates, the rest is long tail.
			var idx int
			if rand.Intn(100) < 70 {
				idx = rand.Intn(20)
			} else {
				idx = rand.Intn(*totalPlayers)
			}

			send(submission{
				Name:       playerName(idx),
				Section:    sectionList[rand.Intn(len(sectionList))],
				Score:      int64(rand.Intn(5000)),
				Skin:       skins[rand.Intn(len(skins))],
				NearMisses: rand.Intn(20),
			})

		case <-statsTicker.C:
			fmt.Printf("[%s] Sent: %d | Errors: %d\n",
				time.Now().Format("15:04:05"),
				atomic.LoadInt64(&successCount),
				atomic.LoadInt64(&errorCount),
			)
		}
	}
}
