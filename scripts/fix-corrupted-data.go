// Command fix-corrupted-data scans stored characters for undecodable JSON and
// out-of-range health, then offers to delete or repair them.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-narrative/internal/entities"
	characterrepo "github.com/KirkDiggler/rpg-narrative/internal/repositories/character"
)

type finding struct {
	key       string
	corrupt   bool
	character *entities.Character
}

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning for corrupted character data...")

	iter := client.Scan(ctx, 0, characterrepo.KeyPrefix+"*", 0).Iterator()

	var findings []finding
	var checkedCount int

	for iter.Next(ctx) {
		key := iter.Val()
		checkedCount++

		data, err := client.Get(ctx, key).Result()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		var c entities.Character
		if err := json.Unmarshal([]byte(data), &c); err != nil || c.ID == "" {
			fmt.Printf("✗ Corrupted JSON in %s\n", key)
			findings = append(findings, finding{key: key, corrupt: true})
			continue
		}

		if c.MaxHealth <= 0 || c.Health < 0 || c.Health > c.MaxHealth {
			fmt.Printf("✗ Health out of range in %s: %d/%d\n", key, c.Health, c.MaxHealth)
			findings = append(findings, finding{key: key, character: &c})
		}
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d keys, found %d bad entries\n", checkedCount, len(findings))

	if len(findings) == 0 {
		fmt.Println("No corrupted data found!")
		return
	}

	fmt.Print("\nDelete corrupted entries and clamp health on the rest? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	for _, f := range findings {
		if f.corrupt {
			if err := client.Del(ctx, f.key).Err(); err != nil {
				fmt.Printf("Failed to delete %s: %v\n", f.key, err)
			} else {
				fmt.Printf("Deleted %s\n", f.key)
			}
			continue
		}

		c := f.character
		if c.MaxHealth <= 0 {
			c.MaxHealth = entities.DefaultMaxHealth
		}
		c.Health = max(0, min(c.Health, c.MaxHealth))
		// Bump the version so in-flight writers holding the old one are rejected.
		c.Version++

		data, err := json.Marshal(c)
		if err != nil {
			fmt.Printf("Failed to encode %s: %v\n", f.key, err)
			continue
		}
		if err := client.Set(ctx, f.key, data, 0).Err(); err != nil {
			fmt.Printf("Failed to repair %s: %v\n", f.key, err)
		} else {
			fmt.Printf("Repaired %s: %d/%d\n", f.key, c.Health, c.MaxHealth)
		}
	}
	fmt.Println("\nCleanup complete!")
}
