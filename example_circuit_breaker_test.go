package sentinel_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pior/sentinel"
	"github.com/sony/gobreaker/v2"
)

// Example demonstrating how to stop hammering a Sentinel that is down
func ExampleNewCircuitBreaker() {
	client := sentinel.NewClient("localhost", 0, sentinel.Config{})
	defer client.Close()

	cb := sentinel.NewCircuitBreaker[sentinel.MasterAddr](
		client.Addr(),
		3,              // consecutive failures before opening
		10*time.Second, // timeout before letting a probe through
		func(name string, from, to gobreaker.State) {
			fmt.Printf("Circuit breaker %s: %s -> %s\n", name, from, to)
		},
	)

	ctx := context.Background()

	addr, err := cb.Execute(func() (sentinel.MasterAddr, error) {
		return client.GetMasterAddrByName(ctx, "mymaster")
	})
	if errors.Is(err, gobreaker.ErrOpenState) {
		fmt.Println("sentinel unavailable, using the last known address")
		return
	}
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("master at", addr)
}
