package main

import (
	"context"
	"encoding/json"
	"flag"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thetanav/trading-system/pkg/logger"
	orderreaderv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/order-reader/v1"
	orderbookv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/orderbook/v1"
	kafkaorder "github.com/thetanav/trading-system/services/trading-engine/internal/infrastructure/kafka/order"
	"github.com/thetanav/trading-system/services/trading-engine/pkg/config"
)

// generateCommands creates count limit/market orders spread around basePrice
// for the given accounts.
func generateCommands(rng *rand.Rand, accounts []string, count int, basePrice, spread decimal.Decimal) []orderreaderv1.OrderCommand {
	commands := make([]orderreaderv1.OrderCommand, 0, count)

	for i := 0; i < count; i++ {
		// 70% limit, 30% market
		orderType := orderbookv1.OrderTypeLimit
		if rng.Float64() < 0.3 {
			orderType = orderbookv1.OrderTypeMarket
		}

		side := orderbookv1.SideAsk
		if rng.IntN(2) == 0 {
			side = orderbookv1.SideBid
		}

		// Bids below the base price, asks above.
		offset := spread.Mul(decimal.NewFromFloat(rng.Float64() * 0.8)).Round(2)
		price := basePrice.Add(offset)
		if side == orderbookv1.SideBid {
			price = basePrice.Sub(offset)
		}
		if !price.IsPositive() {
			price = basePrice
		}

		commands = append(commands, orderreaderv1.OrderCommand{
			Type:      orderType,
			AccountID: accounts[rng.IntN(len(accounts))],
			Side:      string(side),
			Price:     price,
			Quantity:  decimal.NewFromInt(int64(rng.IntN(5) + 1)),
		})
	}

	return commands
}

func main() {
	var (
		brokers   = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic     = flag.String("topic", "orders", "Kafka topic name")
		accounts  = flag.String("accounts", "", "Account ids to trade as (comma-separated)")
		file      = flag.String("file", "", "JSON file with order commands (optional, generates commands if not provided)")
		delay     = flag.Duration("delay", 100*time.Millisecond, "Delay between sending commands")
		count     = flag.Int("count", 100, "Number of commands to generate")
		basePrice = flag.String("base-price", "100.00", "Base price for generated orders")
		spread    = flag.String("price-spread", "5.00", "Price spread range")
	)
	flag.Parse()

	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	var commands []orderreaderv1.OrderCommand
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Error(err, logger.Field{Key: "file", Value: *file})
			return
		}
		if err := json.Unmarshal(data, &commands); err != nil {
			log.Error(err, logger.Field{Key: "file", Value: *file})
			return
		}
	} else {
		if *accounts == "" {
			log.Warn("At least one account id is required to generate orders")
			return
		}
		ids := strings.Split(*accounts, ",")
		base, err := decimal.NewFromString(*basePrice)
		if err != nil {
			log.Error(err, logger.Field{Key: "flag", Value: "base-price"})
			return
		}
		spreadValue, err := decimal.NewFromString(*spread)
		if err != nil {
			log.Error(err, logger.Field{Key: "flag", Value: "price-spread"})
			return
		}
		rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
		commands = generateCommands(rng, ids, *count, base, spreadValue)
	}

	writer := kafkaorder.NewWriter(config.KafkaConfig{
		Brokers:    strings.Split(*brokers, ","),
		OrderTopic: *topic,
	}, log)
	defer writer.Close()

	ctx := context.Background()
	sent := 0
	for i, cmd := range commands {
		if err := writer.WriteCommands(ctx, cmd); err != nil {
			continue
		}
		sent++

		if (i+1)%100 == 0 || i == len(commands)-1 {
			log.Info("Sent order commands",
				logger.Field{Key: "sent", Value: sent},
				logger.Field{Key: "total", Value: len(commands)},
			)
		}
		if i < len(commands)-1 {
			time.Sleep(*delay)
		}
	}

	log.Info("Done", logger.Field{Key: "sent", Value: sent}, logger.Field{Key: "topic", Value: *topic})
}
