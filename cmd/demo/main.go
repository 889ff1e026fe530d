package main

import (
	"fmt"
	"log"

	"github.com/mtljason322/freshcart/internal/domain"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	today := domain.SystemClock.Today()

	inv := domain.NewInventory(domain.WithAddObserver(func(item domain.Item) {
		logger.Info("Product added", zap.String("sku", item.SKU()))
	}))

	coffee := must(domain.NewProduct("SKU001", "Coffee", 8.0))
	milk := must(domain.NewPerishableProduct("SKU002", "Milk", 4.0, today.AddDays(2)))
	sugar := must(domain.NewProduct("SKU003", "Sugar", 2.0))
	cheese := must(domain.NewPerishableProduct("SKU004", "Cheese", 6.0, today.AddDays(10)))
	cream := must(domain.NewPerishableProduct("SKU005", "Cream", 5.0, today.AddDays(-1)))

	for _, item := range []domain.Item{coffee, milk, sugar, cheese, cream} {
		inv.Add(item)
	}

	fmt.Println("All products:")
	for _, item := range inv.All() {
		fmt.Printf("  %s | expired=%t | final=%.2f\n", item, item.IsExpired(), item.FinalPrice())
	}

	fmt.Println("Expired:")
	for _, item := range inv.Expired() {
		fmt.Printf("  %s\n", item)
	}

	fmt.Printf("Total value (final prices): %.2f\n", inv.TotalValue())
}

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}
