package main

import (
	"fmt"
	"log"
	"os"

	"shopapi/internal/server"
)

func main() {
	dbPath := os.Getenv("SHOP_DB_PATH")
	if dbPath == "" {
		dbPath = "./data/shop.db"
	}

	db, err := server.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("OpenDB failed: %v", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' ORDER BY name;`)
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}
	defer rows.Close()

	fmt.Println("Tables:")
	for rows.Next() {
		var name string
		_ = rows.Scan(&name)
		fmt.Println(" -", name)
	}

	var items, carts int
	_ = db.QueryRow(`SELECT COUNT(*) FROM items;`).Scan(&items)
	_ = db.QueryRow(`SELECT COUNT(*) FROM carts;`).Scan(&carts)
	fmt.Println("Items:", items)
	fmt.Println("Carts:", carts)
}
