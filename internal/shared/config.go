package shared

import "os"

// Config is the process configuration, read from the environment. Defaults
// make a bare `shop-server` run with the in-memory backend.
type Config struct {
	Addr    string // listen address
	Backend string // "memory" or "sqlite"
	DBPath  string // sqlite file, only used by the sqlite backend
}

func LoadConfig() Config {
	c := Config{
		Addr:    os.Getenv("SHOP_ADDR"),
		Backend: os.Getenv("SHOP_BACKEND"),
		DBPath:  os.Getenv("SHOP_DB_PATH"),
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.DBPath == "" {
		c.DBPath = "./data/shop.db"
	}
	return c
}
