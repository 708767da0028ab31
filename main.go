// Package main is the entry point of streamdex.
package main

import (
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/streamdex/streamdex/cmd"
	"github.com/streamdex/streamdex/config"
	"github.com/streamdex/streamdex/internal/cache"
	"github.com/streamdex/streamdex/key"
	"github.com/streamdex/streamdex/log"
	"github.com/streamdex/streamdex/style"
	"github.com/streamdex/streamdex/where"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())
	style.Setup()

	// Expired scrape results are swept in the background.
	go func() {
		ttl := time.Duration(viper.GetInt(key.FetchCacheTTLMinutes)) * time.Minute
		if removed := cache.CollectGarbage(where.Scrapes(), ttl); removed > 0 {
			log.Infof("removed %d expired scrapes", removed)
		}
	}()

	cmd.Execute()
}
