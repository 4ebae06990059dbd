package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/pharmatrade/medinv/internal/config"
	"github.com/pharmatrade/medinv/internal/migration"
	"github.com/pharmatrade/medinv/internal/server"
	"github.com/pharmatrade/medinv/pkg/db"
	"github.com/pharmatrade/medinv/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
