package main

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"

	"github.com/gin-gonic/gin"

	mgo "DMProject/data/database/mgo/mongoutil"
	"DMProject/global"
	"DMProject/logger"
	"DMProject/module/chat/handler"
	msgstore "DMProject/module/chat/message"
	"DMProject/module/chat/relay"
	"DMProject/service/chat"
	"DMProject/service/natsx"
	redisx "DMProject/service/storage/redis"
	"DMProject/tools/ids"
	"DMProject/tools/security"
)

func main() {
	cfg := global.Global
	ids.SetNodeID(nodeSeed(cfg.NodeID))
	defer logger.Sync()

	ctx := context.Background()

	cli, err := mgo.NewMongoDB(ctx, &cfg.Mongo)
	if err != nil {
		logger.Errorf("mongo connect failed: %v", err)
		os.Exit(1)
	}
	store := msgstore.NewStore(cli.GetDB())
	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Warnf("ensure indexes failed: %v", err)
	}

	presence := false
	if cfg.Redis.Addr != "" {
		if err := redisx.Init(ctx, cfg.Redis); err != nil {
			logger.Warnf("redis unavailable, presence mirror disabled: %v", err)
		} else {
			presence = true
		}
	}

	server := chat.NewServer(chat.ServerConf{
		GatewayID:       cfg.NodeID,
		JWT:             security.DefaultOptions(global.GetJwtSecret()),
		SendQueueSize:   cfg.SendQueueSize,
		PresenceTTL:     cfg.PresenceTTL,
		PresenceEnabled: presence,
	})
	rel := relay.NewRelay(store, server)
	server.SetRelay(rel)

	if len(cfg.Nats.Servers) > 0 {
		nc, err := natsx.NewClient(cfg.Nats)
		if err != nil {
			logger.Warnf("nats unavailable, cross-gateway delivery disabled: %v", err)
		} else {
			d := natsx.NewDeliverRelay(nc, cfg.NodeID)
			if err := d.Subscribe(server.DeliverLocal); err != nil {
				logger.Warnf("deliver subscribe failed: %v", err)
			} else {
				server.SetDeliverRelay(d)
			}
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/ws", server.HandleWS)
	handler.New(rel).RegisterRoutes(r)

	logger.Infof("gateway %s listening on :%d", cfg.NodeID, cfg.Port)
	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logger.Errorf("server exited: %v", err)
		os.Exit(1)
	}
}

// nodeSeed folds the gateway id into a snowflake node id.
func nodeSeed(nodeID string) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(nodeID))
	return int64(h.Sum32() % 1024)
}
