package global

import (
	"os"
	"strconv"
	"strings"
	"time"

	mgo "DMProject/data/database/mgo/mongoutil"
	"DMProject/service/natsx"
	redisx "DMProject/service/storage/redis"
)

const NodeTypeMsgGateway = "msgGateWay"

type AppConfig struct {
	NodeType string
	NodeID   string // gateway node id, also the snowflake node seed
	Port     int

	SendQueueSize int           // per-connection outbound queue
	PresenceTTL   time.Duration // redis presence key TTL

	Mongo mgo.Config
	Redis redisx.Config // empty Addr disables the presence mirror
	Nats  natsx.Config  // empty Servers disables cross-gateway delivery
}

var Global = AppConfig{
	NodeType:      NodeTypeMsgGateway,
	NodeID:        envStr("DM_NODE_ID", "gateway_1"),
	Port:          envInt("DM_PORT", 8080),
	SendQueueSize: envInt("DM_SEND_QUEUE", 256),
	PresenceTTL:   2 * time.Minute,
	Mongo: mgo.Config{
		Uri:      envStr("DM_MONGO_URI", "mongodb://127.0.0.1:27017"),
		Database: envStr("DM_MONGO_DB", "dmchat"),
	},
	Redis: redisx.Config{
		Addr:     envStr("DM_REDIS_ADDR", ""),
		Password: envStr("DM_REDIS_PASSWORD", ""),
		DB:       envInt("DM_REDIS_DB", 0),
	},
	Nats: natsx.Config{
		Servers: splitNonEmpty(envStr("DM_NATS_SERVERS", "")),
		Name:    "dm-gateway",
	},
}

// GetJwtSecret returns the HMAC key for credential verification. The
// fallback is a development key; set DM_JWT_SECRET in production.
func GetJwtSecret() []byte {
	return []byte(envStr("DM_JWT_SECRET", "mN9b1f8zPq+W2xjX/45sKcVd0TfyoG+3Hp5Z8q9Rj1o="))
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
