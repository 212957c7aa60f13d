package serverconfig

import (
	"errors"
	"fmt"
	"math"
	"os"

	"Geocache/internal/shared/config"

	"github.com/spf13/viper"
)

const (
	PolicySwap              = "swap"
	PolicyRejectWhenHolding = "reject_when_holding"

	JournalMemory  = "memory"
	JournalMongoDB = "mongodb"
	JournalMySQL   = "mysql"
)

var Conf = Default()

// Default 返回全部默认值，yaml 里出现的字段覆盖它。
func Default() Config {
	return Config{
		HTTPServer: HTTPServerConfig{Host: "0.0.0.0", Port: 8080},
		GRPCServer: GRPCServerConfig{Host: "0.0.0.0", Port: 9090},
		WS:         WSConfig{OutBuffer: 256},
		Session:    SessionConfig{TTLHours: 24, IdleTimeoutS: 900, AskTimeoutMs: 3000},
		Game: GameConfig{
			TileDegrees:      1e-4,
			SpawnProbability: 0.10,
			MaxViewCells:     40000,
			Policy:           PolicySwap,
			Tiers: []TierConfig{
				{UpTo: 0.06, Value: 131},
				{UpTo: 0.09, Value: 262},
				{UpTo: 0.10, Value: 524},
			},
		},
		Journal: JournalConfig{Driver: JournalMemory, FlushEveryMs: 1000, BatchSize: 256, MaxPending: 65536},
		MongoDB: MongoDBConfig{Database: "geocache", ConnectTimeoutS: 3},
		MySQL:   MySQLConfig{Port: 3306, Charset: "utf8mb4", MaxIdle: 2, MaxConn: 8},
		Log:     LogConfig{Level: "info", MaxSize: 100, MaxBackups: 7, MaxAge: 30},
	}
}

// Load 读取 configs/conf.yml；onLogLevel 用于热更新日志级别，其余配置只在启动时生效。
func Load(cfgName string, onLogLevel func(level string)) error {
	path, err := config.Resolve(cfgName)
	if err != nil {
		return err
	}

	next := Default()
	// yaml 里写了 tiers 时默认档位按它的长度截断
	var onChange func(v *viper.Viper)
	if onLogLevel != nil {
		onChange = func(v *viper.Viper) {
			var changed Config
			if err := config.Decode(v, &changed); err != nil {
				return
			}
			onLogLevel(changed.Log.Level)
		}
	}
	if err := config.Load(path, &next, onChange); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	Conf = next

	// 环境变量优先；未设置时回填配置里的 jwt_secret，兼容本地开发。
	if os.Getenv("JWT_SECRET") == "" && Conf.Session.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", Conf.Session.JWTSecret)
	}
	return nil
}

func (c Config) Validate() error {
	return c.Game.Validate()
}

func (g GameConfig) Validate() error {
	if !(g.TileDegrees > 0) || math.IsInf(g.TileDegrees, 0) {
		return errors.New("game.tile_degrees must be positive")
	}
	if !(g.SpawnProbability > 0 && g.SpawnProbability <= 1) {
		return errors.New("game.spawn_probability must be in (0, 1]")
	}
	switch g.Policy {
	case PolicySwap, PolicyRejectWhenHolding:
	default:
		return fmt.Errorf("game.policy %q is not supported", g.Policy)
	}
	if len(g.Tiers) == 0 {
		return errors.New("game.tiers must not be empty")
	}
	prev := math.Inf(-1)
	for i, t := range g.Tiers {
		if t.Value <= 0 {
			return fmt.Errorf("game.tiers[%d].value must be positive", i)
		}
		if !(t.UpTo > prev) {
			return fmt.Errorf("game.tiers[%d].up_to must be ascending", i)
		}
		prev = t.UpTo
	}
	return nil
}
