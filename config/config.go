package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Game     GameConfig     `mapstructure:"game"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	Debug    bool   `mapstructure:"debug"`
	AdminKey string `mapstructure:"admin_key"`
}

type DatabaseConfig struct {
	Mode         string        `mapstructure:"mode"` // sqlite | mysql
	SQLitePath   string        `mapstructure:"sqlite_path"`
	MySQLDSN     string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife time.Duration `mapstructure:"mysql_max_life"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
	LocalPubSubBuf  int           `mapstructure:"local_pubsub_buf"`
}

type GameConfig struct {
	// EnergyRegenS is the seconds per regenerated energy point.
	EnergyRegenS int `mapstructure:"energy_regen_s"`
	// ClanWarCooldownH is the minimum hours between clan-war resets.
	ClanWarCooldownH int `mapstructure:"clan_war_cooldown_h"`
	// ClanWarCheckM is how often (minutes) the scheduler evaluates a reset.
	ClanWarCheckM int `mapstructure:"clan_war_check_m"`
	// QuestCycleH is the hours between daily quest regenerations.
	QuestCycleH int `mapstructure:"quest_cycle_h"`
	// RankingRefreshM is how often (minutes) the leaderboard cache rebuilds.
	RankingRefreshM int `mapstructure:"ranking_refresh_m"`
	// Boss defaults used when an admin spawns without parameters.
	BossName            string `mapstructure:"boss_name"`
	BossHP              int    `mapstructure:"boss_hp"`
	BossRewardFollowers int    `mapstructure:"boss_reward_followers"`
	BossRewardPoints    int    `mapstructure:"boss_reward_points"`
}

type SecurityConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTTTLH        time.Duration `mapstructure:"jwt_ttl_h"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("database.mode", "sqlite")
	v.SetDefault("database.sqlite_path", "./data/game.db")
	v.SetDefault("database.mysql_max_open", 50)
	v.SetDefault("database.mysql_max_idle", 10)
	v.SetDefault("database.mysql_max_life", "1h")
	v.SetDefault("cache.local_gc_interval", "30s")
	v.SetDefault("cache.local_pubsub_buf", 256)
	v.SetDefault("game.energy_regen_s", 120)
	v.SetDefault("game.clan_war_cooldown_h", 168)
	v.SetDefault("game.clan_war_check_m", 60)
	v.SetDefault("game.quest_cycle_h", 24)
	v.SetDefault("game.ranking_refresh_m", 5)
	v.SetDefault("game.boss_name", "Globie Overlord")
	v.SetDefault("game.boss_hp", 1000)
	v.SetDefault("game.boss_reward_followers", 200)
	v.SetDefault("game.boss_reward_points", 100)
	v.SetDefault("security.jwt_ttl_h", "72h")
	v.SetDefault("security.rate_limit_rps", 100)
	v.SetDefault("security.rate_limit_burst", 200)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
