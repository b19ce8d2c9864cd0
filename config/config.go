package config

import (
	"fmt"
	"time"
)

// Duration decodes TOML strings like "120h" into a time.Duration.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type Configs struct {
	Env string

	Database     DatabaseConfigs
	Redis        RedisConfigs
	Kafka        KafkaConfigs
	Economy      EconomyConfigs
	Notification NotificationConfigs
	SnowFlake    SnowFlakeConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string

	LogLevel string
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string
}

type NotificationConfigs struct {
	Topic string
}

type SnowFlakeConfigs struct {
	NodeID int64
}

// EconomyConfigs holds every tunable constant of the points economy. The
// reward shape (probabilistic view bonuses with diminishing frequency) is a
// product decision; the exact numbers are configuration, not contract.
type EconomyConfigs struct {
	// WelcomePoints is granted to the gift bucket of every new wallet whose
	// registration origin is not flagged by the fraud registry.
	WelcomePoints int64 `toml:"welcome_points"`

	// OwnerGrantPoints is granted to the platform owner account at most once
	// per OwnerGrantInterval.
	OwnerGrantPoints   int64    `toml:"owner_grant_points"`
	OwnerGrantInterval Duration `toml:"owner_grant_interval"`

	// CommissionPercent of every purchase price is kept by the platform; the
	// seller receives the rest.
	CommissionPercent int64 `toml:"commission_percent"`

	ViewReward ViewRewardConfigs `toml:"view_reward"`
}

// ViewRewardConfigs tunes the creator micro-reward for unique views. The
// ledger is integer-denominated, so the sub-point base reward is realized
// probabilistically with the same expected value.
type ViewRewardConfigs struct {
	// BaseProbability chance of granting BasePoints on every unique view.
	BaseProbability float64 `toml:"base_probability"`
	BasePoints      int64   `toml:"base_points"`

	// A bonus roll happens with probability BonusScale/(views+BonusScale),
	// so popular content yields bonuses less often. A successful roll grants
	// SmallBonusPoints, or LargeBonusPoints once per LargeBonusOdds rolls.
	BonusScale       int64 `toml:"bonus_scale"`
	SmallBonusPoints int64 `toml:"small_bonus_points"`
	LargeBonusPoints int64 `toml:"large_bonus_points"`
	LargeBonusOdds   int   `toml:"large_bonus_odds"`
}

func DefaultEconomyConfigs() EconomyConfigs {
	return EconomyConfigs{
		WelcomePoints:      100,
		OwnerGrantPoints:   10000,
		OwnerGrantInterval: Duration{5 * 24 * time.Hour},
		CommissionPercent:  30,
		ViewReward: ViewRewardConfigs{
			BaseProbability:  0.05,
			BasePoints:       1,
			BonusScale:       100,
			SmallBonusPoints: 5,
			LargeBonusPoints: 25,
			LargeBonusOdds:   20,
		},
	}
}
