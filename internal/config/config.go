// Package config загружает конфигурацию из TOML файла с переопределением через переменные окружения LAUNDRY_*
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
	"github.com/m04kA/SMC-LaundryScheduler/pkg/types"
)

// EnvPrefix префикс переменных окружения
const EnvPrefix = "LAUNDRY"

// Config конфигурация сервиса
type Config struct {
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Database     DatabaseConfig     `toml:"database"`
	Server       ServerConfig       `toml:"server"`
	Shop         ShopConfig         `toml:"shop"`
	Reservations ReservationsConfig `toml:"reservations"`
	Catalog      CatalogConfig      `toml:"catalog" ignored:"true"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

// DatabaseConfig настройки PostgreSQL. Если Enabled = false, резервы живут только в памяти
type DatabaseConfig struct {
	Enabled         bool   `toml:"enabled"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
}

// ServerConfig настройки служебного HTTP сервера (метрики и healthz)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`     // секунды
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`    // секунды
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"` // секунды
}

// ShopConfig часы работы и календарь
type ShopConfig struct {
	ClosedWeekday string           `toml:"closed_weekday" split_words:"true"`
	HorizonDays   int              `toml:"horizon_days" split_words:"true"`
	OpenTime      types.TimeString `toml:"open_time" split_words:"true"`
	CloseTime     types.TimeString `toml:"close_time" split_words:"true"`
	Timezone      string           `toml:"timezone"`
}

// ReservationsConfig удержание резервов до оплаты
type ReservationsConfig struct {
	HoldTTLSeconds        int `toml:"hold_ttl_seconds" split_words:"true"`
	ReaperIntervalSeconds int `toml:"reaper_interval_seconds" split_words:"true"`
}

// CatalogConfig таблицы слотов
type CatalogConfig struct {
	Slots []SlotConfig `toml:"slots"`
}

// SlotConfig один слот каталога
type SlotConfig struct {
	BookingType     string           `toml:"booking_type"`
	FulfillmentPath string           `toml:"fulfillment_path"`
	Time            types.TimeString `toml:"time"`
	Label           string           `toml:"label"`
	Capacity        int              `toml:"capacity"`
}

// Load читает файл поверх значений по умолчанию, применяет переменные окружения
// (например, LAUNDRY_SHOP_HORIZON_DAYS) и валидирует результат
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", domain.ErrConfig, path, err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to apply environment: %v", domain.ErrConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "laundry-scheduler",
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			ShutdownTimeout: 10,
		},
		Shop: ShopConfig{
			ClosedWeekday: strings.ToLower(domain.DefaultClosedWeekday.String()),
			HorizonDays:   domain.DefaultHorizonDays,
			Timezone:      "UTC",
		},
		Reservations: ReservationsConfig{
			HoldTTLSeconds:        900,
			ReaperIntervalSeconds: 30,
		},
	}
}

// Validate проверяет конфигурацию. Каталог слотов проверяет catalog.New
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.Shop.Weekday(); err != nil {
		errs = append(errs, err)
	}
	if _, err := time.LoadLocation(c.Shop.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("shop.timezone: %v", err))
	}
	if c.Shop.HorizonDays < domain.MinHorizonDays || c.Shop.HorizonDays > domain.MaxHorizonDays {
		errs = append(errs, fmt.Errorf("shop.horizon_days must be between %d and %d", domain.MinHorizonDays, domain.MaxHorizonDays))
	}
	if err := c.Shop.OpenTime.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("shop.open_time: %v", err))
	}
	if err := c.Shop.CloseTime.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("shop.close_time: %v", err))
	}
	if c.Reservations.HoldTTLSeconds <= 0 {
		errs = append(errs, errors.New("reservations.hold_ttl_seconds must be positive"))
	}
	if c.Reservations.ReaperIntervalSeconds <= 0 {
		errs = append(errs, errors.New("reservations.reaper_interval_seconds must be positive"))
	}
	if len(c.Catalog.Slots) == 0 {
		errs = append(errs, errors.New("catalog.slots must not be empty"))
	}
	if c.Database.Enabled && (c.Database.Host == "" || c.Database.DBName == "") {
		errs = append(errs, errors.New("database.host and database.dbname are required when database is enabled"))
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, errors.New("metrics.path must start with /"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", domain.ErrConfig, errors.Join(errs...))
	}
	return nil
}

// DSN строка подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Weekday выходной день магазина
func (s ShopConfig) Weekday() (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s.ClosedWeekday))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown shop.closed_weekday %q", domain.ErrConfig, s.ClosedWeekday)
}

// Location часовой пояс магазина, в котором считается "сегодня"
func (s ShopConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: shop.timezone: %v", domain.ErrConfig, err)
	}
	return loc, nil
}

// Hours часы работы магазина
func (s ShopConfig) Hours() domain.ShopHours {
	return domain.ShopHours{Open: s.OpenTime, Close: s.CloseTime}
}

// HoldTTL время удержания неоплаченного резерва
func (r ReservationsConfig) HoldTTL() time.Duration {
	return time.Duration(r.HoldTTLSeconds) * time.Second
}

// ReaperInterval период фоновой очистки просроченных резервов
func (r ReservationsConfig) ReaperInterval() time.Duration {
	return time.Duration(r.ReaperIntervalSeconds) * time.Second
}

// Tables группирует слоты по (тип бронирования, путь получения) в порядке файла
func (c CatalogConfig) Tables() (map[domain.CatalogKey][]domain.TimeSlotDefinition, error) {
	tables := make(map[domain.CatalogKey][]domain.TimeSlotDefinition)

	for i, slot := range c.Slots {
		bookingType, err := domain.ParseBookingType(slot.BookingType)
		if err != nil {
			return nil, fmt.Errorf("catalog.slots[%d]: %w", i, err)
		}
		path, err := domain.ParseFulfillmentPath(slot.FulfillmentPath)
		if err != nil {
			return nil, fmt.Errorf("catalog.slots[%d]: %w", i, err)
		}

		// "9:00" в конфиге приводим к "09:00", как время вернется из БД
		timeOfDay, err := types.NewTimeStringFromString(string(slot.Time))
		if err != nil {
			return nil, fmt.Errorf("%w: catalog.slots[%d]: %v", domain.ErrConfig, i, err)
		}

		key := domain.CatalogKey{BookingType: bookingType, FulfillmentPath: path}
		tables[key] = append(tables[key], domain.TimeSlotDefinition{
			TimeOfDay:     timeOfDay,
			DisplayLabel:  slot.Label,
			TotalCapacity: slot.Capacity,
		})
	}

	return tables, nil
}
