package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/oleotrade/pfad-procurement/internal/models"
)

type Config struct {
	Environment string                   `mapstructure:"environment"`
	LogLevel    string                   `mapstructure:"log_level"`
	Server      ServerConfig             `mapstructure:"server"`
	Pipeline    PipelineConfig           `mapstructure:"pipeline"`
	Costs       models.CostStructure     `mapstructure:"costs"`
	Business    BusinessDefaults         `mapstructure:"business"`
	Suppliers   []models.SupplierProfile `mapstructure:"suppliers"`
	Recorder    RecorderConfig           `mapstructure:"recorder"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type PipelineConfig struct {
	DefaultHorizonDays int `mapstructure:"default_horizon_days"`
	MaxCovariates      int `mapstructure:"max_covariates"`
	MaxLag             int `mapstructure:"max_lag"`
	MinPanelRows       int `mapstructure:"min_panel_rows"`
}

// BusinessDefaults seed the business parameters when a run request omits
// them; the UI normally supplies its own.
type BusinessDefaults struct {
	MonthlyConsumptionTons float64 `mapstructure:"monthly_consumption_tons"`
	CurrentInventoryTons   float64 `mapstructure:"current_inventory_tons"`
	SafetyStockDays        float64 `mapstructure:"safety_stock_days"`
	MaxStorageCapacityTons float64 `mapstructure:"max_storage_capacity_tons"`
}

type RecorderConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if config.Pipeline.DefaultHorizonDays <= 0 {
		return nil, fmt.Errorf("pipeline.default_horizon_days must be positive, got %d", config.Pipeline.DefaultHorizonDays)
	}
	if config.Pipeline.MaxCovariates <= 0 {
		return nil, fmt.Errorf("pipeline.max_covariates must be positive, got %d", config.Pipeline.MaxCovariates)
	}
	if config.Pipeline.MinPanelRows < 20 {
		return nil, fmt.Errorf("pipeline.min_panel_rows must be at least 20, got %d", config.Pipeline.MinPanelRows)
	}
	for _, s := range config.Suppliers {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("invalid supplier config: %w", err)
		}
	}

	return &config, nil
}

// BusinessParameters converts the configured defaults into validated run
// parameters.
func (c *Config) BusinessParameters() models.BusinessParameters {
	return models.BusinessParameters{
		MonthlyConsumptionTons: c.Business.MonthlyConsumptionTons,
		CurrentInventoryTons:   c.Business.CurrentInventoryTons,
		SafetyStockDays:        c.Business.SafetyStockDays,
		MaxStorageCapacityTons: c.Business.MaxStorageCapacityTons,
	}
}

func setDefaults() {
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("server.port", 8080)

	viper.SetDefault("pipeline.default_horizon_days", 30)
	viper.SetDefault("pipeline.max_covariates", 4)
	viper.SetDefault("pipeline.max_lag", 10)
	viper.SetDefault("pipeline.min_panel_rows", 100)

	viper.SetDefault("costs.holding_cost_rate_monthly", 0.02)
	viper.SetDefault("costs.ordering_cost", 25000.0)
	viper.SetDefault("costs.working_capital_rate", 0.12)
	viper.SetDefault("costs.transport_cost_per_ton", 2000.0)
	viper.SetDefault("costs.storage_cost_per_ton_month", 500.0)
	viper.SetDefault("costs.insurance_rate", 0.005)

	viper.SetDefault("business.monthly_consumption_tons", 500.0)
	viper.SetDefault("business.current_inventory_tons", 800.0)
	viper.SetDefault("business.safety_stock_days", 15.0)
	viper.SetDefault("business.max_storage_capacity_tons", 2000.0)

	viper.SetDefault("recorder.enabled", false)
	viper.SetDefault("recorder.path", "./data/procurement.db")

	viper.SetDefault("suppliers", []map[string]interface{}{
		{
			"name": "Supplier_A", "reliability": 0.95, "lead_time_days": 15.0,
			"minimum_order_tons": 100.0, "price_premium": 0.0,
			"payment_terms_days": 30.0, "quality_score": 0.98,
		},
		{
			"name": "Supplier_B", "reliability": 0.92, "lead_time_days": 20.0,
			"minimum_order_tons": 150.0, "price_premium": -0.02,
			"payment_terms_days": 45.0, "quality_score": 0.96,
		},
		{
			"name": "Supplier_C", "reliability": 0.98, "lead_time_days": 10.0,
			"minimum_order_tons": 50.0, "price_premium": 0.03,
			"payment_terms_days": 15.0, "quality_score": 0.99,
		},
	})
}
