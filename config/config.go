package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Financial configuration used by the scenario evaluator
	Financial struct {
		// Agent commission as a fraction of the sale price
		CommissionRate float64 `env:"FIN_COMMISSION_RATE" envDefault:"0.02"`

		// Income tax as a fraction of the sale price
		TaxRate float64 `env:"FIN_TAX_RATE" envDefault:"0.13"`

		// Notary, paperwork and other fees as a fraction of the sale price
		OtherFeesRate float64 `env:"FIN_OTHER_FEES_RATE" envDefault:"0.01"`

		// Annual yield the capital could earn elsewhere (opportunity cost)
		AnnualYieldRate float64 `env:"FIN_ANNUAL_YIELD_RATE" envDefault:"0.08"`
	}

	// Statistics configuration for the market aggregator
	Statistics struct {
		// IQR multiplier for outlier bounds; wider than the classical 1.5
		// so legitimate premium and discount listings survive filtering
		IQRFactor float64 `env:"STATS_IQR_FACTOR" envDefault:"2.0"`

		// Minimum usable sample size before outlier filtering runs at all
		OutlierMinSample int `env:"STATS_OUTLIER_MIN_SAMPLE" envDefault:"5"`

		// Weight applied to comparables in the target's residential complex
		SameComplexWeight int `env:"STATS_COMPLEX_WEIGHT" envDefault:"2"`

		// Fraction trimmed from each tail for the winsorized mean
		WinsorizeFraction float64 `env:"STATS_WINSORIZE_FRACTION" envDefault:"0.10"`

		// Sample size at which the winsorized estimator takes over
		WinsorizeMinSample int `env:"STATS_WINSORIZE_MIN_SAMPLE" envDefault:"10"`
	}

	// Simulation configuration for selling scenarios
	Simulation struct {
		// Number of months each scenario trajectory covers
		HorizonMonths int `env:"SIM_HORIZON_MONTHS" envDefault:"14"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
