package main

import (
	"context"
	"log"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/i474232898/weather-widget/internal/config"
	"github.com/i474232898/weather-widget/internal/logging"
	"github.com/i474232898/weather-widget/internal/tui"
	"github.com/i474232898/weather-widget/internal/weather/providers"
	"github.com/i474232898/weather-widget/internal/widget"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Anything written to the terminal would corrupt the screen.
	zl := zap.NewNop()
	if cfg.LogFile != "" {
		if zl, err = logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile); err != nil {
			log.Fatalf("failed to build logger: %v", err)
		}
	}
	defer zl.Sync()

	provider := providers.NewWeatherAPIProvider(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.WeatherAPIKey,
		providers.WithBaseURL(cfg.WeatherAPIBaseURL))
	w := widget.New(provider, zl.Named("widget"))

	p := tea.NewProgram(tui.New(context.Background(), w, widget.RealClock{}),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil {
		zl.Error("tui exited with error", zap.Error(err))
		log.Fatalf("tui: %v", err)
	}
}
