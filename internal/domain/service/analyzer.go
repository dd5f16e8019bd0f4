package service

import (
	"WaveScan/internal/domain/models"
	"WaveScan/internal/domain/repository"
)

// Analyzer runs one full market-structure pass over a bar window.
// htfBars carries the next-higher timeframe's window and may be nil,
// in which case the higher-timeframe confluence factor never fires.
type Analyzer interface {
	Analyze(symbol string, tf repository.Timeframe, bars, htfBars []models.Bar) (*models.Analysis, error)
}
