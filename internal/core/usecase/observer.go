package usecase

import (
	"time"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

type noopObserver struct{}

func (noopObserver) SegmentTranslated(domain.LeverageData, bool, time.Duration) {}
func (noopObserver) SegmentFailed(string, time.Duration)                       {}
func (noopObserver) TMDegraded()                                               {}
func (noopObserver) BulkProgress(int, int)                                     {}
func (noopObserver) AnalysisCacheLookup(bool)                                  {}
func (noopObserver) AutosaveWrite(string)                                      {}
