package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/storage"
)

const archiveTimeout = 10 * time.Second

// scheduleArchiver uploads a JSON snapshot of a schedule after each change.
// Failures are logged and never returned.
type scheduleArchiver struct {
	store  storage.ArchiveStore
	logger *slog.Logger
}

func archiveKey(competition *models.Competition) string {
	return fmt.Sprintf("competitions/%s/schedule-%03d.json", competition.ID, len(competition.Rounds))
}

func (a *scheduleArchiver) archive(ctx context.Context, competition *models.Competition) {
	if a == nil || a.store == nil || competition == nil {
		return
	}

	body, err := json.Marshal(competition)
	if err != nil {
		a.logger.Error("failed to encode schedule snapshot",
			slog.String("competition_id", competition.ID.String()),
			slog.Any("error", err))
		return
	}

	// the caller's request may already be finished
	uploadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	key := archiveKey(competition)
	result, err := a.store.Upload(uploadCtx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		a.logger.Warn("failed to archive schedule snapshot",
			slog.String("competition_id", competition.ID.String()),
			slog.String("key", key),
			slog.Any("error", err))
		return
	}
	a.logger.Info("schedule snapshot archived",
		slog.String("competition_id", competition.ID.String()),
		slog.String("key", result.Key),
		slog.String("location", result.Location))
}
