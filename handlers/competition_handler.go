package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/fixture-engine/export"
	"github.com/Dosada05/fixture-engine/services"
	"github.com/go-chi/chi/v5"
)

type CompetitionHandler struct {
	competitionService services.CompetitionService
	knockoutService    services.KnockoutService
}

func NewCompetitionHandler(cs services.CompetitionService, ks services.KnockoutService) *CompetitionHandler {
	return &CompetitionHandler{
		competitionService: cs,
		knockoutService:    ks,
	}
}

// CreateCompetition godoc
// @Summary Создать соревнование
// @Tags competitions
// @Accept json
// @Produce json
// @Param body body services.CreateCompetitionInput true "Название и формат"
// @Success 201 {object} map[string]interface{} "Соревнование создано в статусе DRAFT"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Router /competitions [post]
func (h *CompetitionHandler) CreateCompetition(w http.ResponseWriter, r *http.Request) {
	var input services.CreateCompetitionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	competition, err := h.competitionService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"competition": competition}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetCompetition godoc
// @Summary Соревнование с расписанием
// @Tags competitions
// @Produce json
// @Param competitionID path string true "Competition ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Соревнование не найдено"
// @Router /competitions/{competitionID} [get]
func (h *CompetitionHandler) GetCompetition(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	competition, err := h.competitionService.Get(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"competition": competition}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type addTeamInput struct {
	TeamID string `json:"team_id"`
}

// AddTeam godoc
// @Summary Добавить команду (только DRAFT, до генерации расписания)
// @Tags competitions
// @Accept json
// @Produce json
// @Param competitionID path string true "Competition ID"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Команда уже заявлена или расписание создано"
// @Router /competitions/{competitionID}/teams [post]
func (h *CompetitionHandler) AddTeam(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input addTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.competitionService.AddTeam(r.Context(), id, input.TeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveTeam godoc
// @Summary Убрать команду (только DRAFT, до генерации расписания)
// @Tags competitions
// @Param competitionID path string true "Competition ID"
// @Param teamID path string true "Team ID"
// @Success 204
// @Router /competitions/{competitionID}/teams/{teamID} [delete]
func (h *CompetitionHandler) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.competitionService.RemoveTeam(r.Context(), id, chi.URLParam(r, "teamID")); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateSchedule godoc
// @Summary Сгенерировать расписание (один раз)
// @Tags competitions
// @Produce json
// @Param competitionID path string true "Competition ID"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Меньше двух команд"
// @Failure 409 {object} map[string]string "Расписание уже создано или соревнование не в DRAFT"
// @Router /competitions/{competitionID}/schedule [post]
func (h *CompetitionHandler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	competition, err := h.competitionService.GenerateSchedule(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"competition": competition}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportSchedule godoc
// @Summary Расписание в формате Excel
// @Tags competitions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param competitionID path string true "Competition ID"
// @Success 200
// @Router /competitions/{competitionID}/schedule.xlsx [get]
func (h *CompetitionHandler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	competition, err := h.competitionService.Get(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if len(competition.Rounds) == 0 {
		mapServiceErrorToHTTP(w, r, services.ErrNoSchedule)
		return
	}

	f, err := export.Workbook(competition)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="schedule-%s.xlsx"`, competition.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// ActivateCompetition godoc
// @Summary Перевести соревнование в ACTIVE
// @Tags competitions
// @Produce json
// @Param competitionID path string true "Competition ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Нет расписания или соревнование не в DRAFT"
// @Router /competitions/{competitionID}/activate [post]
func (h *CompetitionHandler) ActivateCompetition(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	competition, err := h.competitionService.Activate(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"competition": competition}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdvanceRound godoc
// @Summary Создать следующий раунд плей-офф
// @Tags competitions
// @Produce json
// @Param competitionID path string true "Competition ID"
// @Param roundNumber path int true "Номер завершённого раунда"
// @Success 201 {object} map[string]interface{} "Раунд создан"
// @Success 202 {object} map[string]interface{} "Не все результаты подтверждены, повторите позже"
// @Failure 409 {object} map[string]string "Финал сыгран или раунд уже создан"
// @Router /competitions/{competitionID}/rounds/{roundNumber}/advance [post]
func (h *CompetitionHandler) AdvanceRound(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	roundNumber, err := getIntFromURL(r, "roundNumber")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	round, err := h.knockoutService.AdvanceRound(r.Context(), id, roundNumber)
	if err != nil {
		if errors.Is(err, services.ErrBracketComplete) {
			errorResponse(w, r, http.StatusConflict, jsonResponse{"status": "complete", "message": err.Error()})
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"round": round}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
